package services

import (
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
)

// Quadrant is one cell of the Eisenhower matrix.
type Quadrant string

const (
	QuadrantImportantUrgent       Quadrant = "Important & Urgent"
	QuadrantImportantNotUrgent    Quadrant = "Important, Not Urgent"
	QuadrantNotImportantUrgent    Quadrant = "Not Important, Urgent"
	QuadrantNotImportantNotUrgent Quadrant = "Not Important, Not Urgent"
)

// Quadrants lists the quadrants from highest to lowest base score.
func Quadrants() []Quadrant {
	return []Quadrant{
		QuadrantImportantUrgent,
		QuadrantImportantNotUrgent,
		QuadrantNotImportantUrgent,
		QuadrantNotImportantNotUrgent,
	}
}

// BaseScore is the coarse 4..1 rank of the quadrant.
func (q Quadrant) BaseScore() int {
	switch q {
	case QuadrantImportantUrgent:
		return 4
	case QuadrantImportantNotUrgent:
		return 3
	case QuadrantNotImportantUrgent:
		return 2
	case QuadrantNotImportantNotUrgent:
		return 1
	default:
		return 0
	}
}

// Action is the conventional advice for tasks in the quadrant.
func (q Quadrant) Action() string {
	switch q {
	case QuadrantImportantUrgent:
		return "Do first"
	case QuadrantImportantNotUrgent:
		return "Schedule"
	case QuadrantNotImportantUrgent:
		return "Delegate"
	case QuadrantNotImportantNotUrgent:
		return "Eliminate"
	default:
		return ""
	}
}

func (q Quadrant) String() string { return string(q) }

// Matrix maps every quadrant to its tasks in input order.
type Matrix map[Quadrant][]task.Task

// Total counts the tasks across all quadrants.
func (m Matrix) Total() int {
	n := 0
	for _, tasks := range m {
		n += len(tasks)
	}
	return n
}

// QuadrantOf places a validated task. Levels of 3 and above count as high.
func QuadrantOf(t task.Task) Quadrant {
	important := t.Importance().IsHigh()
	urgent := t.Urgency().IsHigh()

	switch {
	case important && urgent:
		return QuadrantImportantUrgent
	case important:
		return QuadrantImportantNotUrgent
	case urgent:
		return QuadrantNotImportantUrgent
	default:
		return QuadrantNotImportantNotUrgent
	}
}

// Classify partitions tasks into the four quadrants, keeping input order
// inside each. All four keys are present in the result. Any invalid task
// fails the whole call.
func Classify(tasks []task.Task) (Matrix, error) {
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
	}

	m := make(Matrix, 4)
	for _, q := range Quadrants() {
		m[q] = make([]task.Task, 0)
	}
	for _, t := range tasks {
		q := QuadrantOf(t)
		m[q] = append(m[q], t)
	}
	return m, nil
}
