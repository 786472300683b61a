package services

import (
	"container/heap"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
)

var (
	ErrCyclicDependency  = errors.New("cyclic dependency")
	ErrUnknownDependency = task.ErrUnknownDependency
)

// UnknownDependencyError names the first task found referencing a missing one.
type UnknownDependencyError = task.UnknownDependencyError

// CyclicDependencyError lists every task that can never become eligible,
// in input order. Cycle is one closed dependency path among them, first
// element repeated at the end.
type CyclicDependencyError struct {
	Tasks []string
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	msg := fmt.Sprintf("cyclic dependency among tasks: %s", strings.Join(e.Tasks, ", "))
	if len(e.Cycle) > 0 {
		msg += fmt.Sprintf(" (cycle: %s)", strings.Join(e.Cycle, " -> "))
	}
	return msg
}

func (e *CyclicDependencyError) Is(target error) bool {
	return target == ErrCyclicDependency
}

// Score is the canonical priority score: importance dominates, urgency breaks ties.
func Score(t task.Task) int {
	return t.Importance().Int()*10 + t.Urgency().Int()
}

// frontier is a max-heap of task indexes by score, lower index first on ties.
type frontier struct {
	idx    []int
	scores []int
}

func (f *frontier) Len() int { return len(f.idx) }

func (f *frontier) Less(i, j int) bool {
	a, b := f.idx[i], f.idx[j]
	if f.scores[a] != f.scores[b] {
		return f.scores[a] > f.scores[b]
	}
	return a < b
}

func (f *frontier) Swap(i, j int) { f.idx[i], f.idx[j] = f.idx[j], f.idx[i] }
func (f *frontier) Push(x any)    { f.idx = append(f.idx, x.(int)) }

func (f *frontier) Pop() any {
	n := len(f.idx)
	x := f.idx[n-1]
	f.idx = f.idx[:n-1]
	return x
}

// Prioritize returns every task exactly once, each after all of its
// dependencies; among eligible tasks the highest Score goes first and ties
// keep input order. It never returns a partial plan: invalid data,
// a dangling dependency or a cycle fail the whole call.
func Prioritize(tasks []task.Task) ([]task.Task, error) {
	index := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := index[t.Key()]; dup {
			return nil, &task.InvalidDataError{Task: t.Name(), Field: "name", Reason: "duplicate task name"}
		}
		index[t.Key()] = i
	}

	deps := make([][]int, len(tasks))
	for i, t := range tasks {
		for _, name := range t.Dependencies() {
			j, ok := index[task.KeyOf(name)]
			if !ok {
				return nil, &UnknownDependencyError{Task: t.Name(), Missing: name}
			}
			deps[i] = append(deps[i], j)
		}
	}

	pending := make([]int, len(tasks))
	dependents := make([][]int, len(tasks))
	scores := make([]int, len(tasks))
	for i, t := range tasks {
		pending[i] = len(deps[i])
		for _, j := range deps[i] {
			dependents[j] = append(dependents[j], i)
		}
		scores[i] = Score(t)
	}

	f := &frontier{scores: scores}
	for i := range tasks {
		if pending[i] == 0 {
			f.idx = append(f.idx, i)
		}
	}
	heap.Init(f)

	ordered := make([]task.Task, 0, len(tasks))
	for f.Len() > 0 {
		i := heap.Pop(f).(int)
		ordered = append(ordered, tasks[i])
		for _, d := range dependents[i] {
			pending[d]--
			if pending[d] == 0 {
				heap.Push(f, d)
			}
		}
	}

	if len(ordered) < len(tasks) {
		return nil, cycleError(tasks, deps, pending)
	}
	return ordered, nil
}

// cycleError reports the stuck tasks. Every stuck task has at least one
// stuck dependency, so walking stuck edges from any of them must loop.
func cycleError(tasks []task.Task, deps [][]int, pending []int) *CyclicDependencyError {
	var stuck []string
	first := -1
	for i, t := range tasks {
		if pending[i] > 0 {
			stuck = append(stuck, t.Name())
			if first < 0 {
				first = i
			}
		}
	}

	seenAt := make(map[int]int)
	var path []int
	for cur := first; ; {
		if at, ok := seenAt[cur]; ok {
			path = append(path[at:], cur)
			break
		}
		seenAt[cur] = len(path)
		path = append(path, cur)

		next := -1
		for _, j := range deps[cur] {
			if pending[j] > 0 {
				next = j
				break
			}
		}
		if next < 0 {
			// Unreachable for a genuine cycle; report the set alone.
			return &CyclicDependencyError{Tasks: stuck}
		}
		cur = next
	}

	cycle := make([]string, len(path))
	for k, i := range path {
		cycle[k] = tasks[i].Name()
	}
	return &CyclicDependencyError{Tasks: stuck, Cycle: cycle}
}

// RankedTask is one step of an action plan.
type RankedTask struct {
	Position int
	Task     task.Task
	Score    int
	Quadrant Quadrant
}

// Rank prioritizes tasks and annotates each with its 1-based position,
// score and quadrant.
func Rank(tasks []task.Task) ([]RankedTask, error) {
	ordered, err := Prioritize(tasks)
	if err != nil {
		return nil, err
	}
	ranked := make([]RankedTask, len(ordered))
	for i, t := range ordered {
		ranked[i] = RankedTask{
			Position: i + 1,
			Task:     t,
			Score:    Score(t),
			Quadrant: QuadrantOf(t),
		}
	}
	return ranked, nil
}
