package queries

import (
	"time"

	"github.com/felixgeelhaar/tskprio/internal/planning/application/services"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	"github.com/google/uuid"
)

// TaskDTO is a data transfer object for tasks.
type TaskDTO struct {
	Name         string   `json:"name" yaml:"name"`
	Urgency      int      `json:"urgency" yaml:"urgency"`
	Importance   int      `json:"importance" yaml:"importance"`
	Dependencies []string `json:"dependencies" yaml:"dependencies"`
	Score        int      `json:"score" yaml:"score"`
	Quadrant     string   `json:"quadrant" yaml:"quadrant"`
}

// ProjectSummaryDTO is one row of the project list.
type ProjectSummaryDTO struct {
	ID        uuid.UUID `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	TaskCount int       `json:"task_count" yaml:"task_count"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// ProjectDTO is a project with its tasks in insertion order.
type ProjectDTO struct {
	ProjectSummaryDTO `yaml:",inline"`
	Tasks             []TaskDTO `json:"tasks" yaml:"tasks"`
}

// QuadrantDTO is one cell of the Eisenhower matrix.
type QuadrantDTO struct {
	Name      string    `json:"name" yaml:"name"`
	Action    string    `json:"action" yaml:"action"`
	BaseScore int       `json:"base_score" yaml:"base_score"`
	Tasks     []TaskDTO `json:"tasks" yaml:"tasks"`
}

// MatrixDTO lists the four quadrants from "Important & Urgent" down.
type MatrixDTO struct {
	Project   string        `json:"project,omitempty" yaml:"project,omitempty"`
	Quadrants []QuadrantDTO `json:"quadrants" yaml:"quadrants"`
}

// PlanStepDTO is one entry of an action plan.
type PlanStepDTO struct {
	Position int `json:"position" yaml:"position"`
	TaskDTO  `yaml:",inline"`
}

// ActionPlanDTO is a dependency-respecting execution order.
type ActionPlanDTO struct {
	Project string        `json:"project,omitempty" yaml:"project,omitempty"`
	Steps   []PlanStepDTO `json:"steps" yaml:"steps"`
}

func toTaskDTO(t task.Task) TaskDTO {
	return TaskDTO{
		Name:         t.Name(),
		Urgency:      t.Urgency().Int(),
		Importance:   t.Importance().Int(),
		Dependencies: t.Dependencies(),
		Score:        services.Score(t),
		Quadrant:     services.QuadrantOf(t).String(),
	}
}

func toSummaryDTO(p *project.Project) ProjectSummaryDTO {
	return ProjectSummaryDTO{
		ID:        p.ID(),
		Name:      p.Name(),
		TaskCount: p.Len(),
		CreatedAt: p.CreatedAt(),
		UpdatedAt: p.UpdatedAt(),
	}
}

// BuildMatrix classifies tasks into a MatrixDTO.
func BuildMatrix(tasks []task.Task) (*MatrixDTO, error) {
	m, err := services.Classify(tasks)
	if err != nil {
		return nil, err
	}

	dto := &MatrixDTO{Quadrants: make([]QuadrantDTO, 0, 4)}
	for _, q := range services.Quadrants() {
		qd := QuadrantDTO{
			Name:      q.String(),
			Action:    q.Action(),
			BaseScore: q.BaseScore(),
			Tasks:     make([]TaskDTO, 0, len(m[q])),
		}
		for _, t := range m[q] {
			qd.Tasks = append(qd.Tasks, toTaskDTO(t))
		}
		dto.Quadrants = append(dto.Quadrants, qd)
	}
	return dto, nil
}

// BuildActionPlan prioritizes tasks into an ActionPlanDTO.
func BuildActionPlan(tasks []task.Task) (*ActionPlanDTO, error) {
	ranked, err := services.Rank(tasks)
	if err != nil {
		return nil, err
	}

	dto := &ActionPlanDTO{Steps: make([]PlanStepDTO, 0, len(ranked))}
	for _, r := range ranked {
		dto.Steps = append(dto.Steps, PlanStepDTO{Position: r.Position, TaskDTO: toTaskDTO(r.Task)})
	}
	return dto, nil
}
