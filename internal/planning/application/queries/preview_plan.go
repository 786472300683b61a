package queries

import (
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
)

// TaskInput is an unvalidated task as received from a client.
type TaskInput struct {
	Name         string   `json:"name"`
	Urgency      int      `json:"urgency"`
	Importance   int      `json:"importance"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// PreviewPlanQuery plans an ad-hoc task list without touching storage.
type PreviewPlanQuery struct {
	Tasks []TaskInput
}

// PreviewResult bundles the matrix and the action plan.
type PreviewResult struct {
	Matrix *MatrixDTO     `json:"matrix"`
	Plan   *ActionPlanDTO `json:"plan"`
}

type PreviewPlanHandler struct{}

func NewPreviewPlanHandler() *PreviewPlanHandler {
	return &PreviewPlanHandler{}
}

// Handle validates every input first; one invalid task rejects the batch.
func (h *PreviewPlanHandler) Handle(query PreviewPlanQuery) (*PreviewResult, error) {
	tasks := make([]task.Task, 0, len(query.Tasks))
	for _, in := range query.Tasks {
		t, err := task.New(in.Name, in.Urgency, in.Importance, in.Dependencies)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}

	matrix, err := BuildMatrix(tasks)
	if err != nil {
		return nil, err
	}
	plan, err := BuildActionPlan(tasks)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{Matrix: matrix, Plan: plan}, nil
}
