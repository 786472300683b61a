package project

import (
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	"github.com/felixgeelhaar/tskprio/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Project"

	RoutingKeyCreated       = "project.created"
	RoutingKeyRenamed       = "project.renamed"
	RoutingKeyDeleted       = "project.deleted"
	RoutingKeyTasksReplaced = "project.tasks_replaced"
	RoutingKeyTaskAdded     = "task.added"
	RoutingKeyTaskUpdated   = "task.updated"
	RoutingKeyTaskRemoved   = "task.removed"
)

// TaskPayload is the serialized form of a task inside events.
type TaskPayload struct {
	Name         string   `json:"name"`
	Urgency      int      `json:"urgency"`
	Importance   int      `json:"importance"`
	Dependencies []string `json:"dependencies"`
}

func payloadOf(t task.Task) TaskPayload {
	return TaskPayload{
		Name:         t.Name(),
		Urgency:      t.Urgency().Int(),
		Importance:   t.Importance().Int(),
		Dependencies: t.Dependencies(),
	}
}

type ProjectCreated struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func NewProjectCreated(id uuid.UUID, name string) *ProjectCreated {
	return &ProjectCreated{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyCreated),
		Name:      name,
	}
}

type ProjectRenamed struct {
	domain.BaseEvent
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

func NewProjectRenamed(id uuid.UUID, oldName, newName string) *ProjectRenamed {
	return &ProjectRenamed{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyRenamed),
		OldName:   oldName,
		NewName:   newName,
	}
}

type ProjectDeleted struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func NewProjectDeleted(id uuid.UUID, name string) *ProjectDeleted {
	return &ProjectDeleted{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyDeleted),
		Name:      name,
	}
}

// TasksReplaced is emitted when a project's task list is replaced wholesale by an import.
type TasksReplaced struct {
	domain.BaseEvent
	Tasks []TaskPayload `json:"tasks"`
}

func NewTasksReplaced(id uuid.UUID, tasks []task.Task) *TasksReplaced {
	payload := make([]TaskPayload, 0, len(tasks))
	for _, t := range tasks {
		payload = append(payload, payloadOf(t))
	}
	return &TasksReplaced{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyTasksReplaced),
		Tasks:     payload,
	}
}

type TaskAdded struct {
	domain.BaseEvent
	Task TaskPayload `json:"task"`
}

func NewTaskAdded(id uuid.UUID, t task.Task) *TaskAdded {
	return &TaskAdded{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyTaskAdded),
		Task:      payloadOf(t),
	}
}

// TaskUpdated carries the previous name so consumers can follow renames.
type TaskUpdated struct {
	domain.BaseEvent
	PreviousName string      `json:"previous_name"`
	Task         TaskPayload `json:"task"`
}

func NewTaskUpdated(id uuid.UUID, previousName string, t task.Task) *TaskUpdated {
	return &TaskUpdated{
		BaseEvent:    domain.NewBaseEvent(id, AggregateType, RoutingKeyTaskUpdated),
		PreviousName: previousName,
		Task:         payloadOf(t),
	}
}

type TaskRemoved struct {
	domain.BaseEvent
	Name string `json:"name"`
}

func NewTaskRemoved(id uuid.UUID, name string) *TaskRemoved {
	return &TaskRemoved{
		BaseEvent: domain.NewBaseEvent(id, AggregateType, RoutingKeyTaskRemoved),
		Name:      name,
	}
}
