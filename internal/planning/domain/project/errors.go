package project

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyName        = errors.New("project name cannot be empty")
	ErrProjectNotFound  = errors.New("project not found")
	ErrDuplicateProject = errors.New("a project with this name already exists")
	ErrDuplicateTask    = errors.New("a task with this name already exists in the project")
	ErrTaskNotFound     = errors.New("task not found")
	ErrSelfDependency   = errors.New("a task cannot depend on itself")
	ErrTaskInUse        = errors.New("task is still a dependency of other tasks")
)

// TaskInUseError is returned when removing a task other tasks depend on.
type TaskInUseError struct {
	Task       string
	Dependents []string
}

func (e *TaskInUseError) Error() string {
	return fmt.Sprintf("cannot remove task %q: required by %s", e.Task, strings.Join(e.Dependents, ", "))
}

func (e *TaskInUseError) Is(target error) bool {
	return target == ErrTaskInUse
}
