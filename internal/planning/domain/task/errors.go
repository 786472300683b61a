package task

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTaskData   = errors.New("invalid task data")
	ErrUnknownDependency = errors.New("unknown dependency")
)

// InvalidDataError describes a task rejected at the boundary.
type InvalidDataError struct {
	Task   string
	Field  string
	Reason string
}

func (e *InvalidDataError) Error() string {
	if e.Task == "" {
		return fmt.Sprintf("invalid task data: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid task data: task %q: %s: %s", e.Task, e.Field, e.Reason)
}

func (e *InvalidDataError) Is(target error) bool {
	return target == ErrInvalidTaskData
}

// UnknownDependencyError reports a dependency that names no task in the collection.
type UnknownDependencyError struct {
	Task    string
	Missing string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("unknown dependency: task %q depends on %q, which does not exist", e.Task, e.Missing)
}

func (e *UnknownDependencyError) Is(target error) bool {
	return target == ErrUnknownDependency
}
