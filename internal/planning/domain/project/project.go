package project

import (
	"strings"
	"time"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	"github.com/felixgeelhaar/tskprio/internal/shared/domain"
	"github.com/google/uuid"
)

// Project is a named, ordered collection of tasks. Dependencies resolve only
// against tasks of the same project.
type Project struct {
	domain.BaseAggregateRoot
	name  string
	tasks []task.Task
}

// New creates an empty project.
func New(name string) (*Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	p := &Project{
		BaseAggregateRoot: domain.NewBaseAggregateRoot(),
		name:              name,
		tasks:             make([]task.Task, 0),
	}
	p.AddDomainEvent(NewProjectCreated(p.ID(), p.name))
	return p, nil
}

// Rehydrate rebuilds a project from persisted state. Dependencies are not
// checked: stored data may hold dangling references or cycles, which the
// prioritizer reports.
func Rehydrate(id uuid.UUID, name string, tasks []task.Task, createdAt, updatedAt time.Time) *Project {
	p := &Project{
		BaseAggregateRoot: domain.RehydrateBaseAggregateRoot(domain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		name:              name,
		tasks:             make([]task.Task, len(tasks)),
	}
	copy(p.tasks, tasks)
	return p
}

func (p *Project) Name() string { return p.name }
func (p *Project) Key() string  { return KeyOf(p.name) }
func (p *Project) Len() int     { return len(p.tasks) }

// KeyOf returns the case-insensitive identity of a project name.
func KeyOf(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Tasks returns the tasks in insertion order.
func (p *Project) Tasks() []task.Task {
	out := make([]task.Task, len(p.tasks))
	copy(out, p.tasks)
	return out
}

// Task looks a task up by name, case-insensitively.
func (p *Project) Task(name string) (task.Task, bool) {
	if i := p.indexOf(name); i >= 0 {
		return p.tasks[i], true
	}
	return task.Task{}, false
}

func (p *Project) indexOf(name string) int {
	k := task.KeyOf(name)
	for i, t := range p.tasks {
		if t.Key() == k {
			return i
		}
	}
	return -1
}

// Rename changes the project name. Uniqueness across projects is the
// repository's concern.
func (p *Project) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if name == p.name {
		return nil
	}
	old := p.name
	p.name = name
	p.Touch()
	p.AddDomainEvent(NewProjectRenamed(p.ID(), old, name))
	return nil
}

// MarkDeleted records the deletion event; the caller removes the project
// from storage.
func (p *Project) MarkDeleted() {
	p.AddDomainEvent(NewProjectDeleted(p.ID(), p.name))
}

// AddTask appends t. Its dependencies must already exist in the project.
func (p *Project) AddTask(t task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if p.indexOf(t.Name()) >= 0 {
		return ErrDuplicateTask
	}
	if err := p.checkDependencies(t, -1); err != nil {
		return err
	}

	p.tasks = append(p.tasks, t)
	p.Touch()
	p.AddDomainEvent(NewTaskAdded(p.ID(), t))
	return nil
}

// UpdateTask replaces the task called name with t, keeping its position.
// When t renames the task, every other task's reference follows the rename.
func (p *Project) UpdateTask(name string, t task.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}
	idx := p.indexOf(name)
	if idx < 0 {
		return ErrTaskNotFound
	}
	old := p.tasks[idx]
	if other := p.indexOf(t.Name()); other >= 0 && other != idx {
		return ErrDuplicateTask
	}
	if t.DependsOn(old.Name()) {
		return ErrSelfDependency
	}
	if err := p.checkDependencies(t, idx); err != nil {
		return err
	}

	p.tasks[idx] = t
	if old.Key() != t.Key() {
		for i := range p.tasks {
			if i != idx {
				p.tasks[i] = p.tasks[i].ReplaceDependency(old.Name(), t.Name())
			}
		}
	}
	p.Touch()
	p.AddDomainEvent(NewTaskUpdated(p.ID(), old.Name(), t))
	return nil
}

// RemoveTask deletes the task called name unless another task depends on it.
func (p *Project) RemoveTask(name string) error {
	idx := p.indexOf(name)
	if idx < 0 {
		return ErrTaskNotFound
	}
	removed := p.tasks[idx]

	var dependents []string
	for i, t := range p.tasks {
		if i != idx && t.DependsOn(removed.Name()) {
			dependents = append(dependents, t.Name())
		}
	}
	if len(dependents) > 0 {
		return &TaskInUseError{Task: removed.Name(), Dependents: dependents}
	}

	p.tasks = append(p.tasks[:idx], p.tasks[idx+1:]...)
	p.Touch()
	p.AddDomainEvent(NewTaskRemoved(p.ID(), removed.Name()))
	return nil
}

// ReplaceTasks swaps in a whole task list, as an import does. Names must be
// unique; dependencies are not resolved here.
func (p *Project) ReplaceTasks(tasks []task.Task) error {
	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		if err := t.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.Key()]; dup {
			return ErrDuplicateTask
		}
		seen[t.Key()] = struct{}{}
	}

	p.tasks = make([]task.Task, len(tasks))
	copy(p.tasks, tasks)
	p.Touch()
	p.AddDomainEvent(NewTasksReplaced(p.ID(), p.tasks))
	return nil
}

// checkDependencies validates t's dependencies against the project,
// ignoring the task at skip (the one being replaced).
func (p *Project) checkDependencies(t task.Task, skip int) error {
	for _, dep := range t.Dependencies() {
		if task.KeyOf(dep) == t.Key() {
			return ErrSelfDependency
		}
		idx := p.indexOf(dep)
		if idx < 0 || idx == skip {
			return &task.UnknownDependencyError{Task: t.Name(), Missing: dep}
		}
	}
	return nil
}
