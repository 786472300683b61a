package task

import (
	"strings"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/value_objects"
)

// Task is an immutable, validated unit of work. Construct it with New;
// the zero value is invalid.
type Task struct {
	name         string
	urgency      value_objects.Level
	importance   value_objects.Level
	dependencies []string
}

// KeyOf returns the identity key for a task name.
func KeyOf(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// New validates its input and builds a Task. Blank dependency names are
// dropped and repeated ones (by key) collapsed, keeping the first spelling.
func New(name string, urgency, importance int, dependencies []string) (Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Task{}, &InvalidDataError{Field: "name", Reason: "must not be empty"}
	}

	u, err := value_objects.NewLevel(urgency)
	if err != nil {
		return Task{}, &InvalidDataError{Task: name, Field: "urgency", Reason: err.Error()}
	}
	i, err := value_objects.NewLevel(importance)
	if err != nil {
		return Task{}, &InvalidDataError{Task: name, Field: "importance", Reason: err.Error()}
	}

	return Task{
		name:         name,
		urgency:      u,
		importance:   i,
		dependencies: normalizeDependencies(dependencies),
	}, nil
}

func normalizeDependencies(deps []string) []string {
	out := make([]string, 0, len(deps))
	seen := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		k := KeyOf(d)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, d)
	}
	return out
}

func (t Task) Name() string                    { return t.name }
func (t Task) Key() string                     { return KeyOf(t.name) }
func (t Task) Urgency() value_objects.Level    { return t.urgency }
func (t Task) Importance() value_objects.Level { return t.importance }

// Dependencies returns a copy of the dependency names.
func (t Task) Dependencies() []string {
	out := make([]string, len(t.dependencies))
	copy(out, t.dependencies)
	return out
}

// DependsOn reports whether t lists name as a dependency.
func (t Task) DependsOn(name string) bool {
	k := KeyOf(name)
	for _, d := range t.dependencies {
		if KeyOf(d) == k {
			return true
		}
	}
	return false
}

// Validate re-checks a Task that may not have come from New.
func (t Task) Validate() error {
	if strings.TrimSpace(t.name) == "" {
		return &InvalidDataError{Field: "name", Reason: "must not be empty"}
	}
	if !t.urgency.IsValid() {
		return &InvalidDataError{Task: t.name, Field: "urgency", Reason: value_objects.ErrInvalidLevel.Error()}
	}
	if !t.importance.IsValid() {
		return &InvalidDataError{Task: t.name, Field: "importance", Reason: value_objects.ErrInvalidLevel.Error()}
	}
	return nil
}

// ReplaceDependency returns a copy of t whose reference to oldName points at
// newName instead. A dependency already naming newName absorbs the rewrite.
func (t Task) ReplaceDependency(oldName, newName string) Task {
	if !t.DependsOn(oldName) {
		return t
	}
	oldKey := KeyOf(oldName)
	deps := make([]string, len(t.dependencies))
	for i, d := range t.dependencies {
		if KeyOf(d) == oldKey {
			d = newName
		}
		deps[i] = d
	}
	t.dependencies = normalizeDependencies(deps)
	return t
}

// Equal reports whether two tasks carry the same data.
func (t Task) Equal(other Task) bool {
	if t.name != other.name || t.urgency != other.urgency || t.importance != other.importance {
		return false
	}
	if len(t.dependencies) != len(other.dependencies) {
		return false
	}
	for i := range t.dependencies {
		if t.dependencies[i] != other.dependencies[i] {
			return false
		}
	}
	return true
}
