// Package jsonfile reads and writes task files: either a bare array of tasks
// or an object mapping project names to task arrays.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/felixgeelhaar/tskprio/internal/planning/application/commands"
	"github.com/felixgeelhaar/tskprio/internal/planning/application/queries"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
)

// ErrInvalidFormat is returned for files that are not a task list or project map.
var ErrInvalidFormat = errors.New("invalid task file")

// DefaultProject names the project a bare task array is loaded into.
const DefaultProject = "Default"

// Format is the top-level shape of a task file.
type Format int

const (
	// FormatArray is a single project stored as an array of tasks.
	FormatArray Format = iota
	// FormatMap is an object keyed by project name.
	FormatMap
)

func (f Format) String() string {
	if f == FormatArray {
		return "array"
	}
	return "map"
}

// TaskRecord is a task as stored on disk.
type TaskRecord struct {
	Name         string   `json:"name"`
	Urgency      int      `json:"urgency"`
	Importance   int      `json:"importance"`
	Dependencies []string `json:"dependencies"`
}

// UnmarshalJSON accepts the legacy keys nom, urgence and dependances.
func (r *TaskRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Name         *string  `json:"name"`
		Nom          *string  `json:"nom"`
		Urgency      *int     `json:"urgency"`
		Urgence      *int     `json:"urgence"`
		Importance   int      `json:"importance"`
		Dependencies []string `json:"dependencies"`
		Dependances  []string `json:"dependances"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = TaskRecord{Importance: raw.Importance}
	switch {
	case raw.Name != nil:
		r.Name = *raw.Name
	case raw.Nom != nil:
		r.Name = *raw.Nom
	}
	switch {
	case raw.Urgency != nil:
		r.Urgency = *raw.Urgency
	case raw.Urgence != nil:
		r.Urgency = *raw.Urgence
	}
	r.Dependencies = raw.Dependencies
	if r.Dependencies == nil {
		r.Dependencies = raw.Dependances
	}
	return nil
}

// ProjectRecord is one named task list.
type ProjectRecord struct {
	Name  string
	Tasks []TaskRecord
}

// Document is a decoded task file. Projects keep file order.
type Document struct {
	Format   Format
	Projects []ProjectRecord
}

// Decode parses and validates a task file. A bare array is loaded into
// defaultProject, or DefaultProject when that is empty.
func Decode(data []byte, defaultProject string) (*Document, error) {
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if err := validate(generic); err != nil {
		return nil, err
	}

	if _, ok := generic.([]any); ok {
		var tasks []TaskRecord
		if err := json.Unmarshal(data, &tasks); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		if defaultProject == "" {
			defaultProject = DefaultProject
		}
		return &Document{
			Format:   FormatArray,
			Projects: []ProjectRecord{{Name: defaultProject, Tasks: tasks}},
		}, nil
	}

	projects, err := decodeOrderedMap(data)
	if err != nil {
		return nil, err
	}
	return &Document{Format: FormatMap, Projects: projects}, nil
}

// decodeOrderedMap walks the top-level object token by token so project
// order follows the file. Keys naming the same project, ignoring case, are
// rejected; encoding/json would otherwise keep only the last one.
func decodeOrderedMap(data []byte) ([]ProjectRecord, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	var projects []ProjectRecord
	seen := make(map[string]string)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrInvalidFormat, tok)
		}
		if first, dup := seen[project.KeyOf(name)]; dup {
			return nil, fmt.Errorf("%w: %w: %q and %q", ErrInvalidFormat, project.ErrDuplicateProject, first, name)
		}
		seen[project.KeyOf(name)] = name
		var tasks []TaskRecord
		if err := dec.Decode(&tasks); err != nil {
			return nil, fmt.Errorf("%w: project %q: %v", ErrInvalidFormat, name, err)
		}
		projects = append(projects, ProjectRecord{Name: name, Tasks: tasks})
	}
	return projects, nil
}

// Encode writes projects using the English keys. FormatArray requires
// exactly one project.
func Encode(doc *Document) ([]byte, error) {
	if doc.Format == FormatArray {
		if len(doc.Projects) != 1 {
			return nil, fmt.Errorf("%w: array format holds exactly one project, got %d", ErrInvalidFormat, len(doc.Projects))
		}
		out, err := json.MarshalIndent(normalize(doc.Projects[0].Tasks), "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	}

	var buf bytes.Buffer
	buf.WriteString("{")
	for i, p := range doc.Projects {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(p.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.MarshalIndent(normalize(p.Tasks), "  ", "  ")
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(value)
	}
	if len(doc.Projects) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func normalize(tasks []TaskRecord) []TaskRecord {
	out := make([]TaskRecord, len(tasks))
	for i, t := range tasks {
		out[i] = t
		if out[i].Dependencies == nil {
			out[i].Dependencies = []string{}
		}
	}
	return out
}

// ToImported converts records to validated tasks. The first invalid task
// rejects the whole document.
func (d *Document) ToImported() ([]commands.ImportedProject, error) {
	out := make([]commands.ImportedProject, 0, len(d.Projects))
	for _, p := range d.Projects {
		tasks := make([]task.Task, 0, len(p.Tasks))
		for i, r := range p.Tasks {
			t, err := task.New(r.Name, r.Urgency, r.Importance, r.Dependencies)
			if err != nil {
				return nil, fmt.Errorf("project %q task %d: %w", p.Name, i+1, err)
			}
			tasks = append(tasks, t)
		}
		out = append(out, commands.ImportedProject{Name: p.Name, Tasks: tasks})
	}
	return out, nil
}

// FromProjectDTO converts a stored project for export.
func FromProjectDTO(p queries.ProjectDTO) ProjectRecord {
	tasks := make([]TaskRecord, 0, len(p.Tasks))
	for _, t := range p.Tasks {
		tasks = append(tasks, TaskRecord{
			Name:         t.Name,
			Urgency:      t.Urgency,
			Importance:   t.Importance,
			Dependencies: t.Dependencies,
		})
	}
	return ProjectRecord{Name: p.Name, Tasks: tasks}
}
