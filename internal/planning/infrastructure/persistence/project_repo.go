package persistence

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// ProjectRepository implements project.Repository on SQLite or PostgreSQL.
// Tasks are stored one row each, ordered by position; dependencies are a
// JSON array column.
type ProjectRepository struct {
	conn database.Connection
}

// NewProjectRepository creates a new project repository.
func NewProjectRepository(conn database.Connection) *ProjectRepository {
	return &ProjectRepository{conn: conn}
}

func (r *ProjectRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save upserts the project row and rewrites its task rows. Without a
// transaction in ctx it opens its own.
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) error {
	if _, ok := database.TxInfoFromContext(ctx); ok {
		return r.save(ctx, r.executor(ctx), p)
	}

	tx, err := r.conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.save(ctx, tx, p); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *ProjectRepository) save(ctx context.Context, exec database.Executor, p *project.Project) error {
	_, err := exec.Exec(ctx, `
		INSERT INTO projects (id, name, name_key, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			name_key = excluded.name_key,
			updated_at = excluded.updated_at`,
		p.ID().String(),
		p.Name(),
		p.Key(),
		database.FormatTime(p.CreatedAt()),
		database.FormatTime(p.UpdatedAt()),
	)
	if err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}

	if _, err := exec.Exec(ctx, `DELETE FROM tasks WHERE project_id = ?`, p.ID().String()); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	for i, t := range p.Tasks() {
		deps, err := json.Marshal(t.Dependencies())
		if err != nil {
			return fmt.Errorf("failed to marshal dependencies: %w", err)
		}
		_, err = exec.Exec(ctx, `
			INSERT INTO tasks (project_id, position, name, name_key, urgency, importance, dependencies)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID().String(), i, t.Name(), t.Key(), t.Urgency().Int(), t.Importance().Int(), string(deps),
		)
		if err != nil {
			return fmt.Errorf("failed to save task %q: %w", t.Name(), err)
		}
	}

	return nil
}

// FindByID retrieves a project by ID.
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	row := r.executor(ctx).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM projects WHERE id = ?`, id.String())
	return r.load(ctx, row)
}

// FindByName retrieves a project by case-insensitive name.
func (r *ProjectRepository) FindByName(ctx context.Context, name string) (*project.Project, error) {
	row := r.executor(ctx).QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM projects WHERE name_key = ?`, project.KeyOf(name))
	return r.load(ctx, row)
}

// List returns every project ordered by name.
func (r *ProjectRepository) List(ctx context.Context) ([]*project.Project, error) {
	rows, err := r.executor(ctx).Query(ctx,
		`SELECT id, name, created_at, updated_at FROM projects ORDER BY name_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	var heads []projectRow
	for rows.Next() {
		h, err := scanProjectRow(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		heads = append(heads, h)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Close before loading tasks: SQLite runs on a single connection.
	rows.Close()

	projects := make([]*project.Project, 0, len(heads))
	for _, h := range heads {
		p, err := r.withTasks(ctx, h)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, nil
}

// Delete removes a project; its tasks go with it.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := r.executor(ctx)
	if _, err := exec.Exec(ctx, `DELETE FROM tasks WHERE project_id = ?`, id.String()); err != nil {
		return fmt.Errorf("failed to delete tasks: %w", err)
	}
	result, err := exec.Exec(ctx, `DELETE FROM projects WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}

type projectRow struct {
	id        uuid.UUID
	name      string
	createdAt string
	updatedAt string
}

func scanProjectRow(row database.Row) (projectRow, error) {
	var (
		h  projectRow
		id string
	)
	if err := row.Scan(&id, &h.name, &h.createdAt, &h.updatedAt); err != nil {
		return projectRow{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return projectRow{}, fmt.Errorf("invalid project id %q: %w", id, err)
	}
	h.id = parsed
	return h, nil
}

func (r *ProjectRepository) load(ctx context.Context, row database.Row) (*project.Project, error) {
	h, err := scanProjectRow(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return r.withTasks(ctx, h)
}

func (r *ProjectRepository) withTasks(ctx context.Context, h projectRow) (*project.Project, error) {
	rows, err := r.executor(ctx).Query(ctx, `
		SELECT name, urgency, importance, dependencies
		FROM tasks WHERE project_id = ? ORDER BY position`, h.id.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		var (
			name                string
			urgency, importance int
			depsJSON            string
			deps                []string
		)
		if err := rows.Scan(&name, &urgency, &importance, &depsJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(depsJSON), &deps); err != nil {
			return nil, fmt.Errorf("task %q: invalid dependencies: %w", name, err)
		}
		t, err := task.New(name, urgency, importance, deps)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	createdAt, err := database.ParseTime(h.createdAt)
	if err != nil {
		return nil, fmt.Errorf("project %q: created_at: %w", h.name, err)
	}
	updatedAt, err := database.ParseTime(h.updatedAt)
	if err != nil {
		return nil, fmt.Errorf("project %q: updated_at: %w", h.name, err)
	}

	return project.Rehydrate(h.id, h.name, tasks, createdAt, updatedAt), nil
}
