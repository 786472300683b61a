package queries

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/tskprio/internal/planning/application/services"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/planning/domain/task"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProjectRepo struct {
	mock.Mock
}

func (m *mockProjectRepo) Save(ctx context.Context, p *project.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockProjectRepo) FindByName(ctx context.Context, name string) (*project.Project, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*project.Project), args.Error(1)
}

func (m *mockProjectRepo) List(ctx context.Context) ([]*project.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*project.Project), args.Error(1)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
	gets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.entries[key] = value
	return nil
}

func mustTask(t *testing.T, name string, urgency, importance int, deps ...string) task.Task {
	t.Helper()
	tsk, err := task.New(name, urgency, importance, deps)
	require.NoError(t, err)
	return tsk
}

func reportProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.New("Report")
	require.NoError(t, err)
	require.NoError(t, p.AddTask(mustTask(t, "Write report", 5, 5)))
	require.NoError(t, p.AddTask(mustTask(t, "Gather data", 4, 5)))
	require.NoError(t, p.AddTask(mustTask(t, "Review", 2, 4, "Write report")))
	p.ClearDomainEvents()
	return p
}

func stepNames(plan *ActionPlanDTO) []string {
	out := make([]string, len(plan.Steps))
	for i, s := range plan.Steps {
		out[i] = s.Name
	}
	return out
}

func TestListProjectsHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProjectRepo)
	p := reportProject(t)
	repo.On("List", ctx).Return([]*project.Project{p}, nil)

	dtos, err := NewListProjectsHandler(repo).Handle(ctx)

	require.NoError(t, err)
	require.Len(t, dtos, 1)
	assert.Equal(t, p.ID(), dtos[0].ID)
	assert.Equal(t, "Report", dtos[0].Name)
	assert.Equal(t, 3, dtos[0].TaskCount)
}

func TestListProjectsHandler_Error(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProjectRepo)
	repo.On("List", ctx).Return(nil, errors.New("disk full"))

	_, err := NewListProjectsHandler(repo).Handle(ctx)

	assert.EqualError(t, err, "disk full")
}

func TestGetProjectHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProjectRepo)
	repo.On("FindByName", ctx, "report").Return(reportProject(t), nil)

	dto, err := NewGetProjectHandler(repo).Handle(ctx, GetProjectQuery{Project: "report"})

	require.NoError(t, err)
	require.Len(t, dto.Tasks, 3)
	assert.Equal(t, "Review", dto.Tasks[2].Name)
	assert.Equal(t, 42, dto.Tasks[2].Score)
	assert.Equal(t, []string{"Write report"}, dto.Tasks[2].Dependencies)
	assert.Equal(t, string(services.QuadrantImportantNotUrgent), dto.Tasks[2].Quadrant)

	data, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"name":"Report"`)
	assert.Contains(t, string(data), `"task_count":3`)
}

func TestGetProjectHandler_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProjectRepo)
	repo.On("FindByName", ctx, "nope").Return(nil, project.ErrProjectNotFound)

	_, err := NewGetProjectHandler(repo).Handle(ctx, GetProjectQuery{Project: "nope"})

	assert.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestGetMatrixHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProjectRepo)
	repo.On("FindByName", ctx, "Report").Return(reportProject(t), nil)

	m, err := NewGetMatrixHandler(repo).Handle(ctx, GetMatrixQuery{Project: "Report"})

	require.NoError(t, err)
	assert.Equal(t, "Report", m.Project)
	require.Len(t, m.Quadrants, 4)
	assert.Equal(t, "Important & Urgent", m.Quadrants[0].Name)
	assert.Equal(t, "Do first", m.Quadrants[0].Action)
	assert.Len(t, m.Quadrants[0].Tasks, 2)
	assert.Len(t, m.Quadrants[1].Tasks, 1)
	assert.Empty(t, m.Quadrants[2].Tasks)
	assert.Empty(t, m.Quadrants[3].Tasks)
}

func TestGetActionPlanHandler_Handle(t *testing.T) {
	t.Run("computes and caches", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		p := reportProject(t)
		repo.On("FindByName", ctx, "Report").Return(p, nil)
		cache := newFakeCache()
		handler := NewGetActionPlanHandler(repo, cache, nil)

		plan, err := handler.Handle(ctx, GetActionPlanQuery{Project: "Report"})

		require.NoError(t, err)
		assert.Equal(t, "Report", plan.Project)
		assert.Equal(t, []string{"Write report", "Gather data", "Review"}, stepNames(plan))
		assert.Equal(t, 1, plan.Steps[0].Position)
		assert.Equal(t, 55, plan.Steps[0].Score)
		assert.Contains(t, cache.entries, PlanCacheKey(p))
	})

	t.Run("serves from cache", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		p := reportProject(t)
		repo.On("FindByName", ctx, "Report").Return(p, nil)
		cache := newFakeCache()
		cache.entries[PlanCacheKey(p)] = []byte(`{"project":"Report","steps":[{"position":1,"name":"Cached","urgency":1,"importance":1,"dependencies":[],"score":11,"quadrant":"x"}]}`)

		plan, err := NewGetActionPlanHandler(repo, cache, nil).Handle(ctx, GetActionPlanQuery{Project: "Report"})

		require.NoError(t, err)
		assert.Equal(t, []string{"Cached"}, stepNames(plan))
	})

	t.Run("cache failures fall back to computing", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		repo.On("FindByName", ctx, "Report").Return(reportProject(t), nil)
		cache := newFakeCache()
		cache.getErr = errors.New("redis down")
		cache.setErr = errors.New("redis down")

		plan, err := NewGetActionPlanHandler(repo, cache, nil).Handle(ctx, GetActionPlanQuery{Project: "Report"})

		require.NoError(t, err)
		assert.Len(t, plan.Steps, 3)
	})

	t.Run("works without cache", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		repo.On("FindByName", ctx, "Report").Return(reportProject(t), nil)

		plan, err := NewGetActionPlanHandler(repo, nil, nil).Handle(ctx, GetActionPlanQuery{Project: "Report"})

		require.NoError(t, err)
		assert.Len(t, plan.Steps, 3)
	})

	t.Run("reports cycles in stored data", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		p := project.Rehydrate(uuid.New(), "Loop", []task.Task{
			mustTask(t, "A", 3, 3, "B"),
			mustTask(t, "B", 3, 3, "A"),
		}, fixedTime(), fixedTime())
		repo.On("FindByName", ctx, "Loop").Return(p, nil)
		cache := newFakeCache()

		plan, err := NewGetActionPlanHandler(repo, cache, nil).Handle(ctx, GetActionPlanQuery{Project: "Loop"})

		assert.Nil(t, plan)
		assert.ErrorIs(t, err, services.ErrCyclicDependency)
		assert.Empty(t, cache.entries)
	})
}

func TestPreviewPlanHandler_Handle(t *testing.T) {
	handler := NewPreviewPlanHandler()

	t.Run("plans ad-hoc tasks", func(t *testing.T) {
		result, err := handler.Handle(PreviewPlanQuery{Tasks: []TaskInput{
			{Name: "X", Urgency: 3, Importance: 3},
			{Name: "Y", Urgency: 3, Importance: 3},
		}})

		require.NoError(t, err)
		assert.Equal(t, []string{"X", "Y"}, stepNames(result.Plan))
		assert.Len(t, result.Matrix.Quadrants[0].Tasks, 2)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		_, err := handler.Handle(PreviewPlanQuery{Tasks: []TaskInput{{Name: "X", Urgency: 0, Importance: 3}}})
		assert.ErrorIs(t, err, task.ErrInvalidTaskData)
	})

	t.Run("reports unknown dependency", func(t *testing.T) {
		_, err := handler.Handle(PreviewPlanQuery{Tasks: []TaskInput{
			{Name: "A", Urgency: 3, Importance: 3, Dependencies: []string{"Ghost"}},
		}})
		assert.ErrorIs(t, err, services.ErrUnknownDependency)
	})
}

func fixedTime() time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
}
