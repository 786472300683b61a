package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/tskprio/internal/planning/domain/project"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func existingProject(t *testing.T, name string) *project.Project {
	t.Helper()
	p, err := project.New(name)
	require.NoError(t, err)
	p.ClearDomainEvents()
	return p
}

func TestCreateProjectHandler_Handle(t *testing.T) {
	t.Run("creates project and records event", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		outboxRepo := new(mockOutboxRepo)
		uow, txCtx := committingUoW(ctx)
		handler := NewCreateProjectHandler(repo, outboxRepo, uow)
		correlationID := uuid.New()

		repo.On("FindByName", txCtx, "Quarterly report").Return(nil, project.ErrProjectNotFound)
		repo.On("Save", txCtx, mock.AnythingOfType("*project.Project")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.MatchedBy(func(msgs []*outbox.Message) bool {
			return len(msgs) == 1 && msgs[0].RoutingKey == project.RoutingKeyCreated
		})).Return(nil)

		result, err := handler.Handle(ctx, CreateProjectCommand{CorrelationID: correlationID, Name: " Quarterly report "})

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, result.ProjectID)
		assert.Equal(t, "Quarterly report", result.Name)
		repo.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
		uow.AssertExpectations(t)

		msgs := outboxRepo.Calls[0].Arguments.Get(1).([]*outbox.Message)
		assert.Contains(t, string(msgs[0].Metadata), correlationID.String())
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		outboxRepo := new(mockOutboxRepo)
		uow, txCtx := rollingBackUoW(ctx)
		handler := NewCreateProjectHandler(repo, outboxRepo, uow)

		repo.On("FindByName", txCtx, "Inbox").Return(existingProject(t, "inbox"), nil)

		result, err := handler.Handle(ctx, CreateProjectCommand{Name: "Inbox"})

		assert.ErrorIs(t, err, project.ErrDuplicateProject)
		assert.Nil(t, result)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		ctx := context.Background()
		uow, _ := rollingBackUoW(ctx)
		handler := NewCreateProjectHandler(new(mockProjectRepo), new(mockOutboxRepo), uow)

		_, err := handler.Handle(ctx, CreateProjectCommand{Name: "  "})

		assert.ErrorIs(t, err, project.ErrEmptyName)
	})

	t.Run("propagates begin failure", func(t *testing.T) {
		ctx := context.Background()
		uow := new(mockUnitOfWork)
		uow.On("Begin", ctx).Return(ctx, errors.New("db locked"))
		handler := NewCreateProjectHandler(new(mockProjectRepo), new(mockOutboxRepo), uow)

		_, err := handler.Handle(ctx, CreateProjectCommand{Name: "Inbox"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "db locked")
	})
}

func TestRenameProjectHandler_Handle(t *testing.T) {
	t.Run("renames project", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		outboxRepo := new(mockOutboxRepo)
		uow, txCtx := committingUoW(ctx)
		handler := NewRenameProjectHandler(repo, outboxRepo, uow)
		p := existingProject(t, "Draft")

		repo.On("FindByName", txCtx, "draft").Return(p, nil)
		repo.On("FindByName", txCtx, "Final").Return(nil, project.ErrProjectNotFound)
		repo.On("Save", txCtx, p).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		err := handler.Handle(ctx, RenameProjectCommand{Project: "draft", NewName: "Final"})

		require.NoError(t, err)
		assert.Equal(t, "Final", p.Name())
		msgs := outboxRepo.Calls[0].Arguments.Get(1).([]*outbox.Message)
		assert.Equal(t, []string{project.RoutingKeyRenamed}, routingKeys(msgs))
		assert.Empty(t, p.DomainEvents())
	})

	t.Run("allows changing only the case", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		outboxRepo := new(mockOutboxRepo)
		uow, txCtx := committingUoW(ctx)
		handler := NewRenameProjectHandler(repo, outboxRepo, uow)
		p := existingProject(t, "draft")

		repo.On("FindByName", txCtx, "draft").Return(p, nil)
		repo.On("FindByName", txCtx, "Draft").Return(p, nil)
		repo.On("Save", txCtx, p).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

		require.NoError(t, handler.Handle(ctx, RenameProjectCommand{Project: "draft", NewName: "Draft"}))
		assert.Equal(t, "Draft", p.Name())
	})

	t.Run("rejects name used by another project", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		uow, txCtx := rollingBackUoW(ctx)
		handler := NewRenameProjectHandler(repo, new(mockOutboxRepo), uow)

		repo.On("FindByName", txCtx, "A").Return(existingProject(t, "A"), nil)
		repo.On("FindByName", txCtx, "B").Return(existingProject(t, "B"), nil)

		err := handler.Handle(ctx, RenameProjectCommand{Project: "A", NewName: "B"})

		assert.ErrorIs(t, err, project.ErrDuplicateProject)
	})

	t.Run("project not found", func(t *testing.T) {
		ctx := context.Background()
		repo := new(mockProjectRepo)
		uow, txCtx := rollingBackUoW(ctx)
		handler := NewRenameProjectHandler(repo, new(mockOutboxRepo), uow)

		repo.On("FindByName", txCtx, "Missing").Return(nil, project.ErrProjectNotFound)

		err := handler.Handle(ctx, RenameProjectCommand{Project: "Missing", NewName: "X"})

		assert.ErrorIs(t, err, project.ErrProjectNotFound)
	})
}

func TestDeleteProjectHandler_Handle(t *testing.T) {
	ctx := context.Background()
	repo := new(mockProjectRepo)
	outboxRepo := new(mockOutboxRepo)
	uow, txCtx := committingUoW(ctx)
	handler := NewDeleteProjectHandler(repo, outboxRepo, uow)
	p := existingProject(t, "Old")

	repo.On("FindByName", txCtx, "Old").Return(p, nil)
	repo.On("Delete", txCtx, p.ID()).Return(nil)
	outboxRepo.On("SaveBatch", txCtx, mock.Anything).Return(nil)

	require.NoError(t, handler.Handle(ctx, DeleteProjectCommand{Project: "Old"}))

	msgs := outboxRepo.Calls[0].Arguments.Get(1).([]*outbox.Message)
	assert.Equal(t, []string{project.RoutingKeyDeleted}, routingKeys(msgs))
	repo.AssertExpectations(t)
}
