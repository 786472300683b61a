package outbox_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/tskprio/internal/shared/infrastructure/outbox"
)

func setupSQLRepo(t *testing.T) (*outbox.SQLRepository, database.Connection) {
	t.Helper()
	ctx := context.Background()

	conn, err := sqlite.NewConnection(ctx, database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "outbox.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrations.Run(ctx, conn))
	return outbox.NewSQLRepository(conn), conn
}

func TestSQLRepository_SaveAndGetUnpublished(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupSQLRepo(t)

	first := createTestMessage("project.created")
	second := createTestMessage("task.added")
	require.NoError(t, repo.SaveBatch(ctx, []*outbox.Message{first, second}))
	assert.NotZero(t, first.ID)
	assert.Greater(t, second.ID, first.ID)

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "project.created", msgs[0].RoutingKey)
	assert.Equal(t, first.EventID, msgs[0].EventID)
	assert.Equal(t, first.AggregateID, msgs[0].AggregateID)
	assert.JSONEq(t, string(first.Payload), string(msgs[0].Payload))
	assert.Nil(t, msgs[0].PublishedAt)

	limited, err := repo.GetUnpublished(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLRepository_MarkPublished(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupSQLRepo(t)

	msg := createTestMessage("task.removed")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.MarkPublished(ctx, msg.ID))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSQLRepository_MarkFailedDefersRetry(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupSQLRepo(t)

	msg := createTestMessage("task.updated")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(time.Hour)))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, repo.MarkFailed(ctx, msg.ID, "broker down", time.Now().Add(-time.Second)))
	msgs, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, 2, msgs[0].RetryCount)
	require.NotNil(t, msgs[0].LastError)
	assert.Equal(t, "broker down", *msgs[0].LastError)
}

func TestSQLRepository_DeferKeepsRetryCount(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupSQLRepo(t)

	msg := createTestMessage("task.added")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.Defer(ctx, msg.ID, time.Now().Add(time.Hour)))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)

	require.NoError(t, repo.Defer(ctx, msg.ID, time.Now().Add(-time.Second)))
	msgs, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Zero(t, msgs[0].RetryCount)
	assert.Nil(t, msgs[0].LastError)
}

func TestSQLRepository_MarkDead(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupSQLRepo(t)

	msg := createTestMessage("project.deleted")
	require.NoError(t, repo.Save(ctx, msg))
	require.NoError(t, repo.MarkDead(ctx, msg.ID, "max retries exceeded"))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSQLRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	repo, conn := setupSQLRepo(t)
	uow := database.NewUnitOfWork(conn)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, []*outbox.Message{createTestMessage("task.added")}))
	require.NoError(t, uow.Rollback(txCtx))

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSQLRepository_DeleteOld(t *testing.T) {
	ctx := context.Background()
	repo, conn := setupSQLRepo(t)

	msg := createTestMessage("task.added")
	require.NoError(t, repo.Save(ctx, msg))
	_, err := conn.Exec(ctx, `UPDATE outbox SET published_at = ? WHERE id = ?`,
		database.FormatTime(time.Now().AddDate(0, 0, -30)), msg.ID)
	require.NoError(t, err)

	pending := createTestMessage("task.added")
	require.NoError(t, repo.Save(ctx, pending))

	deleted, err := repo.DeleteOld(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	msgs, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, msgs, 1)
}
