package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/storage/sqlite"
)

func recordFixture(id string, outcome model.OperationOutcome, finishedAt time.Time) model.OperationRecord {
	return model.OperationRecord{
		ID:              id,
		ResourceKind:    "mongodb",
		OperationKind:   "upstep",
		Outcome:         outcome,
		StageCount:      5,
		CompletedStages: 2,
		OverallProgress: 46,
		StartedAt:       finishedAt.Add(-21 * time.Second),
		FinishedAt:      finishedAt,
	}
}

func newRepo(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "test.db"),
		Logger: log.Noop,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestNewRepositoryRequiresDBPath(t *testing.T) {
	_, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db path is required")
}

func TestRepositoryCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	now := time.Date(2026, 1, 30, 10, 0, 0, 123000000, time.UTC)

	rec := recordFixture("op-1", model.OperationOutcomeCancelled, now)
	require.NoError(t, repo.CreateRecord(ctx, rec))

	got, err := repo.GetRecord(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, rec, *got)
	assert.Equal(t, 21*time.Second, got.Duration())

	// Duplicates.
	err = repo.CreateRecord(ctx, rec)
	assert.True(t, errors.Is(err, model.ErrAlreadyExists))

	// Listing order.
	require.NoError(t, repo.CreateRecord(ctx, recordFixture("op-2", model.OperationOutcomeCompleted, now.Add(time.Minute))))
	require.NoError(t, repo.CreateRecord(ctx, recordFixture("op-3", model.OperationOutcomeCompleted, now.Add(-time.Minute))))
	all, err := repo.ListRecords(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"op-2", "op-1", "op-3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	// Delete.
	require.NoError(t, repo.DeleteRecord(ctx, "op-1"))
	_, err = repo.GetRecord(ctx, "op-1")
	assert.True(t, errors.Is(err, model.ErrNotFound))
	err = repo.DeleteRecord(ctx, "op-1")
	assert.True(t, errors.Is(err, model.ErrNotFound))

	// Delete all.
	n, err := repo.DeleteAllRecords(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	all, err = repo.ListRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepositoryCreateInvalidRecord(t *testing.T) {
	repo := newRepo(t)

	rec := recordFixture("op-1", model.OperationOutcomeCompleted, time.Now().UTC())
	rec.CompletedStages = 10

	err := repo.CreateRecord(context.Background(), rec)
	assert.True(t, errors.Is(err, model.ErrNotValid))
}

func TestRepositoryPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "nested", "history.db")

	repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath})
	require.NoError(t, err)
	require.NoError(t, repo.CreateRecord(ctx, recordFixture("op-1", model.OperationOutcomeCompleted, time.Now().UTC())))
	require.NoError(t, repo.Close())

	repo, err = sqlite.NewRepository(ctx, sqlite.RepositoryConfig{DBPath: dbPath})
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.GetRecord(ctx, "op-1")
	require.NoError(t, err)
	assert.Equal(t, "mongodb", got.ResourceKind)
}
