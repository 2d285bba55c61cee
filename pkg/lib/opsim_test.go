package lib_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsim/pkg/lib"
)

// newTestClient creates a client with a fast step so tests need few ticks.
func newTestClient(t *testing.T, cfg lib.Config) *lib.Client {
	t.Helper()

	if cfg.Step == 0 {
		cfg.Step = 50
	}

	client, err := lib.New(context.Background(), cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestNew(t *testing.T) {
	tests := map[string]struct {
		cfg    lib.Config
		expErr bool
		expIs  error
	}{
		"Default config should work.": {
			cfg: lib.Config{},
		},
		"A SQLite history should work.": {
			cfg: lib.Config{HistoryDBPath: filepath.Join(t.TempDir(), "history.db")},
		},
		"An invalid step should fail.": {
			cfg:    lib.Config{Step: 150},
			expErr: true,
		},
		"An invalid catalog entry should fail.": {
			cfg: lib.Config{Catalog: []lib.CatalogEntry{
				{ResourceKind: "redis", OperationKind: "upstep"},
			}},
			expErr: true,
			expIs:  lib.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			client, err := lib.New(context.Background(), test.cfg)

			if test.expErr {
				require.Error(t, err)
				if test.expIs != nil {
					assert.True(t, errors.Is(err, test.expIs))
				}
				return
			}

			require.NoError(t, err)
			assert.NoError(t, client.Close())
		})
	}
}

func TestOperationLifecycle(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	client := newTestClient(t, lib.Config{})

	id, err := client.StartOperation(ctx, lib.StartOperationOpts{
		ID:            "op1",
		ResourceKind:  "rds",
		OperationKind: "migration",
	})
	require.NoError(err)
	assert.Equal("op1", id)

	// Starting the same ID again should fail.
	_, err = client.StartOperation(ctx, lib.StartOperationOpts{ID: "op1", ResourceKind: "rds", OperationKind: "migration"})
	assert.True(errors.Is(err, lib.ErrAlreadyExists))

	// With a 50% step, every stage takes 2 ticks.
	client.Tick(ctx)
	client.Tick(ctx)
	client.Tick(ctx)

	op, err := client.GetOperation(ctx, "op1")
	require.NoError(err)
	assert.Equal(1, op.CurrentStageIndex)
	assert.Equal(50.0, op.CurrentStageProgress)
	require.Len(op.Stages, 8)
	assert.Equal(lib.StageStatusCompleted, op.StageStatuses[0])
	assert.Equal(lib.StageStatusRunning, op.StageStatuses[1])
	assert.Equal(lib.StageStatusPending, op.StageStatuses[2])
	assert.Equal([]int{0}, op.CompletedStageIndices)
	assert.InDelta(18.75, op.OverallProgress, 0.001)

	for i := 0; i < 13; i++ {
		client.Tick(ctx)
	}

	_, err = client.GetOperation(ctx, "op1")
	assert.True(errors.Is(err, lib.ErrNotFound))
	assert.Empty(client.ListOperations(ctx))

	records, err := client.ListHistory(ctx, nil)
	require.NoError(err)
	require.Len(records, 1)
	assert.Equal(lib.OutcomeCompleted, records[0].Outcome)
	assert.Equal(8, records[0].CompletedStages)
	assert.Equal(100.0, records[0].OverallProgress)
}

func TestCancelOperation(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	ctx := context.Background()

	var mu sync.Mutex
	var finished []lib.Record
	client := newTestClient(t, lib.Config{
		HistoryDBPath: filepath.Join(t.TempDir(), "history.db"),
		OnFinished: func(_ context.Context, r lib.Record) {
			mu.Lock()
			defer mu.Unlock()
			finished = append(finished, r)
		},
	})

	id, err := client.StartOperation(ctx, lib.StartOperationOpts{ResourceKind: "postgres", OperationKind: "upstep"})
	require.NoError(err)
	assert.NotEmpty(id)

	client.Tick(ctx)
	client.Tick(ctx)

	err = client.CancelOperation(ctx, id)
	require.NoError(err)

	// Cancelling twice should fail, the operation is not live anymore.
	err = client.CancelOperation(ctx, id)
	assert.True(errors.Is(err, lib.ErrNotFound))

	cancelled := lib.OutcomeCancelled
	records, err := client.ListHistory(ctx, &lib.ListHistoryOpts{Outcome: &cancelled})
	require.NoError(err)
	require.Len(records, 1)
	assert.Equal(id, records[0].ID)
	assert.Equal(1, records[0].CompletedStages)
	assert.Equal(20.0, records[0].OverallProgress)

	mu.Lock()
	defer mu.Unlock()
	require.Len(finished, 1)
	assert.Equal(lib.OutcomeCancelled, finished[0].Outcome)
}

func TestCustomCatalog(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	client := newTestClient(t, lib.Config{
		Catalog: []lib.CatalogEntry{{
			ResourceKind:  lib.WildcardResourceKind,
			OperationKind: "failover",
			Stages: []lib.Stage{
				{ID: "promote", Name: "Promote replica"},
				{ID: "dns", Name: "Switch DNS"},
			},
		}},
	})

	stages := client.GetStages("mysql", "failover")
	assert.Len(stages, 2)
	assert.Equal("promote", stages[0].ID)

	// Built-in entries are still there.
	assert.Len(client.GetStages("mysql", "migration"), 5)
	assert.Empty(client.GetStages("mysql", "teleport"))

	// An unknown operation completes on the next tick.
	_, err := client.StartOperation(ctx, lib.StartOperationOpts{ID: "x", ResourceKind: "mysql", OperationKind: "teleport"})
	require.NoError(t, err)
	client.Tick(ctx)
	assert.Empty(client.ListOperations(ctx))
}
