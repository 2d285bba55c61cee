package opsim_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intopsim "github.com/slok/opsim/test/integration/opsim"
)

type record struct {
	ID              string  `json:"id"`
	ResourceKind    string  `json:"resource_kind"`
	OperationKind   string  `json:"operation_kind"`
	Outcome         string  `json:"outcome"`
	StageCount      int     `json:"stage_count"`
	CompletedStages int     `json:"completed_stages"`
	OverallProgress float64 `json:"overall_progress"`
}

type entry struct {
	ResourceKind  string `json:"resource_kind"`
	OperationKind string `json:"operation_kind"`
	Stages        []struct {
		ID string `json:"id"`
	} `json:"stages"`
}

// newTestDB returns a fresh SQLite database path for test isolation.
func newTestDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "test-opsim.db")
}

func decodeRecords(t *testing.T, data []byte) map[string]record {
	t.Helper()

	var rs []record
	require.NoError(t, json.Unmarshal(data, &rs), "output: %s", data)

	byID := map[string]record{}
	for _, r := range rs {
		byID[r.ID] = r
	}
	return byID
}

func TestRunAndHistory(t *testing.T) {
	config := intopsim.NewConfig(t)
	require := require.New(t)
	assert := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dbPath := newTestDB(t)

	// Run a completed and a cancelled operation.
	stdout, stderr, err := intopsim.RunRun(ctx, config, dbPath,
		"--step 0.5 --op rds/migration=mig --op postgres/upstep=up --cancel-after mig=20ms")
	require.NoError(err, "stderr: %s", stderr)

	got := decodeRecords(t, stdout)
	require.Len(got, 2)
	assert.Equal("cancelled", got["mig"].Outcome)
	assert.Equal(8, got["mig"].StageCount)
	assert.Less(got["mig"].OverallProgress, 100.0)
	assert.Equal("completed", got["up"].Outcome)
	assert.Equal(5, got["up"].CompletedStages)
	assert.Equal(100.0, got["up"].OverallProgress)

	// The history should have both.
	stdout, stderr, err = intopsim.RunHistoryList(ctx, config, dbPath, "")
	require.NoError(err, "stderr: %s", stderr)
	assert.Len(decodeRecords(t, stdout), 2)

	stdout, stderr, err = intopsim.RunHistoryList(ctx, config, dbPath, "--outcome cancelled")
	require.NoError(err, "stderr: %s", stderr)
	cancelled := decodeRecords(t, stdout)
	assert.Len(cancelled, 1)
	assert.Contains(cancelled, "mig")

	// Remove one, then all.
	stdout, stderr, err = intopsim.RunHistoryRm(ctx, config, dbPath, "mig")
	require.NoError(err, "stderr: %s", stderr)
	assert.Contains(string(stdout), "Removed 1 records")

	stdout, stderr, err = intopsim.RunHistoryRm(ctx, config, dbPath, "--all")
	require.NoError(err, "stderr: %s", stderr)
	assert.Contains(string(stdout), "Removed 1 records")

	stdout, stderr, err = intopsim.RunHistoryList(ctx, config, dbPath, "")
	require.NoError(err, "stderr: %s", stderr)
	assert.Equal("[]", strings.TrimSpace(string(stdout)))
}

func TestRunWithoutHistory(t *testing.T) {
	config := intopsim.NewConfig(t)
	require := require.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPath := newTestDB(t)

	_, stderr, err := intopsim.RunRun(ctx, config, dbPath, "--step 50 --no-history --op redis/creation")
	require.NoError(err, "stderr: %s", stderr)

	_, err = os.Stat(dbPath)
	require.True(os.IsNotExist(err), "history database should not be created")
}

func TestRunInvalidArgs(t *testing.T) {
	config := intopsim.NewConfig(t)

	tests := map[string]struct {
		args string
	}{
		"An invalid operation spec should fail.": {
			args: "--op rds",
		},
		"A cancellation for an unknown operation should fail.": {
			args: "--op rds/migration=a --cancel-after b=1s",
		},
		"An invalid step should fail.": {
			args: "--op rds/migration --step 200",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			_, _, err := intopsim.RunRun(ctx, config, newTestDB(t), test.args)
			assert.Error(t, err)
		})
	}
}

func TestCatalogShowWithCustomCatalog(t *testing.T) {
	config := intopsim.NewConfig(t)
	require := require.New(t)
	assert := assert.New(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	catalogPath := filepath.Join(t.TempDir(), "catalog.toml")
	err := os.WriteFile(catalogPath, []byte(`
[[entries]]
resource_kind = "redis"
operation_kind = "migration"

  [[entries.stages]]
  id = "snapshot"
  name = "Snapshot"

  [[entries.stages]]
  id = "restore"
  name = "Restore"
`), 0o644)
	require.NoError(err)

	stdout, stderr, err := intopsim.RunCatalogShow(ctx, config, newTestDB(t), catalogPath, "redis", "migration")
	require.NoError(err, "stderr: %s", stderr)

	var e entry
	require.NoError(json.Unmarshal(stdout, &e))
	require.Len(e.Stages, 2)
	assert.Equal("snapshot", e.Stages[0].ID)

	// Other resources still use the built-in stages.
	stdout, stderr, err = intopsim.RunCatalogShow(ctx, config, newTestDB(t), catalogPath, "mysql", "migration")
	require.NoError(err, "stderr: %s", stderr)
	require.NoError(json.Unmarshal(stdout, &e))
	assert.Len(e.Stages, 5)
}
