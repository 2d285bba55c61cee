package opsim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/slok/opsim/test/integration/testutils"
)

// Config holds integration test configuration loaded from environment variables.
type Config struct {
	Binary string
}

func (c *Config) defaults() error {
	if c.Binary == "" {
		c.Binary = "opsim"
	}

	// go test changes the CWD to the test package directory, so relative paths are not reliable.
	if !filepath.IsAbs(c.Binary) {
		return fmt.Errorf("OPSIM_INTEGRATION_BINARY must be an absolute path, got %q", c.Binary)
	}
	if _, err := os.Stat(c.Binary); err != nil {
		return fmt.Errorf("opsim binary not found at %q: %w", c.Binary, err)
	}

	return nil
}

// NewConfig loads integration test configuration from environment variables.
// If the config is invalid or the activation env var is not set, the test is skipped.
func NewConfig(t *testing.T) Config {
	t.Helper()

	const (
		envActivation = "OPSIM_INTEGRATION"
		envBinary     = "OPSIM_INTEGRATION_BINARY"
	)

	if os.Getenv(envActivation) != "true" {
		t.Skipf("Skipping integration test: %s is not set to 'true'", envActivation)
	}

	c := Config{
		Binary: os.Getenv(envBinary),
	}

	if err := c.defaults(); err != nil {
		t.Skipf("Skipping due to invalid config: %s", err)
	}

	return c
}

// RunOpsimCmd runs an opsim command with the given arguments and a specific db path.
// It suppresses logging output for cleaner test output.
func RunOpsimCmd(ctx context.Context, config Config, dbPath, cmdArgs string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("--no-log --no-color --db-path %s %s", dbPath, cmdArgs)
	return testutils.RunOpsim(ctx, nil, config.Binary, args, true)
}

// RunRun simulates operations without progress rendering and a JSON summary.
func RunRun(ctx context.Context, config Config, dbPath, runArgs string) (stdout, stderr []byte, err error) {
	return RunOpsimCmd(ctx, config, dbPath, "run --ui none --format json --tick 1ms "+runArgs)
}

// RunHistoryList lists the history in JSON format.
func RunHistoryList(ctx context.Context, config Config, dbPath, listArgs string) (stdout, stderr []byte, err error) {
	return RunOpsimCmd(ctx, config, dbPath, "history list --format json "+listArgs)
}

// RunHistoryRm removes history records.
func RunHistoryRm(ctx context.Context, config Config, dbPath, rmArgs string) (stdout, stderr []byte, err error) {
	return RunOpsimCmd(ctx, config, dbPath, "history rm "+rmArgs)
}

// RunCatalogShow shows the stages of an operation in JSON format.
func RunCatalogShow(ctx context.Context, config Config, dbPath, catalogPath, resource, operation string) (stdout, stderr []byte, err error) {
	args := fmt.Sprintf("catalog show --format json %s %s", resource, operation)
	if catalogPath != "" {
		args = fmt.Sprintf("--catalog %s %s", catalogPath, args)
	}
	return RunOpsimCmd(ctx, config, dbPath, args)
}
