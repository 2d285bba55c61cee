package lib

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/opsim/internal/app/historylist"
	"github.com/slok/opsim/internal/catalog"
	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/progress"
	"github.com/slok/opsim/internal/storage"
	"github.com/slok/opsim/internal/storage/memory"
	"github.com/slok/opsim/internal/storage/sqlite"
)

// Config configures the SDK client.
//
// All fields are optional and have sensible defaults. An empty Config{} uses
// the built-in catalog, advances stages 2% every 200ms and keeps the history
// in memory.
type Config struct {
	// Catalog entries merged over the built-in ones, an entry replaces the
	// built-in entry with the same resource and operation kind.
	Catalog []CatalogEntry

	// Step is the stage progress percentage added on every tick.
	// Default: 2.
	Step float64

	// TickInterval is the scheduler cadence.
	// Default: 200ms.
	TickInterval time.Duration

	// HistoryDBPath is the SQLite database path where finished operations are
	// journaled. When empty, the history is kept in memory.
	HistoryDBPath string

	// OnFinished is called once for every operation that completes or is
	// cancelled. It's called outside the engine lock, so it can use the client.
	OnFinished func(ctx context.Context, r Record)

	// Logger receives structured log output from the SDK.
	// Default: noop (silent). See the log sub-package for the interface.
	Logger log.Logger
}

func (c *Config) defaults() error {
	if c.Step == 0 {
		c.Step = progress.DefaultStep
	}

	if c.TickInterval == 0 {
		c.TickInterval = progress.DefaultTickInterval
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Client is the main SDK entry point for simulating operations programmatically.
//
// Create a Client with [New], run the scheduler with [Client.Run] and release
// its resources with [Client.Close]. A Client is safe for concurrent use.
type Client struct {
	engine  *progress.Engine
	catalog catalog.Catalog
	repo    storage.HistoryRepository
	logger  log.Logger
	closeFn func() error
}

// New creates a new SDK client.
//
// The caller must call [Client.Close] when done to release the history database
// connection. Typically used with defer:
//
//	client, err := lib.New(ctx, lib.Config{})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cat, err := catalog.NewStatic(catalog.Merge(catalog.DefaultEntries(), toInternalCatalogEntries(cfg.Catalog)))
	if err != nil {
		return nil, mapError(fmt.Errorf("invalid catalog: %w", err))
	}

	var repo storage.HistoryRepository
	closeFn := func() error { return nil }
	if cfg.HistoryDBPath != "" {
		r, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: cfg.HistoryDBPath,
			Logger: cfg.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		repo = r
		closeFn = r.Close
	} else {
		r, err := memory.NewRepository(memory.RepositoryConfig{Logger: cfg.Logger})
		if err != nil {
			return nil, fmt.Errorf("could not create repository: %w", err)
		}
		repo = r
	}

	history, err := progress.NewHistoryNotifier(progress.HistoryNotifierConfig{
		Repository: repo,
		Logger:     cfg.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, fmt.Errorf("could not create history notifier: %w", err)
	}

	notifier := progress.MultiNotifier{history}
	if cfg.OnFinished != nil {
		notifier = append(notifier, finishedCallback(cfg.OnFinished))
	}

	engine, err := progress.NewEngine(progress.EngineConfig{
		Catalog:      cat,
		Notifier:     notifier,
		Step:         cfg.Step,
		TickInterval: cfg.TickInterval,
		Logger:       cfg.Logger,
	})
	if err != nil {
		_ = closeFn()
		return nil, mapError(fmt.Errorf("could not create engine: %w", err))
	}

	return &Client{
		engine:  engine,
		catalog: cat,
		repo:    repo,
		logger:  cfg.Logger,
		closeFn: closeFn,
	}, nil
}

// Close releases resources held by the client, including the database connection.
// After Close returns, the client must not be used.
func (c *Client) Close() error {
	if c.closeFn != nil {
		return c.closeFn()
	}
	return nil
}

// Run runs the shared scheduler that advances every live operation. It blocks
// until the context is cancelled.
func (c *Client) Run(ctx context.Context) error {
	return c.engine.Run(ctx)
}

// Tick advances every live operation once. Useful to drive the simulation
// manually instead of using [Client.Run].
func (c *Client) Tick(ctx context.Context) {
	c.engine.Tick(ctx)
}

// StartOperation starts tracking a new operation and returns its ID.
//
// Operations whose kinds are not in the catalog have no stages and complete
// on the next tick. Returns [ErrAlreadyExists] if the ID is already tracked.
func (c *Client) StartOperation(ctx context.Context, opts StartOperationOpts) (string, error) {
	id, created := c.engine.Start(ctx, progress.StartOptions{
		ID:            opts.ID,
		ResourceKind:  opts.ResourceKind,
		OperationKind: opts.OperationKind,
	})
	if !created {
		return "", mapError(fmt.Errorf("operation %q is already running: %w", id, model.ErrAlreadyExists))
	}

	return id, nil
}

// CancelOperation stops tracking a live operation, the operation is journaled
// as cancelled.
//
// Returns [ErrNotFound] if the operation is not live.
func (c *Client) CancelOperation(ctx context.Context, id string) error {
	if !c.engine.Cancel(ctx, id) {
		return mapError(fmt.Errorf("operation %q: %w", id, model.ErrNotFound))
	}
	return nil
}

// GetOperation returns the latest state of a live operation.
//
// Returns [ErrNotFound] if the operation is not live.
func (c *Client) GetOperation(ctx context.Context, id string) (*Operation, error) {
	snap, ok := c.engine.Snapshot(id)
	if !ok {
		return nil, mapError(fmt.Errorf("operation %q: %w", id, model.ErrNotFound))
	}

	op := fromInternalSnapshot(snap)
	return &op, nil
}

// ListOperations returns all the live operations sorted by start time.
func (c *Client) ListOperations(ctx context.Context) []Operation {
	snaps := c.engine.List()
	result := make([]Operation, len(snaps))
	for i, s := range snaps {
		result[i] = fromInternalSnapshot(s)
	}
	return result
}

// GetStages returns the stages an operation of these kinds goes through.
// Unknown kinds return an empty list.
func (c *Client) GetStages(resourceKind, operationKind string) []Stage {
	return fromInternalStages(c.catalog.Lookup(resourceKind, operationKind))
}

// ListHistory returns the finished operations, most recent first.
func (c *Client) ListHistory(ctx context.Context, opts *ListHistoryOpts) ([]Record, error) {
	svc, err := historylist.NewService(historylist.ServiceConfig{
		Repository: c.repo,
		Logger:     c.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create service: %w", err)
	}

	limit := 0
	if opts != nil {
		limit = opts.Limit
	}

	records, err := svc.Run(ctx, historylist.Request{
		OutcomeFilter: toInternalOutcomeFilter(opts),
		Limit:         limit,
	})
	if err != nil {
		return nil, mapError(err)
	}

	return fromInternalRecordList(records), nil
}

// finishedCallback adapts the public callback to the engine notifier.
type finishedCallback func(ctx context.Context, r Record)

func (f finishedCallback) OperationCompleted(ctx context.Context, op model.OperationSnapshot) {
	f.notify(ctx, op, model.OperationOutcomeCompleted)
}

func (f finishedCallback) OperationCancelled(ctx context.Context, op model.OperationSnapshot) {
	f.notify(ctx, op, model.OperationOutcomeCancelled)
}

func (f finishedCallback) notify(ctx context.Context, op model.OperationSnapshot, outcome model.OperationOutcome) {
	finishedAt := time.Now()
	if finishedAt.Before(op.StartedAt) {
		finishedAt = op.StartedAt
	}
	f(ctx, fromInternalRecord(model.NewOperationRecord(op, outcome, finishedAt)))
}
