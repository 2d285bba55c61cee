package progress

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/slok/opsim/internal/catalog"
	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
)

const (
	// DefaultStep is the stage percentage advanced on every tick.
	DefaultStep = 2.0
	// DefaultTickInterval is the cadence of the shared scheduler.
	DefaultTickInterval = 200 * time.Millisecond

	stageDone = 100.0
)

// EngineConfig is the configuration for the engine.
type EngineConfig struct {
	Catalog      catalog.Catalog
	Notifier     Notifier
	Step         float64
	TickInterval time.Duration
	IDGenerator  func() string
	TimeNow      func() time.Time
	Logger       log.Logger
}

func (c *EngineConfig) defaults() error {
	if c.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}
	if c.Step == 0 {
		c.Step = DefaultStep
	}
	if !(c.Step > 0 && c.Step <= stageDone) {
		return fmt.Errorf("step must be in (0, 100], got: %v", c.Step)
	}
	if c.TickInterval == 0 {
		c.TickInterval = DefaultTickInterval
	}
	if c.TickInterval < 0 {
		return fmt.Errorf("tick interval must be positive, got: %s", c.TickInterval)
	}
	if c.Notifier == nil {
		c.Notifier = NoopNotifier
	}
	if c.IDGenerator == nil {
		c.IDGenerator = func() string { return ulid.Make().String() }
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "progress.Engine"})
	return nil
}

// trackedOperation is the mutable state of an operation, only the engine touches it.
type trackedOperation struct {
	id            string
	resourceKind  string
	operationKind string
	stages        model.StageList
	stageIndex    int
	stageTicks    int
	stageProgress float64
	startedAt     time.Time
}

func (t *trackedOperation) terminal() bool { return t.stageIndex >= len(t.stages) }

func (t *trackedOperation) snapshot() model.OperationSnapshot {
	// Stages complete strictly in order, so the completed set is always the prefix.
	completed := make([]int, t.stageIndex)
	for i := range completed {
		completed[i] = i
	}

	return model.OperationSnapshot{
		ID:                    t.id,
		ResourceKind:          t.resourceKind,
		OperationKind:         t.operationKind,
		Stages:                t.stages.Copy(),
		CurrentStageIndex:     t.stageIndex,
		CurrentStageProgress:  t.stageProgress,
		CompletedStageIndices: completed,
		OverallProgress:       model.OverallProgress(t.stageIndex, t.stageProgress, len(t.stages)),
		StartedAt:             t.startedAt,
	}
}

// Engine tracks simulated multi-stage operations and advances all of them
// on a single shared tick.
type Engine struct {
	catalog       catalog.Catalog
	notifier      Notifier
	step          float64
	ticksPerStage int
	tickInterval  time.Duration
	newID         func() string
	now           func() time.Time
	logger        log.Logger

	mu         sync.Mutex
	operations map[string]*trackedOperation
}

// NewEngine returns a new engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		catalog:       cfg.Catalog,
		notifier:      cfg.Notifier,
		step:          cfg.Step,
		ticksPerStage: int(math.Ceil(stageDone / cfg.Step)),
		tickInterval:  cfg.TickInterval,
		newID:         cfg.IDGenerator,
		now:           cfg.TimeNow,
		logger:        cfg.Logger,
		operations:    map[string]*trackedOperation{},
	}, nil
}

// TicksPerStage returns the number of ticks a single stage needs to complete.
func (e *Engine) TicksPerStage() int { return e.ticksPerStage }

// TickInterval returns the scheduler cadence.
func (e *Engine) TickInterval() time.Duration { return e.tickInterval }

// StartOptions are the options to start tracking an operation.
type StartOptions struct {
	// ID of the operation, if empty one will be generated.
	ID            string
	ResourceKind  string
	OperationKind string
}

// Start starts tracking a new operation and returns its ID. If the ID is already tracked
// nothing changes and created is false.
func (e *Engine) Start(ctx context.Context, opts StartOptions) (id string, created bool) {
	id = opts.ID
	if id == "" {
		id = e.newID()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.operations[id]; ok {
		e.logger.Debugf("Operation %s already tracked, ignoring start", id)
		return id, false
	}

	stages := e.catalog.Lookup(opts.ResourceKind, opts.OperationKind)
	if len(stages) == 0 {
		e.logger.Warningf("No stages for %s/%s, operation %s will complete without stages", opts.ResourceKind, opts.OperationKind, id)
	}

	e.operations[id] = &trackedOperation{
		id:            id,
		resourceKind:  opts.ResourceKind,
		operationKind: opts.OperationKind,
		stages:        stages.Copy(),
		startedAt:     e.now(),
	}
	e.logger.Debugf("Started operation %s (%s/%s) with %d stages", id, opts.ResourceKind, opts.OperationKind, len(stages))

	return id, true
}

// Cancel stops tracking an operation. No completion is notified for a cancelled
// operation. Returns false if the operation was not tracked.
func (e *Engine) Cancel(ctx context.Context, id string) bool {
	e.mu.Lock()
	op, ok := e.operations[id]
	if !ok {
		e.mu.Unlock()
		return false
	}
	delete(e.operations, id)
	snap := op.snapshot()
	e.mu.Unlock()

	e.logger.Infof("Cancelled operation %s at %.0f%%", id, snap.OverallProgress)
	e.notifier.OperationCancelled(ctx, snap)

	return true
}

// Tick advances every live operation once. Completed operations are removed and notified.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	var completed []model.OperationSnapshot
	for id, op := range e.operations {
		if !op.terminal() {
			// Progress is derived from whole ticks so float steps never drift past a stage boundary.
			op.stageTicks++
			op.stageProgress = float64(op.stageTicks) * e.step
			if op.stageTicks >= e.ticksPerStage {
				op.stageIndex++
				op.stageTicks = 0
				op.stageProgress = 0
			}
		}

		if op.terminal() {
			completed = append(completed, op.snapshot())
			delete(e.operations, id)
		}
	}
	e.mu.Unlock()

	// Notify outside the lock so notifiers are free to use the engine.
	sortSnapshots(completed)
	for _, snap := range completed {
		e.logger.Infof("Operation %s completed (%d stages)", snap.ID, len(snap.Stages))
		e.notifier.OperationCompleted(ctx, snap)
	}
}

// Run runs the shared scheduler ticking all operations until the context is done.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	e.logger.Debugf("Scheduler running every %s", e.tickInterval)
	for {
		select {
		case <-ctx.Done():
			e.logger.Debugf("Scheduler stopped")
			return nil
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}

// State returns a snapshot of all live operations indexed by ID.
func (e *Engine) State() map[string]model.OperationSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	state := make(map[string]model.OperationSnapshot, len(e.operations))
	for id, op := range e.operations {
		state[id] = op.snapshot()
	}
	return state
}

// List returns a snapshot of all live operations sorted by start time.
func (e *Engine) List() []model.OperationSnapshot {
	e.mu.Lock()
	snaps := make([]model.OperationSnapshot, 0, len(e.operations))
	for _, op := range e.operations {
		snaps = append(snaps, op.snapshot())
	}
	e.mu.Unlock()

	sortSnapshots(snaps)
	return snaps
}

// Snapshot returns the snapshot of a single live operation.
func (e *Engine) Snapshot(id string) (model.OperationSnapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	op, ok := e.operations[id]
	if !ok {
		return model.OperationSnapshot{}, false
	}
	return op.snapshot(), true
}

// Len returns the number of live operations.
func (e *Engine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.operations)
}

func sortSnapshots(snaps []model.OperationSnapshot) {
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].StartedAt.Equal(snaps[j].StartedAt) {
			return snaps[i].StartedAt.Before(snaps[j].StartedAt)
		}
		return snaps[i].ID < snaps[j].ID
	})
}
