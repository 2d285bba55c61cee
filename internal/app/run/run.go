package run

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/oklog/run"

	"github.com/slok/opsim/internal/catalog"
	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/progress"
	"github.com/slok/opsim/internal/storage"
)

// Renderer presents the progress of a simulation run. Implementations must be
// safe for concurrent use.
type Renderer interface {
	// Run blocks until the context is done or the user asks to stop the run.
	Run(ctx context.Context) error
	// RenderProgress is called on every scheduler tick with the live operations.
	RenderProgress(ctx context.Context, ops []model.OperationSnapshot) error
	// RenderOutcome is called once per operation when it completes or is cancelled.
	RenderOutcome(ctx context.Context, r model.OperationRecord) error
}

// NoopRenderer doesn't render anything.
const NoopRenderer = noopRenderer(0)

type noopRenderer int

func (noopRenderer) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (noopRenderer) RenderProgress(context.Context, []model.OperationSnapshot) error { return nil }
func (noopRenderer) RenderOutcome(context.Context, model.OperationRecord) error        { return nil }

// ServiceConfig is the configuration for the run service.
type ServiceConfig struct {
	Catalog      catalog.Catalog
	Step         float64
	TickInterval time.Duration
	Renderer     Renderer
	// HistoryRepository is optional, when set the outcomes are journaled.
	HistoryRepository storage.HistoryRepository
	Logger            log.Logger
	TimeNow           func() time.Time
}

func (c *ServiceConfig) defaults() error {
	if c.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}

	if c.Step == 0 {
		c.Step = progress.DefaultStep
	}

	if c.TickInterval == 0 {
		c.TickInterval = progress.DefaultTickInterval
	}

	if c.Renderer == nil {
		c.Renderer = NoopRenderer
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Run"})

	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}

	return nil
}

// Service runs a set of simulated operations until all of them finish.
type Service struct {
	catalog      catalog.Catalog
	step         float64
	tickInterval time.Duration
	renderer     Renderer
	historyRepo  storage.HistoryRepository
	logger       log.Logger
	timeNow      func() time.Time
}

// NewService creates a new run service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		catalog:      cfg.Catalog,
		step:         cfg.Step,
		tickInterval: cfg.TickInterval,
		renderer:     cfg.Renderer,
		historyRepo:  cfg.HistoryRepository,
		logger:       cfg.Logger,
		timeNow:      cfg.TimeNow,
	}, nil
}

// Operation is a single operation to simulate.
type Operation struct {
	// ID is optional, a ULID is generated when empty.
	ID            string
	ResourceKind  string
	OperationKind string
	// CancelAfter cancels the operation once the duration has elapsed since it started, zero disables it.
	CancelAfter time.Duration
}

// Request represents the run request parameters.
type Request struct {
	Operations []Operation
}

// Result is the result of a run.
type Result struct {
	// Records are the outcomes of all the operations, sorted by finish time.
	Records []model.OperationRecord
	// Interrupted is true when the run stopped before every operation finished on its own.
	Interrupted bool
}

// Run starts all the requested operations and blocks until every one of them is
// completed or cancelled. If the context ends (or the renderer stops) before that,
// the remaining operations are cancelled.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Operations) == 0 {
		return nil, fmt.Errorf("at least one operation is required: %w", model.ErrNotValid)
	}

	collector := &outcomeCollector{renderer: s.renderer, timeNow: s.timeNow, logger: s.logger}
	notifiers := progress.MultiNotifier{collector}
	if s.historyRepo != nil {
		hn, err := progress.NewHistoryNotifier(progress.HistoryNotifierConfig{
			Repository: s.historyRepo,
			TimeNow:    s.timeNow,
			Logger:     s.logger,
		})
		if err != nil {
			return nil, fmt.Errorf("could not create history notifier: %w", err)
		}
		notifiers = append(notifiers, hn)
	}

	engine, err := progress.NewEngine(progress.EngineConfig{
		Catalog:      s.catalog,
		Notifier:     notifiers,
		Step:         s.step,
		TickInterval: s.tickInterval,
		TimeNow:      s.timeNow,
		Logger:       s.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create progress engine: %w", err)
	}

	// Start all the operations before the scheduler runs.
	cancelAfter := map[string]time.Duration{}
	for _, op := range req.Operations {
		id, created := engine.Start(ctx, progress.StartOptions{
			ID:            op.ID,
			ResourceKind:  op.ResourceKind,
			OperationKind: op.OperationKind,
		})
		if !created {
			s.logger.Warningf("Operation %s already started, ignoring", id)
			continue
		}
		if op.CancelAfter > 0 {
			cancelAfter[id] = op.CancelAfter
		}
	}
	s.logger.Infof("Running %d operations", engine.Len())

	var g run.Group

	// Scheduler.
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				return engine.Run(ctx)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	// Watcher, ends the run when no operations are left.
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				return s.watch(ctx, engine, cancelAfter)
			},
			func(_ error) {
				cancel()
			},
		)
	}

	// Renderer.
	{
		ctx, cancel := context.WithCancel(ctx)
		g.Add(
			func() error {
				err := s.renderer.Run(ctx)
				if err != nil {
					return fmt.Errorf("renderer failed: %w", err)
				}
				return nil
			},
			func(_ error) {
				cancel()
			},
		)
	}

	runErr := g.Run()

	// Anything still alive at this point was interrupted.
	interrupted := false
	cleanupCtx := context.WithoutCancel(ctx)
	for _, op := range engine.List() {
		interrupted = true
		engine.Cancel(cleanupCtx, op.ID)
	}

	if runErr != nil {
		return nil, runErr
	}

	return &Result{
		Records:     collector.sortedRecords(),
		Interrupted: interrupted,
	}, nil
}

func (s *Service) watch(ctx context.Context, engine *progress.Engine, cancelAfter map[string]time.Duration) error {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		now := s.timeNow()
		ops := engine.List()
		live := ops[:0]
		for _, op := range ops {
			d, ok := cancelAfter[op.ID]
			if ok && now.Sub(op.StartedAt) >= d {
				engine.Cancel(ctx, op.ID)
				continue
			}
			live = append(live, op)
		}

		if err := s.renderer.RenderProgress(ctx, live); err != nil {
			return fmt.Errorf("could not render progress: %w", err)
		}

		if engine.Len() == 0 {
			s.logger.Debugf("All operations finished")
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// outcomeCollector gathers the outcome records of a run and forwards them to the renderer.
type outcomeCollector struct {
	renderer Renderer
	timeNow  func() time.Time
	logger   log.Logger

	mu      sync.Mutex
	records []model.OperationRecord
}

func (o *outcomeCollector) OperationCompleted(ctx context.Context, op model.OperationSnapshot) {
	o.collect(ctx, op, model.OperationOutcomeCompleted)
}

func (o *outcomeCollector) OperationCancelled(ctx context.Context, op model.OperationSnapshot) {
	o.collect(ctx, op, model.OperationOutcomeCancelled)
}

func (o *outcomeCollector) collect(ctx context.Context, op model.OperationSnapshot, outcome model.OperationOutcome) {
	finishedAt := o.timeNow()
	if finishedAt.Before(op.StartedAt) {
		finishedAt = op.StartedAt
	}
	r := model.NewOperationRecord(op, outcome, finishedAt)

	o.mu.Lock()
	o.records = append(o.records, r)
	o.mu.Unlock()

	if err := o.renderer.RenderOutcome(ctx, r); err != nil {
		o.logger.Warningf("Could not render outcome of %s: %s", r.ID, err)
	}
}

func (o *outcomeCollector) sortedRecords() []model.OperationRecord {
	o.mu.Lock()
	defer o.mu.Unlock()

	records := make([]model.OperationRecord, len(o.records))
	copy(records, o.records)
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].FinishedAt.Equal(records[j].FinishedAt) {
			return records[i].FinishedAt.Before(records[j].FinishedAt)
		}
		return records[i].ID < records[j].ID
	})

	return records
}
