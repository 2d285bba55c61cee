package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/storage"
)

// Notifier receives the terminal transitions of tracked operations.
//
// OperationCompleted is called exactly once for every operation that finishes all
// its stages, and never for a cancelled one. OperationCancelled is informational.
type Notifier interface {
	OperationCompleted(ctx context.Context, op model.OperationSnapshot)
	OperationCancelled(ctx context.Context, op model.OperationSnapshot)
}

// NoopNotifier ignores all notifications.
const NoopNotifier = noopNotifier(0)

type noopNotifier int

func (noopNotifier) OperationCompleted(context.Context, model.OperationSnapshot) {}
func (noopNotifier) OperationCancelled(context.Context, model.OperationSnapshot) {}

// NotifierFuncs is a helper to create notifiers from functions, nil functions are ignored.
type NotifierFuncs struct {
	Completed func(ctx context.Context, op model.OperationSnapshot)
	Cancelled func(ctx context.Context, op model.OperationSnapshot)
}

func (n NotifierFuncs) OperationCompleted(ctx context.Context, op model.OperationSnapshot) {
	if n.Completed != nil {
		n.Completed(ctx, op)
	}
}

func (n NotifierFuncs) OperationCancelled(ctx context.Context, op model.OperationSnapshot) {
	if n.Cancelled != nil {
		n.Cancelled(ctx, op)
	}
}

// MultiNotifier fans out notifications to multiple notifiers in order.
type MultiNotifier []Notifier

func (m MultiNotifier) OperationCompleted(ctx context.Context, op model.OperationSnapshot) {
	for _, n := range m {
		n.OperationCompleted(ctx, op)
	}
}

func (m MultiNotifier) OperationCancelled(ctx context.Context, op model.OperationSnapshot) {
	for _, n := range m {
		n.OperationCancelled(ctx, op)
	}
}

// HistoryNotifierConfig is the configuration for the history notifier.
type HistoryNotifierConfig struct {
	Repository storage.HistoryRepository
	TimeNow    func() time.Time
	Logger     log.Logger
}

func (c *HistoryNotifierConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}
	if c.TimeNow == nil {
		c.TimeNow = time.Now
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "progress.HistoryNotifier"})
	return nil
}

// HistoryNotifier records the outcome of every finished operation in the history repository.
type HistoryNotifier struct {
	repo   storage.HistoryRepository
	now    func() time.Time
	logger log.Logger
}

// NewHistoryNotifier returns a new history notifier.
func NewHistoryNotifier(cfg HistoryNotifierConfig) (*HistoryNotifier, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &HistoryNotifier{
		repo:   cfg.Repository,
		now:    cfg.TimeNow,
		logger: cfg.Logger,
	}, nil
}

func (h *HistoryNotifier) OperationCompleted(ctx context.Context, op model.OperationSnapshot) {
	h.record(ctx, op, model.OperationOutcomeCompleted)
}

func (h *HistoryNotifier) OperationCancelled(ctx context.Context, op model.OperationSnapshot) {
	h.record(ctx, op, model.OperationOutcomeCancelled)
}

func (h *HistoryNotifier) record(ctx context.Context, op model.OperationSnapshot, outcome model.OperationOutcome) {
	finishedAt := h.now()
	if finishedAt.Before(op.StartedAt) {
		finishedAt = op.StartedAt
	}

	rec := model.NewOperationRecord(op, outcome, finishedAt)
	if err := h.repo.CreateRecord(ctx, rec); err != nil {
		// The engine can't do anything with the error, the journal is best effort.
		h.logger.Errorf("Could not record %s operation %s: %s", outcome, op.ID, err)
		return
	}

	h.logger.Debugf("Recorded %s operation %s", outcome, op.ID)
}
