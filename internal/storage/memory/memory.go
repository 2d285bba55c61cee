package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.HistoryRepository.
type Repository struct {
	records map[string]model.OperationRecord
	mu      sync.RWMutex
	logger  log.Logger
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Repository{
		records: make(map[string]model.OperationRecord),
		logger:  cfg.Logger,
	}, nil
}

// CreateRecord stores a new record in the repository.
func (r *Repository) CreateRecord(ctx context.Context, rec model.OperationRecord) error {
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[rec.ID]; ok {
		return fmt.Errorf("record with id %s: %w", rec.ID, model.ErrAlreadyExists)
	}

	r.records[rec.ID] = rec
	r.logger.Debugf("Created record in repository: %s", rec.ID)

	return nil
}

// GetRecord retrieves a record by ID.
func (r *Repository) GetRecord(ctx context.Context, id string) (*model.OperationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", id, model.ErrNotFound)
	}

	// Return a copy
	recCopy := rec
	return &recCopy, nil
}

// ListRecords returns all records, most recently finished first.
func (r *Repository) ListRecords(ctx context.Context) ([]model.OperationRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]model.OperationRecord, 0, len(r.records))
	for _, rec := range r.records {
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if !records[i].FinishedAt.Equal(records[j].FinishedAt) {
			return records[i].FinishedAt.After(records[j].FinishedAt)
		}
		return records[i].ID > records[j].ID
	})

	return records, nil
}

// DeleteRecord deletes a record.
func (r *Repository) DeleteRecord(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return fmt.Errorf("record %s: %w", id, model.ErrNotFound)
	}

	delete(r.records, id)
	r.logger.Debugf("Deleted record from repository: %s", id)

	return nil
}

// DeleteAllRecords deletes all the records.
func (r *Repository) DeleteAllRecords(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.records)
	r.records = make(map[string]model.OperationRecord)
	r.logger.Debugf("Deleted %d records from repository", n)

	return n, nil
}
