package historylist

import (
	"context"
	"fmt"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/storage"
)

// ServiceConfig is the configuration for the history list service.
type ServiceConfig struct {
	Repository storage.HistoryRepository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists finished operations with optional filtering.
type Service struct {
	repo   storage.HistoryRepository
	logger log.Logger
}

// NewService creates a new history list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history list request parameters.
type Request struct {
	// OutcomeFilter is an optional filter to only show records with this outcome.
	OutcomeFilter *model.OperationOutcome
	// Limit is the max number of records returned, zero means no limit.
	Limit int
}

// Run lists the finished operations, most recent first.
func (s *Service) Run(ctx context.Context, req Request) ([]model.OperationRecord, error) {
	s.logger.Debugf("listing history with filter: %v", req.OutcomeFilter)

	if req.Limit < 0 {
		return nil, fmt.Errorf("limit can't be negative: %w", model.ErrNotValid)
	}

	records, err := s.repo.ListRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list records: %w", err)
	}

	if req.OutcomeFilter != nil {
		filtered := make([]model.OperationRecord, 0, len(records))
		for _, r := range records {
			if r.Outcome == *req.OutcomeFilter {
				filtered = append(filtered, r)
			}
		}
		records = filtered
	}

	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}

	s.logger.Debugf("found %d records", len(records))
	return records, nil
}
