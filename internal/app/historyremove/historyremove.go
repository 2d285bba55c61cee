package historyremove

import (
	"context"
	"fmt"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/storage"
)

// ServiceConfig is the configuration for the history remove service.
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
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.HistoryRemove"})

	return nil
}

// Service removes records from the history.
type Service struct {
	repo   storage.HistoryRepository
	logger log.Logger
}

// NewService creates a new history remove service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the history remove request parameters.
type Request struct {
	// IDs of the records to remove.
	IDs []string
	// All removes every record, can't be used with IDs.
	All bool
}

// Run removes the requested records and returns how many were removed.
func (s *Service) Run(ctx context.Context, req Request) (int, error) {
	if req.All && len(req.IDs) > 0 {
		return 0, fmt.Errorf("record IDs can't be used when removing all records: %w", model.ErrNotValid)
	}

	if req.All {
		n, err := s.repo.DeleteAllRecords(ctx)
		if err != nil {
			return 0, fmt.Errorf("could not delete records: %w", err)
		}
		s.logger.Infof("Removed %d records", n)
		return n, nil
	}

	if len(req.IDs) == 0 {
		return 0, fmt.Errorf("at least one record ID is required: %w", model.ErrNotValid)
	}

	removed := 0
	for _, id := range req.IDs {
		err := s.repo.DeleteRecord(ctx, id)
		if err != nil {
			return removed, fmt.Errorf("could not delete record %q: %w", id, err)
		}
		removed++
		s.logger.Debugf("Removed record %s", id)
	}

	return removed, nil
}
