package cataloglist

import (
	"context"
	"fmt"

	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
)

// EntryLister lists the entries of a catalog.
type EntryLister interface {
	Entries() []model.CatalogEntry
}

// ServiceConfig is the configuration for the catalog list service.
type ServiceConfig struct {
	Catalog EntryLister
	Logger  log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Catalog == nil {
		return fmt.Errorf("catalog is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service lists catalog entries with optional filtering.
type Service struct {
	catalog EntryLister
	logger  log.Logger
}

// NewService creates a new catalog list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		catalog: cfg.Catalog,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the catalog list request parameters.
type Request struct {
	// ResourceKind is an optional filter, the wildcard entries only match the wildcard filter.
	ResourceKind string
	// OperationKind is an optional filter.
	OperationKind string
}

// Run lists the catalog entries, optionally filtered.
func (s *Service) Run(ctx context.Context, req Request) ([]model.CatalogEntry, error) {
	s.logger.Debugf("listing catalog entries with filter: %q/%q", req.ResourceKind, req.OperationKind)

	entries := s.catalog.Entries()
	filtered := make([]model.CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if req.ResourceKind != "" && e.ResourceKind != req.ResourceKind {
			continue
		}
		if req.OperationKind != "" && e.OperationKind != req.OperationKind {
			continue
		}
		filtered = append(filtered, e)
	}

	s.logger.Debugf("found %d catalog entries", len(filtered))
	return filtered, nil
}
