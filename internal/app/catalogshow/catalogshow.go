package catalogshow

import (
	"context"
	"fmt"

	"github.com/slok/opsim/internal/catalog"
	"github.com/slok/opsim/internal/log"
	"github.com/slok/opsim/internal/model"
)

// ServiceConfig is the configuration for the catalog show service.
type ServiceConfig struct {
	Catalog catalog.Catalog
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

// Service resolves the stages an operation would go through.
type Service struct {
	catalog catalog.Catalog
	logger  log.Logger
}

// NewService creates a new catalog show service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		catalog: cfg.Catalog,
		logger:  cfg.Logger,
	}, nil
}

// Request represents the catalog show request parameters.
type Request struct {
	ResourceKind  string
	OperationKind string
}

// Run returns the resolved stages for the requested kinds, wildcard entries included.
func (s *Service) Run(ctx context.Context, req Request) (*model.CatalogEntry, error) {
	if req.ResourceKind == "" {
		return nil, fmt.Errorf("resource kind is required: %w", model.ErrNotValid)
	}
	if req.OperationKind == "" {
		return nil, fmt.Errorf("operation kind is required: %w", model.ErrNotValid)
	}

	stages := s.catalog.Lookup(req.ResourceKind, req.OperationKind)
	if len(stages) == 0 {
		return nil, fmt.Errorf("no stages for %s/%s: %w", req.ResourceKind, req.OperationKind, model.ErrNotFound)
	}

	return &model.CatalogEntry{
		ResourceKind:  req.ResourceKind,
		OperationKind: req.OperationKind,
		Stages:        stages,
	}, nil
}
