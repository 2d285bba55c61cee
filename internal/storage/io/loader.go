package io

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/slok/opsim/internal/model"
)

// CatalogFileRepository loads stage catalogs from YAML or TOML files.
type CatalogFileRepository struct {
	fs fs.FS
}

// NewCatalogFileRepository creates a new catalog file repository.
func NewCatalogFileRepository(filesystem fs.FS) *CatalogFileRepository {
	return &CatalogFileRepository{fs: filesystem}
}

// GetCatalog loads catalog entries from a file, the format is selected by the file extension.
func (r *CatalogFileRepository) GetCatalog(ctx context.Context, path string) ([]model.CatalogEntry, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	var cfg CatalogFile
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing YAML: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing TOML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog file extension %q: %w", ext, model.ErrNotValid)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	return cfg.toModel(), nil
}

// CatalogFile represents the file structure of a stage catalog.
type CatalogFile struct {
	Entries []EntryConfig `yaml:"entries" toml:"entries"`
}

// EntryConfig represents a catalog entry.
type EntryConfig struct {
	ResourceKind  string        `yaml:"resource_kind" toml:"resource_kind"`
	OperationKind string        `yaml:"operation_kind" toml:"operation_kind"`
	Stages        []StageConfig `yaml:"stages" toml:"stages"`
}

// StageConfig represents a single stage.
type StageConfig struct {
	ID                string `yaml:"id" toml:"id"`
	Name              string `yaml:"name" toml:"name"`
	Description       string `yaml:"description" toml:"description"`
	EstimatedDuration string `yaml:"estimated_duration" toml:"estimated_duration"`
}

func (c CatalogFile) validate() error {
	if len(c.Entries) == 0 {
		return fmt.Errorf("at least one entry is required")
	}

	for i, e := range c.Entries {
		if e.ResourceKind == "" {
			return fmt.Errorf("entry %d: resource_kind is required", i)
		}
		if e.OperationKind == "" {
			return fmt.Errorf("entry %d: operation_kind is required", i)
		}
		if len(e.Stages) == 0 {
			return fmt.Errorf("entry %d (%s/%s): at least one stage is required", i, e.ResourceKind, e.OperationKind)
		}
		for j, s := range e.Stages {
			if s.ID == "" {
				return fmt.Errorf("entry %d (%s/%s): stage %d: id is required", i, e.ResourceKind, e.OperationKind, j)
			}
			if s.Name == "" {
				return fmt.Errorf("entry %d (%s/%s): stage %q: name is required", i, e.ResourceKind, e.OperationKind, s.ID)
			}
		}
	}

	return nil
}

func (c CatalogFile) toModel() []model.CatalogEntry {
	entries := make([]model.CatalogEntry, 0, len(c.Entries))
	for _, e := range c.Entries {
		stages := make(model.StageList, 0, len(e.Stages))
		for _, s := range e.Stages {
			stages = append(stages, model.Stage{
				ID:                s.ID,
				Name:              s.Name,
				Description:       s.Description,
				EstimatedDuration: s.EstimatedDuration,
			})
		}

		entries = append(entries, model.CatalogEntry{
			ResourceKind:  e.ResourceKind,
			OperationKind: e.OperationKind,
			Stages:        stages,
		})
	}

	return entries
}
