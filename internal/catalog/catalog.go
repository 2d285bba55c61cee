package catalog

import (
	"fmt"
	"sort"

	"github.com/slok/opsim/internal/model"
)

// Catalog resolves the stages of an operation.
type Catalog interface {
	// Lookup returns the stages for a resource and operation kind. Unknown keys
	// return an empty list, never an error.
	Lookup(resourceKind, operationKind string) model.StageList
}

type key struct {
	resource  string
	operation string
}

// Static is a read-only in-memory catalog.
type Static struct {
	entries map[key]model.CatalogEntry
}

// NewStatic returns a new static catalog from the entries.
func NewStatic(entries []model.CatalogEntry) (*Static, error) {
	s := &Static{entries: make(map[key]model.CatalogEntry, len(entries))}
	for _, e := range entries {
		if err := e.Validate(); err != nil {
			return nil, fmt.Errorf("invalid catalog entry: %w", err)
		}

		k := key{resource: e.ResourceKind, operation: e.OperationKind}
		if _, ok := s.entries[k]; ok {
			return nil, fmt.Errorf("catalog entry %s/%s: %w", e.ResourceKind, e.OperationKind, model.ErrAlreadyExists)
		}
		e.Stages = e.Stages.Copy()
		s.entries[k] = e
	}

	return s, nil
}

// Lookup satisfies Catalog. Exact resource kind matches have precedence over wildcard entries.
func (s *Static) Lookup(resourceKind, operationKind string) model.StageList {
	if e, ok := s.entries[key{resource: resourceKind, operation: operationKind}]; ok {
		return e.Stages.Copy()
	}

	if e, ok := s.entries[key{resource: model.WildcardResourceKind, operation: operationKind}]; ok {
		return e.Stages.Copy()
	}

	return model.StageList{}
}

// Entries returns all the catalog entries sorted by resource and operation kind.
func (s *Static) Entries() []model.CatalogEntry {
	entries := make([]model.CatalogEntry, 0, len(s.entries))
	for _, e := range s.entries {
		e.Stages = e.Stages.Copy()
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ResourceKind != entries[j].ResourceKind {
			return entries[i].ResourceKind < entries[j].ResourceKind
		}
		return entries[i].OperationKind < entries[j].OperationKind
	})

	return entries
}

// Merge returns the base entries with the override entries applied on top, an override
// entry replaces the base entry with the same resource and operation kind.
func Merge(base, override []model.CatalogEntry) []model.CatalogEntry {
	if len(base) == 0 && len(override) == 0 {
		return []model.CatalogEntry{}
	}

	idx := make(map[key]int, len(base)+len(override))
	merged := make([]model.CatalogEntry, 0, len(base)+len(override))
	for _, entries := range [][]model.CatalogEntry{base, override} {
		for _, e := range entries {
			k := key{resource: e.ResourceKind, operation: e.OperationKind}
			if i, ok := idx[k]; ok {
				merged[i] = e
				continue
			}
			idx[k] = len(merged)
			merged = append(merged, e)
		}
	}

	return merged
}
