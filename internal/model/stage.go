package model

import (
	"fmt"
)

// WildcardResourceKind matches any resource kind on a catalog entry.
const WildcardResourceKind = "*"

// Stage is a named phase of a multi-stage operation.
type Stage struct {
	ID          string
	Name        string
	Description string
	// EstimatedDuration is a display label only, it has no effect on the simulated timing.
	EstimatedDuration string
}

// StageList is the ordered set of stages an operation goes through.
type StageList []Stage

// Validate validates the stage list.
func (s StageList) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("at least one stage is required: %w", ErrNotValid)
	}

	ids := map[string]struct{}{}
	for i, st := range s {
		if st.ID == "" {
			return fmt.Errorf("stage %d: id is required: %w", i, ErrNotValid)
		}
		if st.Name == "" {
			return fmt.Errorf("stage %q: name is required: %w", st.ID, ErrNotValid)
		}
		if _, ok := ids[st.ID]; ok {
			return fmt.Errorf("stage %q: duplicated id: %w", st.ID, ErrNotValid)
		}
		ids[st.ID] = struct{}{}
	}

	return nil
}

// Copy returns a copy of the stage list that doesn't share memory with the original.
func (s StageList) Copy() StageList {
	if s == nil {
		return nil
	}
	c := make(StageList, len(s))
	copy(c, s)
	return c
}

// CatalogEntry maps a resource and operation kind to its stages.
type CatalogEntry struct {
	ResourceKind  string
	OperationKind string
	Stages        StageList
}

// Validate validates the catalog entry.
func (c CatalogEntry) Validate() error {
	if c.ResourceKind == "" {
		return fmt.Errorf("resource kind is required: %w", ErrNotValid)
	}
	if c.OperationKind == "" {
		return fmt.Errorf("operation kind is required: %w", ErrNotValid)
	}
	if err := c.Stages.Validate(); err != nil {
		return fmt.Errorf("%s/%s stages: %w", c.ResourceKind, c.OperationKind, err)
	}
	return nil
}
