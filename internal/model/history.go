package model

import (
	"fmt"
	"time"
)

// OperationOutcome is how a tracked operation finished.
type OperationOutcome string

const (
	OperationOutcomeCompleted OperationOutcome = "completed"
	OperationOutcomeCancelled OperationOutcome = "cancelled"
)

// OperationRecord is the journal entry of an operation that reached a terminal state.
type OperationRecord struct {
	ID              string
	ResourceKind    string
	OperationKind   string
	Outcome         OperationOutcome
	StageCount      int
	CompletedStages int
	OverallProgress float64
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Validate validates the record.
func (r OperationRecord) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("id is required: %w", ErrNotValid)
	}
	switch r.Outcome {
	case OperationOutcomeCompleted, OperationOutcomeCancelled:
	default:
		return fmt.Errorf("unknown outcome %q: %w", r.Outcome, ErrNotValid)
	}
	if r.CompletedStages > r.StageCount {
		return fmt.Errorf("completed stages (%d) greater than stage count (%d): %w", r.CompletedStages, r.StageCount, ErrNotValid)
	}
	if r.FinishedAt.Before(r.StartedAt) {
		return fmt.Errorf("finished before started: %w", ErrNotValid)
	}
	return nil
}

// Duration returns how long the operation was tracked.
func (r OperationRecord) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewOperationRecord creates the journal entry for a snapshot that finished with an outcome.
func NewOperationRecord(snap OperationSnapshot, outcome OperationOutcome, finishedAt time.Time) OperationRecord {
	return OperationRecord{
		ID:              snap.ID,
		ResourceKind:    snap.ResourceKind,
		OperationKind:   snap.OperationKind,
		Outcome:         outcome,
		StageCount:      len(snap.Stages),
		CompletedStages: len(snap.CompletedStageIndices),
		OverallProgress: snap.OverallProgress,
		StartedAt:       snap.StartedAt,
		FinishedAt:      finishedAt,
	}
}
