package lib

import (
	"time"

	"github.com/slok/opsim/internal/model"
)

// Stage is a named phase of a multi-stage operation.
type Stage struct {
	// ID is the stage identifier, unique inside its operation.
	ID string
	// Name is the human-friendly name.
	Name string
	// Description is an optional text shown to users.
	Description string
	// EstimatedDuration is a display label only (e.g. "5-10 min"), it doesn't
	// affect the simulated timing.
	EstimatedDuration string
}

// CatalogEntry binds a resource and operation kind to its ordered stages.
//
// Use [WildcardResourceKind] as ResourceKind to match any resource. Entries
// with an exact resource kind have precedence over wildcard ones.
type CatalogEntry struct {
	ResourceKind  string
	OperationKind string
	Stages        []Stage
}

// WildcardResourceKind matches any resource kind on a catalog entry.
const WildcardResourceKind = model.WildcardResourceKind

// StageStatus is the display state of a stage inside an operation.
type StageStatus string

const (
	// StageStatusPending indicates the stage has not started.
	StageStatusPending StageStatus = "pending"
	// StageStatusRunning indicates the stage is the current one.
	StageStatusRunning StageStatus = "running"
	// StageStatusCompleted indicates the stage reached 100%.
	StageStatusCompleted StageStatus = "completed"
)

// Operation is a read-only snapshot of a live simulated operation.
//
// Use [Client.GetOperation] to get the latest state.
type Operation struct {
	// ID is the operation identifier, a ULID when not provided at start.
	ID            string
	ResourceKind  string
	OperationKind string
	// Stages are the ordered stages of the operation.
	Stages []Stage
	// StageStatuses are the statuses of each stage, same order as Stages.
	StageStatuses []StageStatus
	// CompletedStageIndices are the indices of the finished stages, ascending.
	CompletedStageIndices []int
	// CurrentStageIndex is the index of the running stage.
	CurrentStageIndex int
	// CurrentStageProgress is the percentage [0, 100) of the running stage.
	CurrentStageProgress float64
	// OverallProgress is the percentage [0, 100] of the whole operation.
	OverallProgress float64
	// StartedAt is when the operation started.
	StartedAt time.Time
}

// Outcome is how a finished operation ended.
type Outcome string

const (
	// OutcomeCompleted indicates all the stages reached 100%.
	OutcomeCompleted Outcome = "completed"
	// OutcomeCancelled indicates the operation was cancelled before completing.
	OutcomeCancelled Outcome = "cancelled"
)

// Record is the history entry of a finished operation.
type Record struct {
	ID              string
	ResourceKind    string
	OperationKind   string
	Outcome         Outcome
	StageCount      int
	CompletedStages int
	OverallProgress float64
	StartedAt       time.Time
	FinishedAt      time.Time
}

// StartOperationOpts configures the start of an operation.
type StartOperationOpts struct {
	// ID is optional, a ULID is generated when empty.
	ID string
	// ResourceKind is the kind of the resource (e.g. "rds", "postgres").
	ResourceKind string
	// OperationKind is the kind of operation (e.g. "migration", "upstep").
	OperationKind string
}

// ListHistoryOpts configures history listing.
//
// Pass nil to [Client.ListHistory] to list every record.
type ListHistoryOpts struct {
	// Outcome filters records by outcome. Nil means no filter.
	Outcome *Outcome
	// Limit is the max number of records, most recent first. Zero means no limit.
	Limit int
}

func toInternalCatalogEntries(es []CatalogEntry) []model.CatalogEntry {
	result := make([]model.CatalogEntry, len(es))
	for i, e := range es {
		stages := make(model.StageList, len(e.Stages))
		for j, s := range e.Stages {
			stages[j] = model.Stage{
				ID:                s.ID,
				Name:              s.Name,
				Description:       s.Description,
				EstimatedDuration: s.EstimatedDuration,
			}
		}
		result[i] = model.CatalogEntry{
			ResourceKind:  e.ResourceKind,
			OperationKind: e.OperationKind,
			Stages:        stages,
		}
	}
	return result
}

func fromInternalStages(ss model.StageList) []Stage {
	result := make([]Stage, len(ss))
	for i, s := range ss {
		result[i] = Stage{
			ID:                s.ID,
			Name:              s.Name,
			Description:       s.Description,
			EstimatedDuration: s.EstimatedDuration,
		}
	}
	return result
}

func fromInternalSnapshot(s model.OperationSnapshot) Operation {
	statuses := make([]StageStatus, len(s.Stages))
	for i := range s.Stages {
		statuses[i] = StageStatus(s.StageStatus(i))
	}

	return Operation{
		ID:                    s.ID,
		ResourceKind:          s.ResourceKind,
		OperationKind:         s.OperationKind,
		Stages:                fromInternalStages(s.Stages),
		StageStatuses:         statuses,
		CompletedStageIndices: append([]int{}, s.CompletedStageIndices...),
		CurrentStageIndex:     s.CurrentStageIndex,
		CurrentStageProgress:  s.CurrentStageProgress,
		OverallProgress:       s.OverallProgress,
		StartedAt:             s.StartedAt,
	}
}

func fromInternalRecord(r model.OperationRecord) Record {
	return Record{
		ID:              r.ID,
		ResourceKind:    r.ResourceKind,
		OperationKind:   r.OperationKind,
		Outcome:         Outcome(r.Outcome),
		StageCount:      r.StageCount,
		CompletedStages: r.CompletedStages,
		OverallProgress: r.OverallProgress,
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
	}
}

func fromInternalRecordList(rs []model.OperationRecord) []Record {
	result := make([]Record, len(rs))
	for i, r := range rs {
		result[i] = fromInternalRecord(r)
	}
	return result
}

func toInternalOutcomeFilter(opts *ListHistoryOpts) *model.OperationOutcome {
	if opts == nil || opts.Outcome == nil {
		return nil
	}
	o := model.OperationOutcome(*opts.Outcome)
	return &o
}

func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case isInternalError(err, model.ErrNotFound):
		return joinErrors(err, ErrNotFound)
	case isInternalError(err, model.ErrAlreadyExists):
		return joinErrors(err, ErrAlreadyExists)
	case isInternalError(err, model.ErrNotValid):
		return joinErrors(err, ErrNotValid)
	default:
		return err
	}
}

func isInternalError(err, target error) bool {
	for {
		if err == target {
			return true
		}
		unwrapped := unwrapSingle(err)
		if unwrapped == nil {
			return false
		}
		err = unwrapped
	}
}

func unwrapSingle(err error) error {
	u, ok := err.(interface{ Unwrap() error })
	if !ok {
		return nil
	}
	return u.Unwrap()
}

func joinErrors(original, sentinel error) error {
	return &mappedError{original: original, sentinel: sentinel}
}

type mappedError struct {
	original error
	sentinel error
}

func (e *mappedError) Error() string { return e.original.Error() }

func (e *mappedError) Is(target error) bool {
	return target == e.sentinel
}

func (e *mappedError) Unwrap() error { return e.original }
