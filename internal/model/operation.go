package model

import "time"

// StageStatus is the display state of a single stage inside an operation.
type StageStatus string

const (
	StageStatusPending   StageStatus = "pending"
	StageStatusRunning   StageStatus = "running"
	StageStatusCompleted StageStatus = "completed"
)

// OperationSnapshot is an immutable view of a tracked operation.
type OperationSnapshot struct {
	ID            string
	ResourceKind  string
	OperationKind string
	Stages        StageList
	// CurrentStageIndex is in [0, len(Stages)], len(Stages) means all stages are done.
	CurrentStageIndex int
	// CurrentStageProgress is the completion percentage of the current stage, in [0, 100).
	CurrentStageProgress  float64
	CompletedStageIndices []int
	OverallProgress       float64
	StartedAt             time.Time
}

// Finished returns true when all the stages are completed.
func (o OperationSnapshot) Finished() bool {
	return o.CurrentStageIndex >= len(o.Stages)
}

// CurrentStage returns the stage being advanced, false if the operation has no pending stages.
func (o OperationSnapshot) CurrentStage() (Stage, bool) {
	if o.Finished() {
		return Stage{}, false
	}
	return o.Stages[o.CurrentStageIndex], true
}

// StageStatus returns the status of the stage at index i.
func (o OperationSnapshot) StageStatus(i int) StageStatus {
	switch {
	case i < o.CurrentStageIndex:
		return StageStatusCompleted
	case i == o.CurrentStageIndex:
		return StageStatusRunning
	default:
		return StageStatusPending
	}
}

// OverallProgress returns the percentage of an operation based on its completed stages
// and the progress of the current one. The result is clamped to [0, 100].
func OverallProgress(completedStages int, stageProgress float64, totalStages int) float64 {
	if totalStages <= 0 {
		return 100
	}

	p := (float64(completedStages) + stageProgress/100) / float64(totalStages) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}
