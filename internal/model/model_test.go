package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/slok/opsim/internal/model"
)

func TestOverallProgress(t *testing.T) {
	tests := map[string]struct {
		completed     int
		stageProgress float64
		total         int
		exp           float64
	}{
		"Not started":                {completed: 0, stageProgress: 0, total: 5, exp: 0},
		"Half of the stages":         {completed: 1, stageProgress: 0, total: 2, exp: 50},
		"Mid stage":                  {completed: 1, stageProgress: 50, total: 2, exp: 75},
		"All stages":                 {completed: 2, stageProgress: 0, total: 2, exp: 100},
		"No stages is complete":      {completed: 0, stageProgress: 0, total: 0, exp: 100},
		"Overflow should be clamped": {completed: 3, stageProgress: 50, total: 2, exp: 100},
		"Negative should be clamped": {completed: -1, stageProgress: 0, total: 2, exp: 0},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.InDelta(t, test.exp, model.OverallProgress(test.completed, test.stageProgress, test.total), 1e-9)
		})
	}
}

func TestOperationRecordValidate(t *testing.T) {
	now := time.Now().UTC()
	valid := model.OperationRecord{
		ID:              "op",
		Outcome:         model.OperationOutcomeCompleted,
		StageCount:      2,
		CompletedStages: 2,
		StartedAt:       now.Add(-time.Minute),
		FinishedAt:      now,
	}

	tests := map[string]struct {
		mutate func(r *model.OperationRecord)
		expErr bool
	}{
		"Valid record":              {mutate: func(r *model.OperationRecord) {}},
		"Missing ID":                {mutate: func(r *model.OperationRecord) { r.ID = "" }, expErr: true},
		"Unknown outcome":           {mutate: func(r *model.OperationRecord) { r.Outcome = "failed" }, expErr: true},
		"More completed than total": {mutate: func(r *model.OperationRecord) { r.CompletedStages = 3 }, expErr: true},
		"Finished before started":   {mutate: func(r *model.OperationRecord) { r.FinishedAt = r.StartedAt.Add(-time.Second) }, expErr: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			r := valid
			test.mutate(&r)
			err := r.Validate()
			if test.expErr {
				assert.True(t, errors.Is(err, model.ErrNotValid))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestOperationSnapshotStageStatus(t *testing.T) {
	snap := model.OperationSnapshot{
		Stages:            model.StageList{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		CurrentStageIndex: 1,
	}

	assert.Equal(t, model.StageStatusCompleted, snap.StageStatus(0))
	assert.Equal(t, model.StageStatusRunning, snap.StageStatus(1))
	assert.Equal(t, model.StageStatusPending, snap.StageStatus(2))
	assert.False(t, snap.Finished())

	snap.CurrentStageIndex = 3
	_, ok := snap.CurrentStage()
	assert.False(t, ok)
	assert.True(t, snap.Finished())
}
