package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsim/internal/model"
)

func snapshot(id string) model.OperationSnapshot {
	return model.OperationSnapshot{
		ID:            id,
		ResourceKind:  "rds",
		OperationKind: "migration",
		Stages: model.StageList{
			{ID: "a", Name: "Prepare", EstimatedDuration: "5m"},
			{ID: "b", Name: "Copy"},
			{ID: "c", Name: "Switch"},
		},
		CurrentStageIndex:     1,
		CurrentStageProgress:  40,
		CompletedStageIndices: []int{0},
		OverallProgress:       46.67,
	}
}

func TestNewRenderer(t *testing.T) {
	_, err := NewRenderer(RendererConfig{RefreshInterval: -time.Second})
	assert.Error(t, err)

	r, err := NewRenderer(RendererConfig{})
	require.NoError(t, err)
	assert.Equal(t, defaultRefreshInterval, r.refresh)
}

func TestRendererState(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	r, err := NewRenderer(RendererConfig{})
	require.NoError(err)

	err = r.RenderProgress(context.TODO(), []model.OperationSnapshot{snapshot("op1"), snapshot("op2")})
	require.NoError(err)
	err = r.RenderOutcome(context.TODO(), model.OperationRecord{ID: "op1", Outcome: model.OperationOutcomeCompleted})
	require.NoError(err)

	st := r.state()
	require.Len(st.ops, 1)
	assert.Equal("op2", st.ops[0].ID)
	require.Len(st.outcomes, 1)
	assert.Equal("op1", st.outcomes[0].ID)

	// The state is a copy.
	st.outcomes[0].ID = "changed"
	assert.Equal("op1", r.state().outcomes[0].ID)
}

func TestRendererProgressAfterOutcome(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	r, err := NewRenderer(RendererConfig{})
	require.NoError(err)

	err = r.RenderOutcome(context.TODO(), model.OperationRecord{ID: "op1", Outcome: model.OperationOutcomeCompleted})
	require.NoError(err)
	err = r.RenderProgress(context.TODO(), []model.OperationSnapshot{snapshot("op1"), snapshot("op2")})
	require.NoError(err)

	st := r.state()
	require.Len(st.ops, 1)
	assert.Equal("op2", st.ops[0].ID)
	require.Len(st.outcomes, 1)
	assert.Equal("op1", st.outcomes[0].ID)
}

func TestUIModelUpdate(t *testing.T) {
	tests := map[string]struct {
		msg         tea.Msg
		expQuitting bool
		expCmd      bool
		expOps      int
	}{
		"Quit key should stop the UI.": {
			msg:         tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")},
			expQuitting: true,
			expCmd:      true,
		},
		"Ctrl+c should stop the UI.": {
			msg:         tea.KeyMsg{Type: tea.KeyCtrlC},
			expQuitting: true,
			expCmd:      true,
		},
		"Other keys should be ignored.": {
			msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")},
		},
		"A new state should be stored and keep polling.": {
			msg:    stateMsg{ops: []model.OperationSnapshot{snapshot("op1")}},
			expCmd: true,
			expOps: 1,
		},
		"A window resize should resize the bar.": {
			msg: tea.WindowSizeMsg{Width: 100, Height: 40},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m := newUIModel(func() stateMsg { return stateMsg{} }, time.Millisecond)

			got, cmd := m.Update(test.msg)
			gotModel := got.(uiModel)

			assert.Equal(t, test.expQuitting, gotModel.quitting)
			assert.Equal(t, test.expCmd, cmd != nil)
			assert.Len(t, gotModel.ops, test.expOps)
		})
	}
}

func TestUIModelView(t *testing.T) {
	assert := assert.New(t)

	startedAt := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	m := newUIModel(func() stateMsg { return stateMsg{} }, time.Millisecond)
	got, _ := m.Update(stateMsg{
		ops: []model.OperationSnapshot{snapshot("op1")},
		outcomes: []model.OperationRecord{{
			ID:              "op0",
			Outcome:         model.OperationOutcomeCancelled,
			StageCount:      3,
			CompletedStages: 1,
			OverallProgress: 40,
			StartedAt:       startedAt,
			FinishedAt:      startedAt.Add(2 * time.Second),
		}},
	})

	view := got.View()
	assert.Contains(view, "op1")
	assert.Contains(view, "rds/migration")
	assert.Contains(view, "✓ Prepare (~5m)")
	assert.Contains(view, "● Copy")
	assert.Contains(view, "○ Switch")
	assert.Contains(view, " 47%")
	assert.Contains(view, "✖ cancelled")
	assert.Contains(view, "(1/3 stages, 2.0s)")
}

func TestUIModelViewEmpty(t *testing.T) {
	m := newUIModel(func() stateMsg { return stateMsg{} }, time.Millisecond)
	assert.Contains(t, m.View(), "Waiting for operations...")
}
