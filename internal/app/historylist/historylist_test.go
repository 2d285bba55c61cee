package historylist_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsim/internal/app/historylist"
	"github.com/slok/opsim/internal/model"
	"github.com/slok/opsim/internal/storage/storagemock"
)

func ptrOutcome(o model.OperationOutcome) *model.OperationOutcome { return &o }

func records() []model.OperationRecord {
	t0 := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	return []model.OperationRecord{
		{ID: "op3", Outcome: model.OperationOutcomeCompleted, StartedAt: t0, FinishedAt: t0.Add(3 * time.Minute)},
		{ID: "op2", Outcome: model.OperationOutcomeCancelled, StartedAt: t0, FinishedAt: t0.Add(2 * time.Minute)},
		{ID: "op1", Outcome: model.OperationOutcomeCompleted, StartedAt: t0, FinishedAt: t0.Add(1 * time.Minute)},
	}
}

func TestNewService(t *testing.T) {
	_, err := historylist.NewService(historylist.ServiceConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "repository is required")
}

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		req        historylist.Request
		setupMocks func(repo *storagemock.MockHistoryRepository)
		expIDs     []string
		expErr     bool
	}{
		"No filter should return all the records.": {
			req: historylist.Request{},
			setupMocks: func(repo *storagemock.MockHistoryRepository) {
				repo.On("ListRecords", mock.Anything).Return(records(), nil)
			},
			expIDs: []string{"op3", "op2", "op1"},
		},
		"Outcome filter should only return matching records.": {
			req: historylist.Request{OutcomeFilter: ptrOutcome(model.OperationOutcomeCompleted)},
			setupMocks: func(repo *storagemock.MockHistoryRepository) {
				repo.On("ListRecords", mock.Anything).Return(records(), nil)
			},
			expIDs: []string{"op3", "op1"},
		},
		"Limit should keep the most recent records.": {
			req: historylist.Request{Limit: 2},
			setupMocks: func(repo *storagemock.MockHistoryRepository) {
				repo.On("ListRecords", mock.Anything).Return(records(), nil)
			},
			expIDs: []string{"op3", "op2"},
		},
		"A negative limit should fail.": {
			req:        historylist.Request{Limit: -1},
			setupMocks: func(repo *storagemock.MockHistoryRepository) {},
			expErr:     true,
		},
		"A repository error should fail.": {
			req: historylist.Request{},
			setupMocks: func(repo *storagemock.MockHistoryRepository) {
				repo.On("ListRecords", mock.Anything).Return(nil, errors.New("boom"))
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			repo := storagemock.NewMockHistoryRepository(t)
			test.setupMocks(repo)

			svc, err := historylist.NewService(historylist.ServiceConfig{Repository: repo})
			require.NoError(t, err)

			got, err := svc.Run(context.TODO(), test.req)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			gotIDs := []string{}
			for _, r := range got {
				gotIDs = append(gotIDs, r.ID)
			}
			assert.Equal(t, test.expIDs, gotIDs)
		})
	}
}
