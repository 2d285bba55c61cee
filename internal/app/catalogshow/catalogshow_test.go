package catalogshow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsim/internal/app/catalogshow"
	"github.com/slok/opsim/internal/catalog"
	"github.com/slok/opsim/internal/model"
)

func TestServiceRun(t *testing.T) {
	tests := map[string]struct {
		req        catalogshow.Request
		expErr     error
		expStages  int
		expFirstID string
	}{
		"A resource with its own entry should use it.": {
			req:        catalogshow.Request{ResourceKind: "rds", OperationKind: "migration"},
			expStages:  8,
			expFirstID: "phase1",
		},
		"A resource without its own entry should use the wildcard one.": {
			req:        catalogshow.Request{ResourceKind: "postgres", OperationKind: "migration"},
			expStages:  5,
			expFirstID: "validation",
		},
		"An unknown operation should fail with not found.": {
			req:    catalogshow.Request{ResourceKind: "postgres", OperationKind: "teleport"},
			expErr: model.ErrNotFound,
		},
		"A missing resource kind should fail.": {
			req:    catalogshow.Request{OperationKind: "migration"},
			expErr: model.ErrNotValid,
		},
		"A missing operation kind should fail.": {
			req:    catalogshow.Request{ResourceKind: "rds"},
			expErr: model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := catalogshow.NewService(catalogshow.ServiceConfig{Catalog: catalog.Default()})
			require.NoError(t, err)

			entry, err := svc.Run(context.TODO(), test.req)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, entry.Stages, test.expStages)
			assert.Equal(t, test.expFirstID, entry.Stages[0].ID)
		})
	}
}
