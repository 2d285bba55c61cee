package cataloglist_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsim/internal/app/cataloglist"
	"github.com/slok/opsim/internal/catalog"
)

func TestNewService(t *testing.T) {
	_, err := cataloglist.NewService(cataloglist.ServiceConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog is required")

	svc, err := cataloglist.NewService(cataloglist.ServiceConfig{Catalog: catalog.Default()})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestServiceRun(t *testing.T) {
	type kinds struct{ resource, operation string }

	tests := map[string]struct {
		req    cataloglist.Request
		expGot []kinds
	}{
		"No filter should return all entries.": {
			req: cataloglist.Request{},
			expGot: []kinds{
				{"*", "creation"},
				{"*", "migration"},
				{"*", "modification"},
				{"*", "upstep"},
				{"rds", "migration"},
			},
		},
		"Filtering by operation should return all resources.": {
			req: cataloglist.Request{OperationKind: "migration"},
			expGot: []kinds{
				{"*", "migration"},
				{"rds", "migration"},
			},
		},
		"Filtering by resource should return only the exact resource.": {
			req: cataloglist.Request{ResourceKind: "rds"},
			expGot: []kinds{
				{"rds", "migration"},
			},
		},
		"Filters without matches should return an empty list.": {
			req:    cataloglist.Request{ResourceKind: "rds", OperationKind: "upstep"},
			expGot: []kinds{},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			svc, err := cataloglist.NewService(cataloglist.ServiceConfig{Catalog: catalog.Default()})
			require.NoError(t, err)

			entries, err := svc.Run(context.TODO(), test.req)
			require.NoError(t, err)

			got := []kinds{}
			for _, e := range entries {
				got = append(got, kinds{e.ResourceKind, e.OperationKind})
			}
			assert.Equal(t, test.expGot, got)
		})
	}
}
