package opspec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsim/internal/utils/opspec"
)

func TestParseOperations(t *testing.T) {
	tests := map[string]struct {
		specs  []string
		expOps []opspec.Operation
		expErr bool
	}{
		"No specs should return an empty list.": {
			specs:  nil,
			expOps: []opspec.Operation{},
		},
		"Specs without ID should be parsed.": {
			specs: []string{"rds/migration", "postgres/upstep"},
			expOps: []opspec.Operation{
				{ResourceKind: "rds", OperationKind: "migration"},
				{ResourceKind: "postgres", OperationKind: "upstep"},
			},
		},
		"Specs with ID should be parsed.": {
			specs: []string{"rds/migration=mig-1"},
			expOps: []opspec.Operation{
				{ID: "mig-1", ResourceKind: "rds", OperationKind: "migration"},
			},
		},
		"An empty spec should fail.": {
			specs:  []string{""},
			expErr: true,
		},
		"A spec without operation should fail.": {
			specs:  []string{"rds"},
			expErr: true,
		},
		"A spec with an empty resource should fail.": {
			specs:  []string{"/migration"},
			expErr: true,
		},
		"A spec with an invalid ID should fail.": {
			specs:  []string{"rds/migration=bad id"},
			expErr: true,
		},
		"Repeated IDs should fail.": {
			specs:  []string{"rds/migration=a", "mysql/creation=a"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			ops, err := opspec.ParseOperations(test.specs)

			if test.expErr {
				assert.Error(err)
			} else if assert.NoError(err) {
				assert.Equal(test.expOps, ops)
			}
		})
	}
}

func TestParseCancelAfter(t *testing.T) {
	tests := map[string]struct {
		specs  []string
		exp    map[string]time.Duration
		expErr bool
	}{
		"Valid specs should be parsed.": {
			specs: []string{"a=5s", "b=1m30s", "c=200ms"},
			exp: map[string]time.Duration{
				"a": 5 * time.Second,
				"b": 90 * time.Second,
				"c": 200 * time.Millisecond,
			},
		},
		"A later spec overrides a previous one.": {
			specs: []string{"a=5s", "a=2s"},
			exp:   map[string]time.Duration{"a": 2 * time.Second},
		},
		"A spec without duration should fail.": {
			specs:  []string{"a"},
			expErr: true,
		},
		"An invalid duration should fail.": {
			specs:  []string{"a=soon"},
			expErr: true,
		},
		"A negative duration should fail.": {
			specs:  []string{"a=-1s"},
			expErr: true,
		},
		"A zero duration should fail.": {
			specs:  []string{"a=0s"},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := opspec.ParseCancelAfter(test.specs)

			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, got)
		})
	}
}
