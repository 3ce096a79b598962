package utils

import (
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSavepoint(t *testing.T) {
	// always write ok, ov before calling functions
	ok, ov := []byte("demo"), []byte("data")
	// some key, value to try to write
	nk, nv := []byte{1, 2, 3}, []byte{4, 5, 6}

	cases := map[string]struct {
		save    Savepoint
		check   bool // whether to call Check or Deliver
		err     error
		written [][]byte
		missing [][]byte
	}{
		"savepoint disabled, error keeps writes": {
			save:    NewSavepoint(),
			check:   true,
			err:     errors.ErrInvalidState,
			written: [][]byte{ok, nk},
		},
		"savepoint on check, error discards writes": {
			save:    NewSavepoint().OnCheck(),
			check:   true,
			err:     errors.ErrInvalidState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on deliver, error discards writes": {
			save:    NewSavepoint().OnDeliver(),
			err:     errors.ErrInvalidState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"double activation maintains both behaviors": {
			save:    NewSavepoint().OnDeliver().OnCheck(),
			err:     errors.ErrInvalidState,
			written: [][]byte{ok},
			missing: [][]byte{nk},
		},
		"savepoint on check does not affect deliver": {
			save:    NewSavepoint().OnCheck(),
			err:     errors.ErrInvalidState,
			written: [][]byte{ok, nk},
		},
		"success is written": {
			save:    NewSavepoint().OnCheck().OnDeliver(),
			written: [][]byte{ok, nk},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			ctx := context.Background()
			db := store.MemStore()
			require.NoError(t, db.Set(ok, ov))

			h := new(mockHandler)
			if tc.check {
				var res *harbor.CheckResult
				if tc.err == nil {
					res = &harbor.CheckResult{}
				}
				h.On("Check", ctx, mock.Anything, nil).Run(writeKey(nk, nv)).Return(res, tc.err).Once()
				_, err := tc.save.Check(ctx, db, nil, h)
				assert.Equal(t, tc.err != nil, err != nil, "%+v", err)
			} else {
				var res *harbor.DeliverResult
				if tc.err == nil {
					res = &harbor.DeliverResult{}
				}
				h.On("Deliver", ctx, mock.Anything, nil).Run(writeKey(nk, nv)).Return(res, tc.err).Once()
				_, err := tc.save.Deliver(ctx, db, nil, h)
				assert.Equal(t, tc.err != nil, err != nil, "%+v", err)
			}
			h.AssertExpectations(t)

			for _, k := range tc.written {
				has, err := db.Has(k)
				require.NoError(t, err)
				assert.True(t, has, "%x", k)
			}
			for _, k := range tc.missing {
				has, err := db.Has(k)
				require.NoError(t, err)
				assert.False(t, has, "%x", k)
			}
		})
	}
}
