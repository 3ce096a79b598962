package app

import (
	"context"
	"testing"

	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/harbortest"
	"github.com/safeharbor/harbor/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouterSuccess(t *testing.T) {
	var (
		msg     = &harbortest.Msg{RoutePath: "test/1"}
		handler = &harbortest.Handler{}
		r       = NewRouter()
	)
	r.Handle(msg, handler)

	ctx := context.Background()
	db := store.MemStore()
	tx := &harbortest.Tx{Msg: msg}

	_, err := r.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, handler.CheckCallCount())
	assert.Equal(t, 1, handler.DeliverCallCount())
}

func TestRouterNoHandler(t *testing.T) {
	r := NewRouter()
	r.Handle(&harbortest.Msg{RoutePath: "test/1"}, &harbortest.Handler{})

	tx := &harbortest.Tx{Msg: &harbortest.Msg{RoutePath: "test/2"}}

	_, err := r.Check(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
	_, err = r.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrNotFound.Is(err), "%+v", err)
}

func TestRouterMsgError(t *testing.T) {
	r := NewRouter()
	tx := &harbortest.Tx{Err: errors.ErrInvalidMsg}
	_, err := r.Deliver(context.Background(), store.MemStore(), tx)
	assert.True(t, errors.ErrInvalidMsg.Is(err), "%+v", err)
}

func TestRouterRegistration(t *testing.T) {
	cases := map[string]struct {
		paths     []string
		wantPanic bool
	}{
		"unique paths": {
			paths: []string{"a/b", "a/c", "b_c"},
		},
		"duplicated path": {
			paths:     []string{"a/b", "a/b"},
			wantPanic: true,
		},
		"invalid path": {
			paths:     []string{"a b"},
			wantPanic: true,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			r := NewRouter()
			register := func() {
				for _, p := range tc.paths {
					r.Handle(&harbortest.Msg{RoutePath: p}, &harbortest.Handler{})
				}
			}
			if tc.wantPanic {
				assert.Panics(t, register)
			} else {
				assert.NotPanics(t, register)
			}
		})
	}
}
