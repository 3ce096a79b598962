package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	var buf bytes.Buffer
	ctx := harbor.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	assert.Contains(t, buf.String(), "recovered from panic")
	assert.Contains(t, buf.String(), "deliver panic")
}

type panicHandler struct{}

var _ harbor.Handler = panicHandler{}

func (p panicHandler) Check(ctx harbor.Context, store harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx harbor.Context, store harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	panic("deliver panic")
}
