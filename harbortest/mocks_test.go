package harbortest

import (
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/harbortest/assert"
)

type counter interface {
	CheckCallCount() int
	DeliverCallCount() int
	CallCount() int
}

func assertCalls(t testing.TB, c counter, check, deliver int) {
	t.Helper()
	if got := c.CheckCallCount(); got != check {
		t.Fatalf("want %d check calls, got %d", check, got)
	}
	if got := c.DeliverCallCount(); got != deliver {
		t.Fatalf("want %d deliver calls, got %d", deliver, got)
	}
	if got := c.CallCount(); got != check+deliver {
		t.Fatalf("want %d calls, got %d", check+deliver, got)
	}
}

func TestHandler(t *testing.T) {
	h := Handler{
		CheckResult:   harbor.CheckResult{Log: "checked"},
		DeliverResult: harbor.DeliverResult{Data: []byte("delivered")},
	}
	ctx := context.Background()

	cres, err := h.Check(ctx, nil, &Tx{})
	assert.Nil(t, err)
	assert.Equal(t, "checked", cres.Log)
	dres, err := h.Deliver(ctx, nil, &Tx{})
	assert.Nil(t, err)
	assert.Equal(t, []byte("delivered"), dres.Data)
	assertCalls(t, &h, 1, 1)

	h.CheckErr = errors.ErrUnauthorized
	h.DeliverErr = errors.ErrNotFound
	_, err = h.Check(ctx, nil, &Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = h.Deliver(ctx, nil, &Tx{})
	assert.IsErr(t, errors.ErrNotFound, err)
	assertCalls(t, &h, 2, 2)
}

func TestDecorator(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	stack := Decorate(&h, &d)
	ctx := context.Background()

	_, err := stack.Check(ctx, nil, &Tx{})
	assert.Nil(t, err)
	_, err = stack.Deliver(ctx, nil, &Tx{})
	assert.Nil(t, err)
	assertCalls(t, &d, 1, 1)
	assertCalls(t, &h, 1, 1)

	// A failing decorator never reaches the handler.
	d.CheckErr = errors.ErrUnauthorized
	d.DeliverErr = errors.ErrInvalidState
	_, err = stack.Check(ctx, nil, &Tx{})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	_, err = stack.Deliver(ctx, nil, &Tx{})
	assert.IsErr(t, errors.ErrInvalidState, err)
	assertCalls(t, &d, 2, 2)
	assertCalls(t, &h, 1, 1)
}
