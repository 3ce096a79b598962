package harbortest

import (
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/harbortest/assert"
)

func TestAuth(t *testing.T) {
	a, b, c := NewCondition(), NewCondition(), NewCondition()
	ctx := context.Background()

	var empty Auth
	assert.Equal(t, 0, len(empty.GetConditions(ctx)))
	if empty.HasAddress(ctx, a.Address()) {
		t.Fatal("empty auth must not authenticate")
	}

	auth := Auth{Signers: []harbor.Condition{a, b}}
	assert.Equal(t, []harbor.Condition{a, b}, auth.GetConditions(ctx))
	if !auth.HasAddress(ctx, a.Address()) || !auth.HasAddress(ctx, b.Address()) {
		t.Fatal("signer not authenticated")
	}
	if auth.HasAddress(ctx, c.Address()) {
		t.Fatal("unknown address authenticated")
	}
}

func TestCtxAuth(t *testing.T) {
	a, b := NewCondition(), NewCondition()
	first := &CtxAuth{Key: "first"}
	second := &CtxAuth{Key: "second"}

	ctx := first.SetConditions(context.Background(), a)
	assert.Equal(t, []harbor.Condition{a}, first.GetConditions(ctx))
	if !first.HasAddress(ctx, a.Address()) {
		t.Fatal("signer not authenticated")
	}
	if first.HasAddress(ctx, b.Address()) {
		t.Fatal("unknown address authenticated")
	}

	if got := second.GetConditions(ctx); len(got) != 0 {
		t.Fatalf("conditions leaked between keys: %v", got)
	}
	if got := first.GetConditions(context.Background()); got != nil {
		t.Fatalf("want no conditions in an empty context, got %v", got)
	}
}

func TestCtxAuthRejectsForeignValue(t *testing.T) {
	auth := &CtxAuth{Key: "k"}
	ctx := context.WithValue(context.Background(), ctxAuthKey("k"), "not conditions")
	assert.Panics(t, func() { auth.GetConditions(ctx) })
}
