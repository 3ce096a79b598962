package sigs

import (
	"context"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/x"
)

type signersKey struct{}

// withSigners is unexported so that only the Decorator can set signers.
func withSigners(ctx harbor.Context, signers []harbor.Condition) harbor.Context {
	return context.WithValue(ctx, signersKey{}, signers)
}

// Authenticate returns the signers verified by the Decorator.
type Authenticate struct{}

var _ x.Authenticator = Authenticate{}

// GetConditions returns the conditions of all signers, nil outside of a
// Decorator.
func (Authenticate) GetConditions(ctx harbor.Context) []harbor.Condition {
	signers, _ := ctx.Value(signersKey{}).([]harbor.Condition)
	return signers
}

func (a Authenticate) HasAddress(ctx harbor.Context, addr harbor.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}
