package x

import (
	"github.com/safeharbor/harbor"
)

// Authenticator tells which conditions signed the transaction being
// processed. Handlers receive it in their constructor so that the
// authentication scheme stays pluggable.
type Authenticator interface {
	// GetConditions returns every condition that authorized the
	// transaction. The first one is the main signer.
	GetConditions(harbor.Context) []harbor.Condition
	// HasAddress reports whether the address of any of the conditions
	// matches addr.
	HasAddress(harbor.Context, harbor.Address) bool
}

// ChainAuth returns an Authenticator that merges the result of all given
// implementations, in order.
func ChainAuth(impls ...Authenticator) Authenticator {
	return multiAuth(impls)
}

type multiAuth []Authenticator

func (m multiAuth) GetConditions(ctx harbor.Context) []harbor.Condition {
	var conds []harbor.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m multiAuth) HasAddress(ctx harbor.Context, addr harbor.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authenticated condition or nil.
func MainSigner(ctx harbor.Context, auth Authenticator) harbor.Condition {
	if conds := auth.GetConditions(ctx); len(conds) != 0 {
		return conds[0]
	}
	return nil
}
