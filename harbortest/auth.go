package harbortest

import (
	"context"
	"fmt"

	"github.com/safeharbor/harbor"
)

// Auth is an x.Authenticator that authenticates a fixed list of signers,
// regardless of the context.
type Auth struct {
	Signers []harbor.Condition
}

func (a *Auth) GetConditions(harbor.Context) []harbor.Condition {
	return a.Signers
}

func (a *Auth) HasAddress(_ harbor.Context, addr harbor.Address) bool {
	return hasAddress(a.Signers, addr)
}

// CtxAuth is an x.Authenticator that reads the signers from the context.
// Signers are stored under Key, so that two instances with different keys
// do not see each other's conditions.
type CtxAuth struct {
	Key string
}

type ctxAuthKey string

// SetConditions returns a context that authenticates given conditions.
func (a *CtxAuth) SetConditions(ctx harbor.Context, conds ...harbor.Condition) harbor.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), conds)
}

func (a *CtxAuth) GetConditions(ctx harbor.Context) []harbor.Condition {
	switch v := ctx.Value(ctxAuthKey(a.Key)).(type) {
	case nil:
		return nil
	case []harbor.Condition:
		return v
	default:
		panic(fmt.Sprintf("unexpected %T conditions in context", v))
	}
}

func (a *CtxAuth) HasAddress(ctx harbor.Context, addr harbor.Address) bool {
	return hasAddress(a.GetConditions(ctx), addr)
}

func hasAddress(conds []harbor.Condition, addr harbor.Address) bool {
	for _, c := range conds {
		if addr.Equals(c.Address()) {
			return true
		}
	}
	return false
}
