package x

import (
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/harbortest"
	"github.com/safeharbor/harbor/harbortest/assert"
)

func TestChainAuth(t *testing.T) {
	a, b, c := harbortest.NewCondition(), harbortest.NewCondition(), harbortest.NewCondition()

	ctxAuth := &harbortest.CtxAuth{Key: "signers"}
	ctx := ctxAuth.SetConditions(context.Background(), b)

	cases := map[string]struct {
		auth      Authenticator
		wantMain  harbor.Condition
		wantAll   []harbor.Condition
		wantNotIn harbor.Condition
	}{
		"no signers": {
			auth:      ChainAuth(&harbortest.Auth{}),
			wantNotIn: a,
		},
		"single signer": {
			auth:      &harbortest.Auth{Signers: []harbor.Condition{a}},
			wantMain:  a,
			wantAll:   []harbor.Condition{a},
			wantNotIn: b,
		},
		"chained in order": {
			auth:      ChainAuth(ctxAuth, &harbortest.Auth{Signers: []harbor.Condition{a}}),
			wantMain:  b,
			wantAll:   []harbor.Condition{b, a},
			wantNotIn: c,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantMain, MainSigner(ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(ctx))
			for _, cond := range tc.wantAll {
				if !tc.auth.HasAddress(ctx, cond.Address()) {
					t.Fatalf("%s not authenticated", cond)
				}
			}
			if tc.auth.HasAddress(ctx, tc.wantNotIn.Address()) {
				t.Fatalf("%s must not be authenticated", tc.wantNotIn)
			}
		})
	}
}
