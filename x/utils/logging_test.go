package utils

import (
	"bytes"
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/harbortest"
	"github.com/safeharbor/harbor/store"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  harbortest.Handler
		deliver  bool
		wantErr  *errors.Error
		contains []string
	}{
		"check success is logged at debug level": {
			handler:  harbortest.Handler{CheckResult: harbor.CheckResult{Log: "checked"}},
			contains: []string{"D[", "checked", "path=escrow/make"},
		},
		"deliver success is logged at info level": {
			handler:  harbortest.Handler{DeliverResult: harbor.DeliverResult{Log: "escrow created"}},
			deliver:  true,
			contains: []string{"I[", "escrow created", "path=escrow/make"},
		},
		"deliver failure is logged at error level": {
			handler:  harbortest.Handler{DeliverErr: errors.ErrNotFound},
			deliver:  true,
			wantErr:  errors.ErrNotFound,
			contains: []string{"E[", "not found"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := harbor.WithLogger(context.Background(), log.NewTMLogger(log.NewSyncWriter(&buf)))
			db := store.MemStore()
			tx := &harbortest.Tx{Msg: &harbortest.Msg{RoutePath: "escrow/make"}}

			var err error
			if tc.deliver {
				_, err = NewLogging().Deliver(ctx, db, tx, &tc.handler)
			} else {
				_, err = NewLogging().Check(ctx, db, tx, &tc.handler)
			}
			assert.True(t, tc.wantErr.Is(err), "%+v", err)

			out := buf.String()
			for _, s := range tc.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}
