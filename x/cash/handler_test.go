package cash

import (
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/harbortest"
	"github.com/safeharbor/harbor/store"
	"github.com/stretchr/testify/require"
)

func TestSend(t *testing.T) {
	foo := coin.NewCoin(100, "FOO")
	some := coin.NewCoin(300, "SOME")

	perm := harbortest.NewCondition()
	perm2 := harbortest.NewCondition()

	cases := map[string]struct {
		signers        []harbor.Condition
		init           map[string]coin.Coin
		msg            harbor.Msg
		wantCheckErr   *errors.Error
		wantDeliverErr *errors.Error
	}{
		"wrong message type": {
			msg:            &harbortest.Msg{RoutePath: "cash/send"},
			wantCheckErr:   errors.ErrInvalidType,
			wantDeliverErr: errors.ErrInvalidType,
		},
		"empty message": {
			msg:            new(SendMsg),
			wantCheckErr:   errors.ErrInvalidAmount,
			wantDeliverErr: errors.ErrInvalidAmount,
		},
		"missing addresses": {
			msg:            &SendMsg{Amount: &foo},
			wantCheckErr:   errors.ErrInvalidInput,
			wantDeliverErr: errors.ErrInvalidInput,
		},
		"source did not sign": {
			msg:            &SendMsg{Amount: &foo, Source: perm.Address(), Destination: perm2.Address()},
			wantCheckErr:   errors.ErrUnauthorized,
			wantDeliverErr: errors.ErrUnauthorized,
		},
		"sender has no account": {
			signers:        []harbor.Condition{perm},
			msg:            &SendMsg{Amount: &foo, Source: perm.Address(), Destination: perm2.Address()},
			wantDeliverErr: ErrInsufficientFunds,
		},
		"sender too poor": {
			signers:        []harbor.Condition{perm},
			init:           map[string]coin.Coin{string(perm.Address()): some},
			msg:            &SendMsg{Amount: &foo, Source: perm.Address(), Destination: perm2.Address()},
			wantDeliverErr: ErrInsufficientFunds,
		},
		"success": {
			signers: []harbor.Condition{perm},
			init:    map[string]coin.Coin{string(perm.Address()): coin.NewCoin(500, "FOO")},
			msg:     &SendMsg{Amount: &foo, Source: perm.Address(), Destination: perm2.Address(), Memo: "rent"},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &harbortest.Auth{Signers: tc.signers}
			controller := NewController(NewBucket())
			h := NewSendHandler(auth, controller)

			db := store.MemStore()
			for addr, c := range tc.init {
				require.NoError(t, controller.IssueCoins(db, []byte(addr), c))
			}

			tx := &harbortest.Tx{Msg: tc.msg}
			ctx := context.Background()

			_, err := h.Check(ctx, db, tx)
			require.True(t, tc.wantCheckErr.Is(err), "check: %+v", err)

			_, err = h.Deliver(ctx, db, tx)
			require.True(t, tc.wantDeliverErr.Is(err), "deliver: %+v", err)

			if tc.wantDeliverErr == nil {
				balance, err := controller.Balance(db, perm2.Address())
				require.NoError(t, err)
				require.True(t, balance.Contains(foo))
			}
		})
	}
}

func TestSendMsgSerialization(t *testing.T) {
	msg := &SendMsg{
		Source:      harbortest.RandomAddr(t),
		Destination: harbortest.RandomAddr(t),
		Amount:      coin.NewCoinp(42, "ABC"),
		Memo:        "for the pizza",
	}
	raw, err := msg.Marshal()
	require.NoError(t, err)

	var got SendMsg
	require.NoError(t, got.Unmarshal(raw))
	require.Equal(t, msg, &got)
	require.NoError(t, got.Validate())
}
