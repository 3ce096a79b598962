package escrow

import (
	"context"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/harbortest"
	"github.com/safeharbor/harbor/store"
	"github.com/safeharbor/harbor/x/cash"
	"github.com/stretchr/testify/require"
)

// registry collects handlers registered by RegisterRoutes.
type registry map[string]harbor.Handler

func (r registry) Handle(m harbor.Msg, h harbor.Handler) { r[m.Path()] = h }

// env is a ledger with the escrow routes registered.
type env struct {
	t      testing.TB
	db     harbor.CacheableKVStore
	bank   cash.BaseController
	auth   *harbortest.CtxAuth
	routes registry
}

func newEnv(t testing.TB) *env {
	auth := &harbortest.CtxAuth{Key: "auth"}
	bank := cash.NewController(cash.NewBucket())
	routes := make(registry)
	RegisterRoutes(routes, auth, bank)
	return &env{
		t:      t,
		db:     store.MemStore(),
		bank:   bank,
		auth:   auth,
		routes: routes,
	}
}

func (e *env) issue(addr harbor.Address, amount uint64, ticker string) {
	e.t.Helper()
	require.NoError(e.t, e.bank.IssueCoins(e.db, addr, coin.NewCoin(amount, ticker)))
}

func (e *env) balance(addr harbor.Address, ticker string) uint64 {
	e.t.Helper()
	b, err := e.bank.Balance(e.db, addr)
	require.NoError(e.t, err)
	return b.Get(ticker).Amount
}

// deliver runs check and deliver of given message signed by given
// conditions. Like the ledger does, deliver runs on a cache wrap that is
// written only on success.
func (e *env) deliver(msg harbor.Msg, signers ...harbor.Condition) (*harbor.DeliverResult, error) {
	e.t.Helper()
	h, ok := e.routes[msg.Path()]
	require.True(e.t, ok, "no handler for %s", msg.Path())

	ctx := harbor.WithChainID(context.Background(), "escrow-test")
	ctx = e.auth.SetConditions(ctx, signers...)
	tx := &harbortest.Tx{Msg: msg}

	check := e.db.CacheWrap()
	_, checkErr := h.Check(ctx, check, tx)
	check.Discard()

	cache := e.db.CacheWrap()
	res, err := h.Deliver(ctx, cache, tx)
	if err != nil {
		cache.Discard()
		// Check must reject everything deliver rejects.
		require.Error(e.t, checkErr, "check accepted a failing deliver: %+v", err)
		return nil, err
	}
	require.NoError(e.t, checkErr)
	require.NoError(e.t, cache.Write())
	return res, nil
}

// snapshot returns the full content of the store.
func (e *env) snapshot() map[string]string {
	e.t.Helper()
	it, err := e.db.Iterator(nil, nil)
	require.NoError(e.t, err)
	defer it.Release()

	res := make(map[string]string)
	for {
		k, v, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res
		}
		require.NoError(e.t, err)
		res[string(k)] = string(v)
	}
}

// newMakeMsg returns a message with correctly derived escrow and vault
// addresses.
func newMakeMsg(t testing.TB, maker harbor.Address, seed uint64, assetA string, deposit uint64, assetB string, receive uint64) *MakeMsg {
	t.Helper()
	escrow, _, err := EscrowAddress(maker, seed)
	require.NoError(t, err)
	vault, _, err := VaultAddress(escrow, assetA)
	require.NoError(t, err)
	return &MakeMsg{
		Maker:   maker,
		Seed:    seed,
		AssetA:  assetA,
		AssetB:  assetB,
		Deposit: deposit,
		Receive: receive,
		Escrow:  escrow,
		Vault:   vault,
	}
}
