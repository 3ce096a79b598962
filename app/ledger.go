package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/store"
	"github.com/tendermint/tendermint/libs/log"
)

// Ledger processes transactions against a CommitKVStore. All calls are
// serialized: a transaction sees every change of the transactions
// delivered before it and none of the ones after it.
//
// Every delivered transaction runs on its own cache wrap of the pending
// state. It is written only if the handler succeeds, so a failed
// transaction leaves no trace. Commit makes the pending state durable.
type Ledger struct {
	mu sync.Mutex

	store       *CommitStore
	decoder     harbor.TxDecoder
	handler     harbor.Handler
	initializer harbor.Initializer

	logger  log.Logger
	metrics *Metrics
	// debug disables redaction of panic errors returned to the caller.
	debug bool

	// chainID is loaded from the store, saved once in InitChain
	chainID string
}

// NewLedger loads the last committed state of given store.
func NewLedger(db harbor.CommitKVStore, decoder harbor.TxDecoder, handler harbor.Handler, init harbor.Initializer) (*Ledger, error) {
	l := &Ledger{
		store:       NewCommitStore(db),
		decoder:     decoder,
		handler:     handler,
		initializer: init,
		logger:      log.NewNopLogger(),
	}
	chainID, err := loadChainID(l.store.DeliverStore())
	if err != nil {
		return nil, err
	}
	l.chainID = chainID
	return l, nil
}

// WithLogger sets the logger on the Ledger and returns it,
// to make it easy to chain in initialization
func (l *Ledger) WithLogger(logger log.Logger) *Ledger {
	l.logger = logger
	return l
}

// WithMetrics sets the collectors updated by the ledger.
func (l *Ledger) WithMetrics(m *Metrics) *Ledger {
	l.metrics = m
	return l
}

// WithDebug controls whether panic details are returned to the caller.
func (l *Ledger) WithDebug(debug bool) *Ledger {
	l.debug = debug
	return l
}

// ChainID returns the chain id, or an empty string if the ledger was not
// initialized yet.
func (l *Ledger) ChainID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.chainID
}

// InitChain stores the chain id and the genesis state and commits them.
// It can be called only once in the lifetime of a store.
func (l *Ledger) InitChain(gen *Genesis) (harbor.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.chainID != "" {
		return harbor.CommitID{}, errors.Wrapf(errors.ErrInvalidState, "genesis previously loaded for chain %s", l.chainID)
	}

	cache := l.store.DeliverStore().CacheWrap()
	if err := saveChainID(cache, gen.ChainID); err != nil {
		cache.Discard()
		return harbor.CommitID{}, err
	}
	if l.initializer != nil {
		if err := l.initializer.FromGenesis(gen.AppState, cache); err != nil {
			cache.Discard()
			return harbor.CommitID{}, errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return harbor.CommitID{}, errors.Wrap(err, "write genesis")
	}
	l.chainID = gen.ChainID
	l.logger.Info("Genesis loaded", "chain_id", gen.ChainID)
	return l.commit()
}

// CheckTx decodes and checks a transaction against the check state.
func (l *Ledger) CheckTx(raw []byte) (*harbor.CheckResult, error) {
	tx, err := l.loadTx(raw)
	if err != nil {
		return nil, err
	}
	return l.Check(tx)
}

// Check runs the handler check phase. Changes made by a successful check
// remain visible to later checks until the next Commit.
func (l *Ledger) Check(tx harbor.Tx) (*harbor.CheckResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res *harbor.CheckResult
	err := l.run("check_tx", tx, l.store.CheckStore(), func(ctx harbor.Context, db harbor.KVStore) (err error) {
		res, err = l.handler.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, errors.Redact(err, l.debug)
	}
	return res, nil
}

// DeliverTx decodes and delivers a transaction.
func (l *Ledger) DeliverTx(raw []byte) (*harbor.DeliverResult, error) {
	tx, err := l.loadTx(raw)
	if err != nil {
		return nil, err
	}
	return l.Deliver(tx)
}

// Deliver runs the handler deliver phase against the pending state.
func (l *Ledger) Deliver(tx harbor.Tx) (*harbor.DeliverResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var res *harbor.DeliverResult
	err := l.run("deliver_tx", tx, l.store.DeliverStore(), func(ctx harbor.Context, db harbor.KVStore) (err error) {
		res, err = l.handler.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, errors.Redact(err, l.debug)
	}
	return res, nil
}

// run executes fn on a recorded cache wrap of given state. The cache wrap
// is written only if fn succeeds.
func (l *Ledger) run(call string, tx harbor.Tx, state harbor.CacheableKVStore, fn func(harbor.Context, harbor.KVStore) error) error {
	path := harbor.GetPath(tx)
	if l.chainID == "" {
		err := errors.Wrap(errors.ErrInvalidState, "ledger not initialized")
		l.metrics.observeTx(call, path, err)
		return err
	}

	ctx := l.context()
	ctx = harbor.WithLogInfo(ctx, "call", call, "path", path)

	cache := state.CacheWrap()
	rec := store.NewRecordingStore(cache)
	err := fn(ctx, rec)
	if err == nil {
		err = cache.Write()
	} else {
		cache.Discard()
	}
	l.metrics.observeTx(call, path, err)
	if err != nil {
		return err
	}
	harbor.GetLogger(ctx).Debug("State updated", "keys", len(rec.KVPairs()))
	return nil
}

// context returns the context shared by all transactions of the pending
// version.
func (l *Ledger) context() harbor.Context {
	ctx := harbor.WithLogger(context.Background(), l.logger)
	ctx = harbor.WithChainID(ctx, l.chainID)
	if info, err := l.store.CommitInfo(); err == nil {
		ctx = harbor.WithHeight(ctx, info.Version+1)
	}
	return ctx
}

// Commit makes all delivered transactions durable and starts a new
// pending version. Changes made only by Check are dropped.
func (l *Ledger) Commit() (harbor.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.commit()
}

func (l *Ledger) commit() (harbor.CommitID, error) {
	id, err := l.store.Commit()
	if err != nil {
		return id, errors.Wrap(err, "commit")
	}
	l.metrics.observeCommit(id.Version)
	l.logger.Info("Commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash))
	return id, nil
}

// LatestVersion returns the last committed version.
func (l *Ledger) LatestVersion() (harbor.CommitID, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.CommitInfo()
}

// View calls fn with a read only view of the pending state, which includes
// every delivered but not yet committed transaction.
func (l *Ledger) View(fn func(db harbor.ReadOnlyKVStore) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return fn(l.store.DeliverStore())
}

// loadTx calls the decoder, and capture any panics
func (l *Ledger) loadTx(raw []byte) (tx harbor.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = l.decoder(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return tx, nil
}
