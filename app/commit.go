package app

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// CommitStore keeps two pending versions on top of the committed state of
// a CommitKVStore. Delivered transactions go to the pending version that
// Commit persists. Checked transactions go to a scratch version that
// Commit drops. CommitStore is not safe for concurrent use.
type CommitStore struct {
	db      harbor.CommitKVStore
	pending harbor.KVCacheWrap
	scratch harbor.KVCacheWrap
}

func NewCommitStore(db harbor.CommitKVStore) *CommitStore {
	cs := &CommitStore{db: db}
	cs.reset()
	return cs
}

func (cs *CommitStore) reset() {
	cs.pending = cs.db.CacheWrap()
	cs.scratch = cs.db.CacheWrap()
}

// CommitInfo returns the last committed version.
func (cs *CommitStore) CommitInfo() (harbor.CommitID, error) {
	return cs.db.LatestVersion()
}

// Commit persists the pending version and starts new ones.
func (cs *CommitStore) Commit() (harbor.CommitID, error) {
	cs.scratch.Discard()
	if err := cs.pending.Write(); err != nil {
		return harbor.CommitID{}, errors.Wrap(err, "flush pending state")
	}
	id, err := cs.db.Commit()
	if err != nil {
		return id, err
	}
	cs.reset()
	return id, nil
}

// CheckStore is the state transactions are checked against.
func (cs *CommitStore) CheckStore() harbor.CacheableKVStore {
	return cs.scratch
}

// DeliverStore is the state transactions are delivered to.
func (cs *CommitStore) DeliverStore() harbor.CacheableKVStore {
	return cs.pending
}

// Keys under the _hb: prefix belong to the ledger itself.
var chainIDKey = []byte("_hb:chainID")

// loadChainID returns the chain id, empty if InitChain was never called.
func loadChainID(db harbor.ReadOnlyKVStore) (string, error) {
	raw, err := db.Get(chainIDKey)
	if err != nil {
		return "", errors.Wrap(err, "load chain id")
	}
	return string(raw), nil
}

// saveChainID stores the chain id. It can be set only once.
func saveChainID(db harbor.KVStore, chainID string) error {
	if !harbor.IsValidChainID(chainID) {
		return errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	switch ok, err := db.Has(chainIDKey); {
	case err != nil:
		return errors.Wrap(err, "load chain id")
	case ok:
		return errors.Wrap(errors.ErrInvalidState, "chain id already set")
	}
	return db.Set(chainIDKey, []byte(chainID))
}
