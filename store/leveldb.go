package store

import (
	"crypto/sha256"
	"encoding/binary"
	"sync"

	"github.com/safeharbor/harbor/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var (
	dataPrefix = []byte("d:")
	versionKey = []byte("m:version")
)

// LevelDBStore is a CommitKVStore persisted in a goleveldb database.
//
// Written cache wraps are staged in memory and visible to reads. Commit
// flushes the staged changes and the new version record as one synced
// leveldb batch, so a crash never leaves data of a version that was not
// sealed. LevelDBStore is not safe for concurrent use.
type LevelDBStore struct {
	db *leveldb.DB
	// changes written since the last commit
	staged BTreeCacheWrap
	batch  *levelBatch

	mu      sync.Mutex
	version int64
	hash    []byte
}

var _ CommitKVStore = (*LevelDBStore)(nil)

// NewLevelDBStore opens or creates a database in the given directory.
func NewLevelDBStore(dir string) (*LevelDBStore, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", dir, err)
	}
	return newLevelDBStore(db)
}

// NewMemLevelDBStore returns a store backed by an in-memory leveldb
// storage. Useful for tests and dry runs.
func NewMemLevelDBStore() *LevelDBStore {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		panic(err)
	}
	s, err := newLevelDBStore(db)
	if err != nil {
		panic(err)
	}
	return s
}

func newLevelDBStore(db *leveldb.DB) (*LevelDBStore, error) {
	s := &LevelDBStore{db: db, batch: &levelBatch{}}
	s.staged = NewBTreeCacheWrap(levelReader{db: db}, s.batch, nil)
	raw, err := db.Get(versionKey, nil)
	switch {
	case err == leveldb.ErrNotFound:
		return s, nil
	case err != nil:
		db.Close()
		return nil, errors.Wrapf(errors.ErrDatabase, "load version: %s", err)
	}
	if len(raw) < 8 {
		db.Close()
		return nil, errors.Wrap(errors.ErrDatabase, "corrupted version record")
	}
	s.version = int64(binary.BigEndian.Uint64(raw))
	s.hash = append([]byte(nil), raw[8:]...)
	return s, nil
}

// Get returns the value at last written state or nil if missing.
func (s *LevelDBStore) Get(key []byte) ([]byte, error) {
	return s.staged.Get(key)
}

// CacheWrap returns a scratch pad over the last written state.
func (s *LevelDBStore) CacheWrap() KVCacheWrap {
	return s.staged.CacheWrap()
}

// Commit seals all written changes as the next version.
func (s *LevelDBStore) Commit() (CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := sha256.New()
	h.Write(s.hash)
	h.Write(s.batch.ops.Dump())
	hash := h.Sum(nil)
	version := s.version + 1

	raw := make([]byte, 8, 8+len(hash))
	binary.BigEndian.PutUint64(raw, uint64(version))
	raw = append(raw, hash...)
	s.batch.ops.Put(versionKey, raw)
	if err := s.db.Write(&s.batch.ops, &opt.WriteOptions{Sync: true}); err != nil {
		return CommitID{}, errors.Wrapf(errors.ErrDatabase, "commit: %s", err)
	}

	s.staged.Discard()
	s.batch.ops.Reset()
	s.version = version
	s.hash = hash
	return CommitID{Version: version, Hash: hash}, nil
}

// LatestVersion returns the last committed version.
func (s *LevelDBStore) LatestVersion() (CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CommitID{Version: s.version, Hash: s.hash}, nil
}

// Close releases the database handle.
func (s *LevelDBStore) Close() error {
	if err := s.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close: %s", err)
	}
	return nil
}

func dataKey(key []byte) []byte {
	k := make([]byte, 0, len(dataPrefix)+len(key))
	k = append(k, dataPrefix...)
	return append(k, key...)
}

// levelReader exposes the data namespace of the database.
type levelReader struct {
	db *leveldb.DB
}

var _ ReadOnlyKVStore = levelReader{}

func (r levelReader) Get(key []byte) ([]byte, error) {
	val, err := r.db.Get(dataKey(key), nil)
	switch {
	case err == leveldb.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(errors.ErrDatabase, "get: %s", err)
	}
	return val, nil
}

func (r levelReader) Has(key []byte) (bool, error) {
	ok, err := r.db.Has(dataKey(key), nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has: %s", err)
	}
	return ok, nil
}

func (r levelReader) Iterator(start, end []byte) (Iterator, error) {
	rng := util.BytesPrefix(dataPrefix)
	if start != nil {
		rng.Start = dataKey(start)
	}
	if end != nil {
		rng.Limit = dataKey(end)
	}
	return &levelIterator{it: r.db.NewIterator(rng, nil)}, nil
}

type levelIterator struct {
	it interface {
		Next() bool
		Key() []byte
		Value() []byte
		Error() error
		Release()
	}
}

func (i *levelIterator) Next() (key, value []byte, err error) {
	if !i.it.Next() {
		if err := i.it.Error(); err != nil {
			return nil, nil, errors.Wrapf(errors.ErrDatabase, "iterator: %s", err)
		}
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "leveldb done")
	}
	// goleveldb reuses the buffers between calls
	key = append([]byte(nil), i.it.Key()[len(dataPrefix):]...)
	value = append([]byte(nil), i.it.Value()...)
	return key, value, nil
}

func (i *levelIterator) Release() {
	i.it.Release()
}

// levelBatch records the staged changes as leveldb operations. They reach
// the database only on Commit.
type levelBatch struct {
	ops leveldb.Batch
}

var _ Batch = (*levelBatch)(nil)

func (b *levelBatch) Set(key, value []byte) error {
	b.ops.Put(dataKey(key), value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.ops.Delete(dataKey(key))
	return nil
}

// Write is a no-op, see LevelDBStore.Commit.
func (b *levelBatch) Write() error {
	return nil
}
