package harbor

// ReadOnlyKVStore gives read access to a key value state.
type ReadOnlyKVStore interface {
	// Get returns the value stored under key, nil if there is none.
	Get(key []byte) ([]byte, error)

	Has(key []byte) (bool, error)

	// Iterator returns the entries with start <= key < end in ascending
	// key order. A nil bound leaves that side open. The iterated range
	// must not be written to until the iterator is released.
	Iterator(start, end []byte) (Iterator, error)
}

// SetDeleter is the write half shared by KVStore and Batch. Given slices
// must not be modified after the call.
type SetDeleter interface {
	Set(key, value []byte) error
	Delete(key []byte) error
}

// KVStore is the state every handler works on.
type KVStore interface {
	ReadOnlyKVStore
	SetDeleter

	// NewBatch returns a batch applied to this store on Write.
	NewBatch() Batch
}

// Batch groups writes applied together by Write.
type Batch interface {
	SetDeleter
	Write() error
}

// Iterator walks a key range:
//
//	it, err := db.Iterator(start, end)
//	if err != nil {
//		return err
//	}
//	defer it.Release()
//	for {
//		key, value, err := it.Next()
//		if errors.ErrIteratorDone.Is(err) {
//			break
//		} else if err != nil {
//			return err
//		}
//		...
//	}
type Iterator interface {
	// Next returns the following entry or ErrIteratorDone past the last
	// one.
	Next() (key, value []byte, err error)

	Release()
}

// CacheableKVStore can stage writes in a cache wrap.
type CacheableKVStore interface {
	KVStore
	CacheWrap() KVCacheWrap
}

// KVCacheWrap stages writes on top of a parent store. Reads see the staged
// writes. Write applies them to the parent, Discard drops them. Cache
// wraps nest.
type KVCacheWrap interface {
	CacheableKVStore
	Write() error
	Discard()
}

// CommitKVStore is the durable root of the state. Changes reach it through
// a cache wrap and become durable, as a new version, on Commit.
type CommitKVStore interface {
	// Get reads the last committed version.
	Get(key []byte) ([]byte, error)

	CacheWrap() KVCacheWrap

	// Commit persists written cache wraps as the next version.
	Commit() (CommitID, error)

	// LatestVersion describes the last committed version.
	LatestVersion() (CommitID, error)

	Close() error
}

// CommitID identifies a committed version of the state.
type CommitID struct {
	Version int64
	Hash    []byte
}
