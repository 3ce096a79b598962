package store

// RecordingStore passes every write to the wrapped store and remembers the
// last value written per key, nil for a delete. Writes staged in a cache
// wrap are remembered only once the cache wrap is written.
type RecordingStore struct {
	CacheableKVStore
	changes map[string][]byte
}

var _ CacheableKVStore = (*RecordingStore)(nil)

func NewRecordingStore(db CacheableKVStore) *RecordingStore {
	return &RecordingStore{CacheableKVStore: db, changes: make(map[string][]byte)}
}

// KVPairs returns the recorded changes. The map must not be modified.
func (r *RecordingStore) KVPairs() map[string][]byte {
	return r.changes
}

func (r *RecordingStore) Set(key, value []byte) error {
	if err := r.CacheableKVStore.Set(key, value); err != nil {
		return err
	}
	r.changes[string(key)] = value
	return nil
}

func (r *RecordingStore) Delete(key []byte) error {
	if err := r.CacheableKVStore.Delete(key); err != nil {
		return err
	}
	r.changes[string(key)] = nil
	return nil
}

// NewBatch returns a batch recording its operations once written.
func (r *RecordingStore) NewBatch() Batch {
	return &recordingBatch{parent: r.CacheableKVStore.NewBatch(), changes: r.changes}
}

// CacheWrap stages writes and flushes them through a recording batch.
func (r *RecordingStore) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(r, r.NewBatch(), nil)
}

type recordingBatch struct {
	parent  Batch
	pending []Op
	changes map[string][]byte
}

func (b *recordingBatch) Set(key, value []byte) error {
	b.pending = append(b.pending, Op{Key: key, Value: value})
	return b.parent.Set(key, value)
}

func (b *recordingBatch) Delete(key []byte) error {
	b.pending = append(b.pending, Op{Key: key, Deleted: true})
	return b.parent.Delete(key)
}

func (b *recordingBatch) Write() error {
	if err := b.parent.Write(); err != nil {
		return err
	}
	for _, op := range b.pending {
		b.changes[string(op.Key)] = op.Value
	}
	b.pending = nil
	return nil
}
