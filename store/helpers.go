package store

import (
	"github.com/safeharbor/harbor/errors"
)

// Model is a single key value pair.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns a model holding given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// sliceIterator iterates over an ordered list of models.
type sliceIterator struct {
	models []Model
}

func (s *sliceIterator) Next() (key, value []byte, err error) {
	if len(s.models) == 0 {
		return nil, nil, errors.Wrap(errors.ErrIteratorDone, "slice")
	}
	m := s.models[0]
	s.models = s.models[1:]
	return m.Key, m.Value, nil
}

func (s *sliceIterator) Release() {
	s.models = nil
}

// EmptyKVStore holds no data and ignores all writes. It is the bottom
// layer of MemStore.
type EmptyKVStore struct{}

var _ KVStore = EmptyKVStore{}

func (EmptyKVStore) Get([]byte) ([]byte, error)  { return nil, nil }
func (EmptyKVStore) Has([]byte) (bool, error)    { return false, nil }
func (EmptyKVStore) Set(key, value []byte) error { return nil }
func (EmptyKVStore) Delete([]byte) error         { return nil }
func (e EmptyKVStore) NewBatch() Batch           { return NewNonAtomicBatch(e) }
func (EmptyKVStore) Iterator(start, end []byte) (Iterator, error) {
	return &sliceIterator{}, nil
}

// Op is a single buffered write. Deleted is set for a delete operation,
// Value is nil then.
type Op struct {
	Key     []byte
	Value   []byte
	Deleted bool
}

func (o Op) apply(out SetDeleter) error {
	if o.Deleted {
		return out.Delete(o.Key)
	}
	return out.Set(o.Key, o.Value)
}

// NonAtomicBatch buffers operations and replays them one by one on Write.
// A failure in the middle of Write leaves the output partially written, so
// it must only be used on top of in memory stores.
type NonAtomicBatch struct {
	out SetDeleter
	ops []Op
}

var _ Batch = (*NonAtomicBatch)(nil)

// NewNonAtomicBatch returns an empty batch writing to out.
func NewNonAtomicBatch(out SetDeleter) *NonAtomicBatch {
	return &NonAtomicBatch{out: out}
}

func (b *NonAtomicBatch) Set(key, value []byte) error {
	b.ops = append(b.ops, Op{Key: key, Value: value})
	return nil
}

func (b *NonAtomicBatch) Delete(key []byte) error {
	b.ops = append(b.ops, Op{Key: key, Deleted: true})
	return nil
}

func (b *NonAtomicBatch) Write() error {
	for i, op := range b.ops {
		if err := op.apply(b.out); err != nil {
			b.ops = b.ops[i:]
			return errors.Wrapf(err, "operation %d", i)
		}
	}
	b.ops = nil
	return nil
}

// ShowOps returns the operations that were not written yet.
func (b *NonAtomicBatch) ShowOps() []Op {
	return b.ops
}
