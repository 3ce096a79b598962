package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// ModelBucket stores models of a single type.
type ModelBucket interface {
	// One loads the model stored under key into dest. ErrNotFound is
	// returned if there is no such model.
	One(db harbor.ReadOnlyKVStore, key []byte, dest Model) error

	// ByIndex appends to dest all models indexed under key by the named
	// index and returns their primary keys, in ascending order. dest is
	// not modified if nothing is found.
	ByIndex(db harbor.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error)

	// Has returns nil if a model is stored under key, ErrNotFound
	// otherwise.
	Has(db harbor.ReadOnlyKVStore, key []byte) error

	// Put validates and saves the model, replacing the previous one.
	Put(db harbor.KVStore, key []byte, m Model) error

	// Delete removes the model stored under key. ErrNotFound is returned
	// if there is no such model.
	Delete(db harbor.KVStore, key []byte) error
}

// ModelBucketOption configures a bucket created by NewModelBucket.
type ModelBucketOption func(*modelBucket)

// WithIndex maintains an index with given name, computed by indexer. A
// unique index rejects a second model with the same value.
func WithIndex(name string, indexer Indexer, unique bool) ModelBucketOption {
	return func(b *modelBucket) {
		if _, ok := b.indexes[name]; ok {
			panic(fmt.Sprintf("index %q registered twice", name))
		}
		b.indexes[name] = newIndex(b.name+"_"+name, indexer, unique)
	}
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// NewModelBucket returns a bucket storing models of the same type as m.
// The name is the key prefix of all stored models and must be unique.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	b := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   reflect.TypeOf(m),
		indexes: make(map[string]*index),
	}
	for _, fn := range opts {
		fn(b)
	}
	return b
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]*index
}

var _ ModelBucket = (*modelBucket)(nil)

func (b *modelBucket) dbKey(key []byte) []byte {
	k := make([]byte, 0, len(b.prefix)+len(key))
	return append(append(k, b.prefix...), key...)
}

// load returns the model stored under key or nil.
func (b *modelBucket) load(db harbor.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(b.dbKey(key))
	if err != nil || raw == nil {
		return nil, err
	}
	m := reflect.New(b.model.Elem()).Interface().(Model)
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "unmarshal %s", b.name)
	}
	return m, nil
}

func (b *modelBucket) One(db harbor.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != b.model {
		return errors.Wrapf(errors.ErrInvalidType, "%s bucket cannot load into %T", b.name, dest)
	}
	m, err := b.load(db, key)
	if err != nil {
		return err
	}
	if m == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	reflect.ValueOf(dest).Elem().Set(reflect.ValueOf(m).Elem())
	return nil
}

func (b *modelBucket) ByIndex(db harbor.ReadOnlyKVStore, indexName string, key []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := b.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "%s bucket has no %q index", b.name, indexName)
	}
	slice, ptrs, err := b.destination(dest)
	if err != nil {
		return nil, err
	}
	refs, err := idx.keys(db, key)
	if err != nil {
		return nil, err
	}

	var keys [][]byte
	for _, ref := range refs {
		m, err := b.load(db, ref)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, errors.Wrapf(errors.ErrInvalidState, "%s index references missing %X", idx.name, ref)
		}
		v := reflect.ValueOf(m)
		if !ptrs {
			v = v.Elem()
		}
		slice.Set(reflect.Append(slice, v))
		keys = append(keys, ref)
	}
	return keys, nil
}

// destination returns the slice dest points to and whether it holds
// pointers.
func (b *modelBucket) destination(dest ModelSlicePtr) (reflect.Value, bool, error) {
	v := reflect.ValueOf(dest)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Slice {
		return reflect.Value{}, false, errors.Wrapf(errors.ErrInvalidType, "want a pointer to a slice of models, got %T", dest)
	}
	switch v.Elem().Type().Elem() {
	case b.model:
		return v.Elem(), true, nil
	case b.model.Elem():
		return v.Elem(), false, nil
	default:
		return reflect.Value{}, false, errors.Wrapf(errors.ErrInvalidType, "%s bucket cannot load into %T", b.name, dest)
	}
}

func (b *modelBucket) Has(db harbor.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(b.dbKey(key))
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	return nil
}

func (b *modelBucket) Put(db harbor.KVStore, key []byte, m Model) error {
	if reflect.TypeOf(m) != b.model {
		return errors.Wrapf(errors.ErrInvalidModel, "cannot store %T in %s bucket", m, b.name)
	}
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key is required")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal %s", b.name)
	}
	if len(b.indexes) != 0 {
		prev, err := b.load(db, key)
		if err != nil {
			return err
		}
		for _, idx := range b.indexes {
			if err := idx.update(db, key, prev, m); err != nil {
				return err
			}
		}
	}
	return db.Set(b.dbKey(key), raw)
}

func (b *modelBucket) Delete(db harbor.KVStore, key []byte) error {
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	for _, idx := range b.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return err
		}
	}
	return db.Delete(b.dbKey(key))
}
