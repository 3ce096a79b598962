package orm

import (
	"bytes"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// Indexer returns the value a model is indexed under. A nil value means the
// model is not indexed.
type Indexer func(Model) ([]byte, error)

const indexPrefix = "_i."

// index stores, under every indexed value, the primary key of the model
// (unique index) or a MultiRef of all primary keys (non unique index).
type index struct {
	name    string
	prefix  []byte
	indexer Indexer
	unique  bool
}

func newIndex(name string, indexer Indexer, unique bool) *index {
	return &index{
		name:    name,
		prefix:  []byte(indexPrefix + name + ":"),
		indexer: indexer,
		unique:  unique,
	}
}

func (i *index) dbKey(value []byte) []byte {
	k := make([]byte, 0, len(i.prefix)+len(value))
	return append(append(k, i.prefix...), value...)
}

func (i *index) value(m Model) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	v, err := i.indexer(m)
	if err != nil {
		return nil, errors.Wrapf(err, "%s index", i.name)
	}
	return v, nil
}

// update moves pk from the value of prev to the value of next. A nil prev
// is an insert, a nil next is a delete.
func (i *index) update(db harbor.KVStore, pk []byte, prev, next Model) error {
	from, err := i.value(prev)
	if err != nil {
		return err
	}
	to, err := i.value(next)
	if err != nil {
		return err
	}
	if bytes.Equal(from, to) {
		return nil
	}
	if len(from) != 0 {
		if err := i.remove(db, from, pk); err != nil {
			return err
		}
	}
	if len(to) != 0 {
		if err := i.insert(db, to, pk); err != nil {
			return err
		}
	}
	return nil
}

// keys returns the primary keys indexed under value, in ascending order.
func (i *index) keys(db harbor.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	raw, err := db.Get(i.dbKey(value))
	if err != nil || raw == nil {
		return nil, err
	}
	if i.unique {
		return [][]byte{raw}, nil
	}
	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return nil, errors.Wrapf(err, "%s index", i.name)
	}
	return refs.Refs, nil
}

func (i *index) insert(db harbor.KVStore, value, pk []byte) error {
	key := i.dbKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if i.unique {
		if raw != nil {
			return errors.Wrapf(errors.ErrDuplicate, "%s index", i.name)
		}
		return db.Set(key, pk)
	}

	var refs MultiRef
	if raw != nil {
		if err := refs.Unmarshal(raw); err != nil {
			return errors.Wrapf(err, "%s index", i.name)
		}
	}
	if err := refs.Add(pk); err != nil {
		return err
	}
	return i.save(db, key, &refs)
}

func (i *index) remove(db harbor.KVStore, value, pk []byte) error {
	key := i.dbKey(value)
	raw, err := db.Get(key)
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s index has no %X entry", i.name, value)
	}
	if i.unique {
		if !bytes.Equal(raw, pk) {
			return errors.Wrapf(errors.ErrNotFound, "%s index entry %X belongs to another model", i.name, value)
		}
		return db.Delete(key)
	}

	var refs MultiRef
	if err := refs.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "%s index", i.name)
	}
	if err := refs.Remove(pk); err != nil {
		return err
	}
	if len(refs.Refs) == 0 {
		return db.Delete(key)
	}
	return i.save(db, key, &refs)
}

func (i *index) save(db harbor.KVStore, key []byte, refs *MultiRef) error {
	raw, err := refs.Marshal()
	if err != nil {
		return err
	}
	return db.Set(key, raw)
}
