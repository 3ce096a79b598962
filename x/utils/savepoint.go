package utils

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// Savepoint runs the wrapped handler on a cache wrap of the state, which
// is written only if the handler succeeds. It is disabled until OnCheck or
// OnDeliver enables it for a phase.
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ harbor.Decorator = Savepoint{}

func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a copy enabled for Check.
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a copy enabled for Deliver.
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

func (s Savepoint) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Checker) (*harbor.CheckResult, error) {
	var res *harbor.CheckResult
	err := withSavepoint(s.onCheck, db, func(db harbor.KVStore) (err error) {
		res, err = next.Check(ctx, db, tx)
		return err
	})
	return res, err
}

func (s Savepoint) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Deliverer) (*harbor.DeliverResult, error) {
	var res *harbor.DeliverResult
	err := withSavepoint(s.onDeliver, db, func(db harbor.KVStore) (err error) {
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	return res, err
}

// withSavepoint passes db through when disabled or when db cannot be cache
// wrapped.
func withSavepoint(enabled bool, db harbor.KVStore, fn func(harbor.KVStore) error) error {
	cacheable, ok := db.(harbor.CacheableKVStore)
	if !enabled || !ok {
		return fn(db)
	}

	cache := cacheable.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write savepoint")
	}
	return nil
}
