package harbor

import (
	"encoding/json"

	"github.com/safeharbor/harbor/errors"
)

// Handler executes the messages of one kind, for example escrow/make.
//
// Check is a cheap validation run before a transaction is accepted.
// Deliver executes it. Both get the state through db and must leave it
// untouched when they return an error.
type Handler interface {
	Checker
	Deliverer
}

type Checker interface {
	Check(ctx Context, db KVStore, tx Tx) (*CheckResult, error)
}

type Deliverer interface {
	Deliver(ctx Context, db KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around a handler to provide a concern shared by all
// messages, such as authentication. It calls next to continue the chain.
type Decorator interface {
	Check(ctx Context, db KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, db KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry binds messages to the handler executing them.
type Registry interface {
	// Handle routes every message with the path of msg to h.
	Handle(msg Msg, h Handler)
}

// CheckResult is returned by a successful Check.
type CheckResult struct {
	Log string
	// GasAllocated bounds the work Deliver may do.
	GasAllocated int64
}

// DeliverResult is returned by a successful Deliver.
type DeliverResult struct {
	// Data is the machine readable result, such as the id of a created
	// entity.
	Data []byte
	Log  string
}

// Options is the application state of a genesis file, one raw JSON value
// per extension.
type Options map[string]json.RawMessage

// ReadOptions decodes the value of key into obj. A missing key leaves obj
// untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "%s options: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(opts Options, db KVStore) error
}

// ChainInitializers returns an Initializer calling all given ones in order,
// stopping at the first failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (all initializers) FromGenesis(opts Options, db KVStore) error {
	for _, i := range all {
		if err := i.FromGenesis(opts, db); err != nil {
			return err
		}
	}
	return nil
}
