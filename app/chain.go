package app

import (
	"reflect"

	"github.com/safeharbor/harbor"
)

// Decorators is an ordered list of decorators waiting for the handler
// they wrap. The first decorator runs first.
//
//	app.ChainDecorators(
//		utils.NewLogging(),
//		utils.NewRecovery(),
//		sigs.NewDecorator(),
//	).WithHandler(router)
type Decorators struct {
	chain []harbor.Decorator
}

// ChainDecorators returns the list of given decorators. Nil values are
// skipped, which allows optional decorators to be listed inline.
func ChainDecorators(ds ...harbor.Decorator) Decorators {
	return Decorators{}.Chain(ds...)
}

// Chain returns a list extended with given decorators. The receiver is not
// modified.
func (d Decorators) Chain(ds ...harbor.Decorator) Decorators {
	chain := make([]harbor.Decorator, 0, len(d.chain)+len(ds))
	chain = append(chain, d.chain...)
	for _, dec := range ds {
		if !isNil(dec) {
			chain = append(chain, dec)
		}
	}
	return Decorators{chain: chain}
}

func isNil(d harbor.Decorator) bool {
	if d == nil {
		return true
	}
	v := reflect.ValueOf(d)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

// WithHandler returns a handler that passes every call through the whole
// list before reaching h.
func (d Decorators) WithHandler(h harbor.Handler) harbor.Handler {
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = decorated{decorator: d.chain[i], next: h}
	}
	return h
}

// decorated binds a decorator to the handler it wraps.
type decorated struct {
	decorator harbor.Decorator
	next      harbor.Handler
}

func (d decorated) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.next)
}
