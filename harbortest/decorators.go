package harbortest

import "github.com/safeharbor/harbor"

// Decorator is a harbor.Decorator mock. Unless an error is configured, the
// call is passed down to the next handler. Every call is counted, including
// the failing ones.
type Decorator struct {
	calls

	// CheckErr is returned by Check instead of calling the next checker.
	CheckErr error
	// DeliverErr is returned by Deliver instead of calling the next
	// deliverer.
	DeliverErr error
}

var _ harbor.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Checker) (*harbor.CheckResult, error) {
	d.check++
	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Deliverer) (*harbor.DeliverResult, error) {
	d.deliver++
	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

// Decorate wraps h with d.
func Decorate(h harbor.Handler, d harbor.Decorator) harbor.Handler {
	return decorated{handler: h, decorator: d}
}

type decorated struct {
	handler   harbor.Handler
	decorator harbor.Decorator
}

func (d decorated) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	return d.decorator.Check(ctx, db, tx, d.handler)
}

func (d decorated) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	return d.decorator.Deliver(ctx, db, tx, d.handler)
}
