package utils

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// Recovery turns a panic of the wrapped handler into an ErrPanic error and
// logs it. Place it before any decorator that must see handler failures
// as errors.
type Recovery struct{}

var _ harbor.Decorator = Recovery{}

func NewRecovery() Recovery {
	return Recovery{}
}

func (Recovery) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Checker) (res *harbor.CheckResult, err error) {
	defer recoverInto(ctx, &err)
	return next.Check(ctx, db, tx)
}

func (Recovery) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Deliverer) (res *harbor.DeliverResult, err error) {
	defer recoverInto(ctx, &err)
	return next.Deliver(ctx, db, tx)
}

// recoverInto must be deferred directly for recover to work.
func recoverInto(ctx harbor.Context, err *error) {
	r := recover()
	if r == nil {
		return
	}
	*err = errors.Wrapf(errors.ErrPanic, "%v", r)
	harbor.GetLogger(ctx).Error("recovered from panic", "err", *err)
}
