package utils

import (
	"time"

	"github.com/safeharbor/harbor"
)

// Logging writes one entry per handled transaction with its path, its
// duration in microseconds and its outcome. Failures are logged as errors,
// delivered transactions as info and checked ones as debug.
type Logging struct{}

var _ harbor.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Checker) (*harbor.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	entry := logEntry{start: start, err: err, debug: true}
	if err == nil {
		entry.msg = res.Log
	}
	entry.write(ctx, tx)
	return res, err
}

func (Logging) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Deliverer) (*harbor.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	entry := logEntry{start: start, err: err}
	if err == nil {
		entry.msg = res.Log
	}
	entry.write(ctx, tx)
	return res, err
}

type logEntry struct {
	start time.Time
	msg   string
	err   error
	debug bool
}

// write emits the entry even when msg is empty.
func (e logEntry) write(ctx harbor.Context, tx harbor.Tx) {
	logger := harbor.GetLogger(ctx).With("duration", time.Since(e.start).Microseconds())
	if tx != nil {
		logger = logger.With("path", harbor.GetPath(tx))
	}
	switch {
	case e.err != nil:
		logger.Error(e.msg, "err", e.err)
	case e.debug:
		logger.Debug(e.msg)
	default:
		logger.Info(e.msg)
	}
}
