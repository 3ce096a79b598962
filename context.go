package harbor

import (
	"context"
	"fmt"
	"regexp"

	"github.com/tendermint/tendermint/libs/log"
)

// Context carries the request scoped values of a transaction: chain id,
// height, logger, and the signers added by the sigs decorator.
//
// Values describing the ledger are set once, by the ledger. Setting them
// again panics so that no handler can fake them.
type Context = context.Context

type ctxKey int

const (
	ctxHeight ctxKey = iota
	ctxChainID
	ctxLogger
)

// DefaultLogger is returned by GetLogger when the context has none.
var DefaultLogger = log.NewNopLogger()

// IsValidChainID returns true for 6 to 20 letters, digits, dashes or
// underscores.
var IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString

// WithHeight sets the height of the version being built. It panics if
// the height is already set.
func WithHeight(ctx Context, height int64) Context {
	if h, ok := GetHeight(ctx); ok {
		panic(fmt.Sprintf("height already set to %d", h))
	}
	return context.WithValue(ctx, ctxHeight, height)
}

// GetHeight returns the height, false if it was not set.
func GetHeight(ctx Context) (int64, bool) {
	h, ok := ctx.Value(ctxHeight).(int64)
	return h, ok
}

// WithChainID sets the chain id. It panics if the chain id is already set
// or is not valid.
func WithChainID(ctx Context, chainID string) Context {
	if prev, ok := ctx.Value(ctxChainID).(string); ok {
		panic(fmt.Sprintf("chain id already set to %q", prev))
	}
	if !IsValidChainID(chainID) {
		panic(fmt.Sprintf("invalid chain id %q", chainID))
	}
	return context.WithValue(ctx, ctxChainID, chainID)
}

// GetChainID returns the chain id. Every context built by the ledger has
// one, a missing chain id panics.
func GetChainID(ctx Context) string {
	chainID, ok := ctx.Value(ctxChainID).(string)
	if !ok {
		panic("chain id not set")
	}
	return chainID
}

func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, ctxLogger, logger)
}

// WithLogInfo returns a context whose logger adds keyvals to every entry.
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	return WithLogger(ctx, GetLogger(ctx).With(keyvals...))
}

// GetLogger returns the logger of ctx or DefaultLogger.
func GetLogger(ctx Context) log.Logger {
	if l, ok := ctx.Value(ctxLogger).(log.Logger); ok {
		return l
	}
	return DefaultLogger
}
