/*
Package sigs authenticates transactions by their ed25519 signatures.

Every signature carries the sequence of its signer, which is consumed when
the signature is verified, so a signed transaction cannot be replayed.
Handlers read the verified signers through Authenticate.
*/
package sigs

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

// Gas charged by Check for every verified signature.
const signatureVerifyCost = 500

// Decorator verifies the signatures of a SignedTx and exposes the signers
// to the rest of the chain. Transactions of other types pass through
// unauthenticated.
type Decorator struct {
	optional bool
}

var _ harbor.Decorator = Decorator{}

// NewDecorator returns a decorator rejecting signed transactions that
// carry no signature.
func NewDecorator() Decorator {
	return Decorator{}
}

// AllowMissingSigs returns a copy accepting transactions without
// signatures.
func (d Decorator) AllowMissingSigs() Decorator {
	return Decorator{optional: true}
}

func (d Decorator) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Checker) (*harbor.CheckResult, error) {
	ctx, n, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res, err := next.Check(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	res.GasAllocated += int64(n) * signatureVerifyCost
	return res, nil
}

func (d Decorator) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx, next harbor.Deliverer) (*harbor.DeliverResult, error) {
	ctx, _, err := d.authenticate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	return next.Deliver(ctx, db, tx)
}

// authenticate returns ctx carrying the signers of tx and their count.
func (d Decorator) authenticate(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (harbor.Context, int, error) {
	signed, ok := tx.(SignedTx)
	if !ok {
		return ctx, 0, nil
	}
	signers, err := verifyAll(db, signed, harbor.GetChainID(ctx))
	if err != nil {
		return nil, 0, errors.Wrap(err, "verify signatures")
	}
	if len(signers) == 0 && !d.optional {
		return nil, 0, errors.Wrap(errors.ErrUnauthorized, "not signed")
	}
	return withSigners(ctx, signers), len(signers), nil
}
