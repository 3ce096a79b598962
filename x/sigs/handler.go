package sigs

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x"
)

// RegisterRoutes routes BumpSequenceMsg.
func RegisterRoutes(r harbor.Registry, auth x.Authenticator) {
	r.Handle(&BumpSequenceMsg{}, &bumpSequenceHandler{auth: auth, bucket: NewBucket()})
}

// bumpSequenceHandler lets a signer skip sequence values, invalidating
// every transaction signed with them.
type bumpSequenceHandler struct {
	auth   x.Authenticator
	bucket Bucket
}

func (h *bumpSequenceHandler) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	if _, _, err := h.load(ctx, db, tx); err != nil {
		return nil, err
	}
	return &harbor.CheckResult{}, nil
}

func (h *bumpSequenceHandler) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	msg, user, err := h.load(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	// The decorator already consumed one value.
	if msg.Increment > 1 {
		user.Sequence += int64(msg.Increment) - 1
		if err := h.bucket.Put(db, user.Pubkey.Address(), user); err != nil {
			return nil, errors.Wrap(err, "save signer")
		}
	}
	return &harbor.DeliverResult{}, nil
}

func (h *bumpSequenceHandler) load(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*BumpSequenceMsg, *UserData, error) {
	var msg BumpSequenceMsg
	if err := harbor.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	signer := x.MainSigner(ctx, h.auth)
	if signer == nil {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "not signed")
	}
	var user UserData
	if err := h.bucket.One(db, signer.Address(), &user); err != nil {
		return nil, nil, errors.Wrap(err, "signer sequence")
	}
	if user.Sequence+int64(msg.Increment) > maxSequenceValue {
		return nil, nil, errors.Wrap(errors.ErrOverflow, "signer sequence")
	}
	return &msg, &user, nil
}
