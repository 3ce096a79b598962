package cash

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x"
)

// RegisterRoutes routes SendMsg.
func RegisterRoutes(r harbor.Registry, auth x.Authenticator, control Controller) {
	r.Handle(&SendMsg{}, NewSendHandler(auth, control))
}

// SendHandler moves coins between two accounts on behalf of the source
// owner.
type SendHandler struct {
	auth    x.Authenticator
	control Controller
}

var _ harbor.Handler = SendHandler{}

func NewSendHandler(auth x.Authenticator, control Controller) SendHandler {
	return SendHandler{auth: auth, control: control}
}

func (h SendHandler) Check(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	if _, err := h.authorized(ctx, tx); err != nil {
		return nil, err
	}
	return &harbor.CheckResult{GasAllocated: sendTxCost}, nil
}

func (h SendHandler) Deliver(ctx harbor.Context, db harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	msg, err := h.authorized(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.control.MoveCoins(db, msg.Source, msg.Destination, *msg.Amount); err != nil {
		return nil, errors.Wrap(err, "send")
	}
	return &harbor.DeliverResult{}, nil
}

// authorized loads the message and requires the signature of the source
// owner.
func (h SendHandler) authorized(ctx harbor.Context, tx harbor.Tx) (*SendMsg, error) {
	var msg SendMsg
	if err := harbor.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Source) {
		return nil, errors.Wrapf(errors.ErrUnauthorized, "source %s did not sign", msg.Source)
	}
	return &msg, nil
}
