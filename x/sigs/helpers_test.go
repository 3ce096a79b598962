package sigs

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/harbortest"
)

// StdTx is a signed transaction carrying an opaque payload.
type StdTx struct {
	harbortest.Tx
	Payload    []byte
	Signatures []*StdSignature
}

var _ SignedTx = (*StdTx)(nil)
var _ harbor.Tx = (*StdTx)(nil)

func NewStdTx(payload []byte) *StdTx {
	return &StdTx{
		Tx:      harbortest.Tx{Msg: &harbortest.Msg{RoutePath: "test/sigs", Serialized: payload}},
		Payload: payload,
	}
}

func (tx *StdTx) GetSignatures() []*StdSignature {
	return tx.Signatures
}

func (tx *StdTx) GetSignBytes() ([]byte, error) {
	return tx.Payload, nil
}

// SigCheckHandler stores the seen signers on each call
type SigCheckHandler struct {
	Signers []harbor.Condition
}

var _ harbor.Handler = (*SigCheckHandler)(nil)

func (s *SigCheckHandler) Check(ctx harbor.Context, store harbor.KVStore, tx harbor.Tx) (*harbor.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &harbor.CheckResult{}, nil
}

func (s *SigCheckHandler) Deliver(ctx harbor.Context, store harbor.KVStore, tx harbor.Tx) (*harbor.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &harbor.DeliverResult{}, nil
}
