package harborapp

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x/cash"
	"github.com/safeharbor/harbor/x/escrow"
	"github.com/safeharbor/harbor/x/sigs"
)

// Tx is the transaction format of the harbor ledger: exactly one message
// and the signatures authorizing it.
type Tx struct {
	Msg        harbor.Msg
	Signatures []*sigs.StdSignature
}

var _ harbor.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// txWire is the protobuf layout of a Tx. At most one message field is
// set, like a protobuf one-of.
type txWire struct {
	SendMsg                   *cash.SendMsg                  `protobuf:"bytes,1,opt,name=send_msg,json=sendMsg,proto3"`
	MakeMsg                   *escrow.MakeMsg                `protobuf:"bytes,2,opt,name=make_msg,json=makeMsg,proto3"`
	TakeMsg                   *escrow.TakeMsg                `protobuf:"bytes,3,opt,name=take_msg,json=takeMsg,proto3"`
	RefundMsg                 *escrow.RefundMsg              `protobuf:"bytes,4,opt,name=refund_msg,json=refundMsg,proto3"`
	UpdateEscrowConfiguration *escrow.UpdateConfigurationMsg `protobuf:"bytes,5,opt,name=update_escrow_configuration,json=updateEscrowConfiguration,proto3"`
	BumpSequenceMsg           *sigs.BumpSequenceMsg          `protobuf:"bytes,6,opt,name=bump_sequence_msg,json=bumpSequenceMsg,proto3"`
	Signatures                []*sigs.StdSignature           `protobuf:"bytes,20,rep,name=signatures,proto3"`
}

func (m *txWire) Reset()         { *m = txWire{} }
func (m *txWire) String() string { return codec.Text(m) }
func (*txWire) ProtoMessage()    {}

// setMsg stores msg in its field.
func (m *txWire) setMsg(msg harbor.Msg) error {
	switch msg := msg.(type) {
	case nil:
	case *cash.SendMsg:
		m.SendMsg = msg
	case *escrow.MakeMsg:
		m.MakeMsg = msg
	case *escrow.TakeMsg:
		m.TakeMsg = msg
	case *escrow.RefundMsg:
		m.RefundMsg = msg
	case *escrow.UpdateConfigurationMsg:
		m.UpdateEscrowConfiguration = msg
	case *sigs.BumpSequenceMsg:
		m.BumpSequenceMsg = msg
	default:
		return errors.Wrapf(errors.ErrInvalidType, "unsupported message %T", msg)
	}
	return nil
}

// msg returns the message that is set. Nil fields are skipped explicitly,
// a typed nil would not compare equal to nil.
func (m *txWire) msg() (harbor.Msg, error) {
	var found []harbor.Msg
	if m.SendMsg != nil {
		found = append(found, m.SendMsg)
	}
	if m.MakeMsg != nil {
		found = append(found, m.MakeMsg)
	}
	if m.TakeMsg != nil {
		found = append(found, m.TakeMsg)
	}
	if m.RefundMsg != nil {
		found = append(found, m.RefundMsg)
	}
	if m.UpdateEscrowConfiguration != nil {
		found = append(found, m.UpdateEscrowConfiguration)
	}
	if m.BumpSequenceMsg != nil {
		found = append(found, m.BumpSequenceMsg)
	}
	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, errors.Wrap(errors.ErrInvalidMsg, "more than one message")
	}
}

// GetMsg returns the single message of this transaction.
func (tx *Tx) GetMsg() (harbor.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "no message")
	}
	return tx.Msg, nil
}

// GetSignatures implements sigs.SignedTx.
func (tx *Tx) GetSignatures() []*sigs.StdSignature {
	return tx.Signatures
}

// GetSignBytes returns the bytes to sign...
func (tx *Tx) GetSignBytes() ([]byte, error) {
	// temporarily unset the signatures, as the sign bytes
	// should only come from the data itself, not previous signatures
	signatures := tx.Signatures
	tx.Signatures = nil

	bz, err := tx.Marshal()

	// reset the signatures after calculating the bytes
	tx.Signatures = signatures
	return bz, err
}

func (tx *Tx) Marshal() ([]byte, error) {
	w := txWire{Signatures: tx.Signatures}
	if err := w.setMsg(tx.Msg); err != nil {
		return nil, err
	}
	return codec.Marshal(&w)
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var w txWire
	if err := codec.Unmarshal(raw, &w); err != nil {
		return err
	}
	msg, err := w.msg()
	if err != nil {
		return err
	}
	*tx = Tx{Msg: msg, Signatures: w.Signatures}
	return nil
}

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (harbor.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return tx, nil
}
