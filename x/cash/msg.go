package cash

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
)

// Ensure we implement the Msg interface
var _ harbor.Msg = (*SendMsg)(nil)

const (
	sendTxCost int64 = 100

	maxMemoSize int = 128
)

// SendMsg transfers coins from the source wallet to the destination wallet.
type SendMsg struct {
	Source      harbor.Address `protobuf:"bytes,1,opt,name=source,proto3" json:"source"`
	Destination harbor.Address `protobuf:"bytes,2,opt,name=destination,proto3" json:"destination"`
	Amount      *coin.Coin     `protobuf:"bytes,3,opt,name=amount,proto3" json:"amount"`
	Memo        string         `protobuf:"bytes,4,opt,name=memo,proto3" json:"memo,omitempty"`
}

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (s *SendMsg) Validate() error {
	if coin.IsEmpty(s.Amount) || !s.Amount.IsPositive() {
		return errors.Wrapf(errors.ErrInvalidAmount, "non-positive SendMsg: %v", s.Amount)
	}
	if err := s.Amount.Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if err := s.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if err := s.Destination.Validate(); err != nil {
		return errors.Wrap(err, "destination")
	}
	if len(s.Memo) > maxMemoSize {
		return errors.Wrap(errors.ErrInvalidState, "memo too long")
	}
	return nil
}

func (s *SendMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*sendMsg)(s))
}

func (s *SendMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*sendMsg)(s))
}

type sendMsg SendMsg

func (m *sendMsg) Reset()         { *m = sendMsg{} }
func (m *sendMsg) String() string { return codec.Text(m) }
func (*sendMsg) ProtoMessage()    {}
