package sigs

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/errors"
)

const (
	pathBumpSequenceMsg = "sigs/bump_sequence"

	maxSequenceIncrement = 1000
	minSequenceIncrement = 1
)

// BumpSequenceMsg increments the sequence of the main signer by given
// value. This invalidates every transaction signed with a skipped sequence.
type BumpSequenceMsg struct {
	Increment uint32 `protobuf:"varint,1,opt,name=increment,proto3" json:"increment"`
}

var _ harbor.Msg = (*BumpSequenceMsg)(nil)

func (msg *BumpSequenceMsg) Validate() error {
	if msg.Increment < minSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must be at least %d", minSequenceIncrement)
	}
	if msg.Increment > maxSequenceIncrement {
		return errors.Wrapf(errors.ErrInvalidMsg, "increment must not be greater than %d", maxSequenceIncrement)
	}
	return nil
}

func (BumpSequenceMsg) Path() string {
	return pathBumpSequenceMsg
}

func (msg *BumpSequenceMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*bumpSequenceMsg)(msg))
}

func (msg *BumpSequenceMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*bumpSequenceMsg)(msg))
}

type bumpSequenceMsg BumpSequenceMsg

func (m *bumpSequenceMsg) Reset()         { *m = bumpSequenceMsg{} }
func (m *bumpSequenceMsg) String() string { return codec.Text(m) }
func (*bumpSequenceMsg) ProtoMessage()    {}
