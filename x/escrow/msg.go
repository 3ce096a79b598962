package escrow

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/errors"
)

const (
	pathMakeMsg   = "escrow/make"
	pathTakeMsg   = "escrow/take"
	pathRefundMsg = "escrow/refund"
)

var (
	_ harbor.Msg = (*MakeMsg)(nil)
	_ harbor.Msg = (*TakeMsg)(nil)
	_ harbor.Msg = (*RefundMsg)(nil)
)

// MakeMsg opens a new escrow. Escrow and Vault must be the addresses
// derived for the maker and seed, see EscrowAddress and VaultAddress.
type MakeMsg struct {
	// Maker defaults to the main signer.
	Maker   harbor.Address `protobuf:"bytes,1,opt,name=maker,proto3" json:"maker,omitempty"`
	Seed    uint64         `protobuf:"varint,2,opt,name=seed,proto3" json:"seed"`
	AssetA  string         `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	AssetB  string         `protobuf:"bytes,4,opt,name=asset_b,json=assetB,proto3" json:"asset_b"`
	Deposit uint64         `protobuf:"varint,5,opt,name=deposit,proto3" json:"deposit"`
	Receive uint64         `protobuf:"varint,6,opt,name=receive,proto3" json:"receive"`
	Escrow  harbor.Address `protobuf:"bytes,7,opt,name=escrow,proto3" json:"escrow"`
	Vault   harbor.Address `protobuf:"bytes,8,opt,name=vault,proto3" json:"vault"`
}

func (MakeMsg) Path() string {
	return pathMakeMsg
}

func (m *MakeMsg) Validate() error {
	if len(m.Maker) != 0 {
		if err := m.Maker.Validate(); err != nil {
			return errors.Wrap(err, "maker")
		}
	}
	if err := validateAssets(m.AssetA, m.AssetB); err != nil {
		return err
	}
	if m.Deposit == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "deposit must be positive")
	}
	if m.Receive == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive must be positive")
	}
	if err := m.Escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := m.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}

func (m *MakeMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*makeMsg)(m))
}

func (m *MakeMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*makeMsg)(m))
}

// TakeMsg pays the asked amount to the maker and receives the vault
// content.
type TakeMsg struct {
	// Taker defaults to the main signer.
	Taker  harbor.Address `protobuf:"bytes,1,opt,name=taker,proto3" json:"taker,omitempty"`
	Escrow harbor.Address `protobuf:"bytes,2,opt,name=escrow,proto3" json:"escrow"`
	Vault  harbor.Address `protobuf:"bytes,3,opt,name=vault,proto3" json:"vault"`
}

func (TakeMsg) Path() string {
	return pathTakeMsg
}

func (m *TakeMsg) Validate() error {
	if len(m.Taker) != 0 {
		if err := m.Taker.Validate(); err != nil {
			return errors.Wrap(err, "taker")
		}
	}
	return validateRefs(m.Escrow, m.Vault)
}

func (m *TakeMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*takeMsg)(m))
}

func (m *TakeMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*takeMsg)(m))
}

// RefundMsg cancels the escrow and returns the vault content to the maker.
type RefundMsg struct {
	Escrow harbor.Address `protobuf:"bytes,1,opt,name=escrow,proto3" json:"escrow"`
	Vault  harbor.Address `protobuf:"bytes,2,opt,name=vault,proto3" json:"vault"`
}

func (RefundMsg) Path() string {
	return pathRefundMsg
}

func (m *RefundMsg) Validate() error {
	return validateRefs(m.Escrow, m.Vault)
}

func (m *RefundMsg) Marshal() ([]byte, error) {
	return codec.Marshal((*refundMsg)(m))
}

func (m *RefundMsg) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*refundMsg)(m))
}

func validateRefs(escrow, vault harbor.Address) error {
	if err := escrow.Validate(); err != nil {
		return errors.Wrap(err, "escrow")
	}
	if err := vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	return nil
}

// Wire forms of the messages, without the codec methods.
type (
	makeMsg   MakeMsg
	takeMsg   TakeMsg
	refundMsg RefundMsg
)

func (m *makeMsg) Reset()         { *m = makeMsg{} }
func (m *makeMsg) String() string { return codec.Text(m) }
func (*makeMsg) ProtoMessage()    {}

func (m *takeMsg) Reset()         { *m = takeMsg{} }
func (m *takeMsg) String() string { return codec.Text(m) }
func (*takeMsg) ProtoMessage()    {}

func (m *refundMsg) Reset()         { *m = refundMsg{} }
func (m *refundMsg) String() string { return codec.Text(m) }
func (*refundMsg) ProtoMessage()    {}
