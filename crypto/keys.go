/*
Package crypto provides the ed25519 keys used to sign transactions.

A public key is turned into a harbor.Condition, and the condition into an
address. Signer addresses are hashes, never raw curve points, which is what
keeps them apart from derived program addresses.
*/
package crypto

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/errors"
	"golang.org/x/crypto/ed25519"
)

// ExtensionName is used for the Conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() harbor.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey is an ed25519 public key.
type PublicKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

var _ PubKey = (*PublicKey)(nil)

// Verify verifies the signature was created with this message and public key
func (p *PublicKey) Verify(message []byte, sig *Signature) bool {
	if p == nil || sig == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return false
	}
	if len(sig.Ed25519) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(p.Ed25519), message, sig.Ed25519)
}

// Condition encodes the public key into a harbor condition
func (p *PublicKey) Condition() harbor.Condition {
	if p == nil || len(p.Ed25519) == 0 {
		return nil
	}
	return harbor.NewCondition(ExtensionName, "ed25519", p.Ed25519)
}

// Address returns the address this key signs for.
func (p *PublicKey) Address() harbor.Address {
	return p.Condition().Address()
}

// Validate ensures the key has the right size.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) != ed25519.PublicKeySize {
		return errors.Wrap(errors.ErrInvalidInput, "ed25519 public key")
	}
	return nil
}

func (p *PublicKey) Marshal() ([]byte, error) {
	return codec.Marshal((*publicKeyMsg)(p))
}

func (p *PublicKey) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*publicKeyMsg)(p))
}

// PrivateKey is an ed25519 private key.
type PrivateKey struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

var _ Signer = (*PrivateKey)(nil)

// GenPrivKeyEd25519 creates a new random key. Panics if the system
// randomness is unavailable.
func GenPrivKeyEd25519() *PrivateKey {
	_, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		panic(err)
	}
	return &PrivateKey{Ed25519: priv}
}

// PrivKeyEd25519FromSeed deterministically generates a private key from a
// 32 byte seed. Panics on any other seed length.
func PrivKeyEd25519FromSeed(seed []byte) *PrivateKey {
	return &PrivateKey{Ed25519: ed25519.NewKeyFromSeed(seed)}
}

// Sign returns a matching signature for this private key
func (p *PrivateKey) Sign(message []byte) (*Signature, error) {
	if len(p.Ed25519) != ed25519.PrivateKeySize {
		return nil, errors.Wrap(errors.ErrInvalidInput, "ed25519 private key")
	}
	bz := ed25519.Sign(ed25519.PrivateKey(p.Ed25519), message)
	return &Signature{Ed25519: bz}, nil
}

// PublicKey returns the corresponding PublicKey
func (p *PrivateKey) PublicKey() *PublicKey {
	pub := ed25519.PrivateKey(p.Ed25519).Public().(ed25519.PublicKey)
	return &PublicKey{Ed25519: pub}
}

func (p *PrivateKey) Marshal() ([]byte, error) {
	return codec.Marshal((*privateKeyMsg)(p))
}

func (p *PrivateKey) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*privateKeyMsg)(p))
}

// Signature is an ed25519 signature.
type Signature struct {
	Ed25519 []byte `protobuf:"bytes,1,opt,name=ed25519,proto3"`
}

func (s *Signature) Marshal() ([]byte, error) {
	return codec.Marshal((*signatureMsg)(s))
}

func (s *Signature) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*signatureMsg)(s))
}

// Wire forms of the key types, without the codec methods.
type (
	publicKeyMsg  PublicKey
	privateKeyMsg PrivateKey
	signatureMsg  Signature
)

func (m *publicKeyMsg) Reset()          { *m = publicKeyMsg{} }
func (m *publicKeyMsg) String() string  { return codec.Text(m) }
func (*publicKeyMsg) ProtoMessage()     {}
func (m *privateKeyMsg) Reset()         { *m = privateKeyMsg{} }
func (m *privateKeyMsg) String() string { return "ed25519 private key" }
func (*privateKeyMsg) ProtoMessage()    {}
func (m *signatureMsg) Reset()          { *m = signatureMsg{} }
func (m *signatureMsg) String() string  { return codec.Text(m) }
func (*signatureMsg) ProtoMessage()     {}
