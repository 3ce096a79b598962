package escrow

import (
	"math"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/orm"
)

const (
	// BucketName is where escrow records are stored.
	BucketName = "escrow"
	// VaultBucketName is where vault custody records are stored.
	VaultBucketName = "vault"

	makerIndexName = "maker"
)

// Escrow holds the terms of a single open trade. It is keyed by its derived
// address and never updated after creation.
type Escrow struct {
	// Seed allows one maker to run many escrows at once.
	Seed  uint64         `protobuf:"varint,1,opt,name=seed,proto3" json:"seed"`
	Maker harbor.Address `protobuf:"bytes,2,opt,name=maker,proto3" json:"maker"`
	// AssetA is held in the vault, AssetB is what the maker asks for.
	AssetA        string `protobuf:"bytes,3,opt,name=asset_a,json=assetA,proto3" json:"asset_a"`
	AssetB        string `protobuf:"bytes,4,opt,name=asset_b,json=assetB,proto3" json:"asset_b"`
	ReceiveAmount uint64 `protobuf:"varint,5,opt,name=receive_amount,json=receiveAmount,proto3" json:"receive_amount"`
	// Bump makes the escrow address valid for the maker and seed. Bumps
	// are single bytes.
	Bump      uint32         `protobuf:"varint,6,opt,name=bump,proto3" json:"bump"`
	Vault     harbor.Address `protobuf:"bytes,7,opt,name=vault,proto3" json:"vault"`
	VaultBump uint32         `protobuf:"varint,8,opt,name=vault_bump,json=vaultBump,proto3" json:"vault_bump"`
	// Reserve is charged from the maker at creation and returned when
	// the escrow is closed.
	Reserve coin.Coins `protobuf:"bytes,9,rep,name=reserve,proto3" json:"reserve,omitempty"`
}

var _ orm.Model = (*Escrow)(nil)

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Maker.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}
	if err := validateAssets(e.AssetA, e.AssetB); err != nil {
		return err
	}
	if e.ReceiveAmount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "receive amount must be positive")
	}
	if e.Bump > math.MaxUint8 || e.VaultBump > math.MaxUint8 {
		return errors.Wrap(errors.ErrOverflow, "bump is not a byte")
	}
	if err := e.Vault.Validate(); err != nil {
		return errors.Wrap(err, "vault")
	}
	if len(e.Reserve) > 0 {
		if err := e.Reserve.Validate(); err != nil {
			return errors.Wrap(err, "reserve")
		}
	}
	return nil
}

// Copy makes a new escrow with the same content
func (e *Escrow) Copy() orm.Model {
	return &Escrow{
		Seed:          e.Seed,
		Maker:         e.Maker.Clone(),
		AssetA:        e.AssetA,
		AssetB:        e.AssetB,
		ReceiveAmount: e.ReceiveAmount,
		Bump:          e.Bump,
		Vault:         e.Vault.Clone(),
		VaultBump:     e.VaultBump,
		Reserve:       e.Reserve.Clone(),
	}
}

func (e *Escrow) Marshal() ([]byte, error) {
	return codec.Marshal((*escrowMsg)(e))
}

func (e *Escrow) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*escrowMsg)(e))
}

func validateAssets(a, b string) error {
	if !coin.IsCC(a) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid asset A ticker %q", a)
	}
	if !coin.IsCC(b) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid asset B ticker %q", b)
	}
	if a == b {
		return errors.Wrap(errors.ErrInvalidInput, "assets must differ")
	}
	return nil
}

// Vault is the custody record of an escrow vault. The vault balance is held
// by the cash wallet of the vault address.
type Vault struct {
	// Authority is the derived address of the escrow owning this vault.
	Authority harbor.Address `protobuf:"bytes,1,opt,name=authority,proto3" json:"authority"`
	Ticker    string         `protobuf:"bytes,2,opt,name=ticker,proto3" json:"ticker"`
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Validate() error {
	if err := v.Authority.Validate(); err != nil {
		return errors.Wrap(err, "authority")
	}
	if !coin.IsCC(v.Ticker) {
		return errors.Wrapf(errors.ErrInvalidInput, "invalid ticker %q", v.Ticker)
	}
	return nil
}

func (v *Vault) Copy() orm.Model {
	return &Vault{
		Authority: v.Authority.Clone(),
		Ticker:    v.Ticker,
	}
}

func (v *Vault) Marshal() ([]byte, error) {
	return codec.Marshal((*vaultMsg)(v))
}

func (v *Vault) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*vaultMsg)(v))
}

// Wire forms of the models, without the codec methods.
type (
	escrowMsg Escrow
	vaultMsg  Vault
)

func (m *escrowMsg) Reset()         { *m = escrowMsg{} }
func (m *escrowMsg) String() string { return codec.Text(m) }
func (*escrowMsg) ProtoMessage()    {}

func (m *vaultMsg) Reset()         { *m = vaultMsg{} }
func (m *vaultMsg) String() string { return codec.Text(m) }
func (*vaultMsg) ProtoMessage()    {}

// Bucket is a type-safe wrapper around orm.ModelBucket storing escrows.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing escrows, indexed by maker.
func NewBucket() Bucket {
	b := orm.NewModelBucket(BucketName, &Escrow{},
		orm.WithIndex(makerIndexName, makerIndex, false))
	return Bucket{ModelBucket: b}
}

func makerIndex(m orm.Model) ([]byte, error) {
	esc, ok := m.(*Escrow)
	if !ok {
		return nil, errors.WithType(errors.ErrInvalidModel, m)
	}
	return esc.Maker, nil
}

// ByMaker returns all open escrows of given maker together with their
// addresses.
func (b Bucket) ByMaker(db harbor.ReadOnlyKVStore, maker harbor.Address) ([]harbor.Address, []*Escrow, error) {
	var escrows []*Escrow
	keys, err := b.ByIndex(db, makerIndexName, maker, &escrows)
	if err != nil {
		return nil, nil, errors.Wrap(err, "maker index")
	}
	addrs := make([]harbor.Address, len(keys))
	for i, k := range keys {
		addrs[i] = harbor.Address(k)
	}
	return addrs, escrows, nil
}

// LoadEscrow returns the open escrow stored under given address.
// ErrNotFound is returned if the escrow does not exist or was closed.
func LoadEscrow(db harbor.ReadOnlyKVStore, addr harbor.Address) (*Escrow, error) {
	var e Escrow
	if err := NewBucket().One(db, addr, &e); err != nil {
		return nil, errors.Wrapf(err, "escrow %s", addr)
	}
	return &e, nil
}

// VaultBucket stores vault custody records keyed by the vault address.
type VaultBucket struct {
	orm.ModelBucket
}

// NewVaultBucket returns a bucket for managing vault records.
func NewVaultBucket() VaultBucket {
	return VaultBucket{
		ModelBucket: orm.NewModelBucket(VaultBucketName, &Vault{}),
	}
}
