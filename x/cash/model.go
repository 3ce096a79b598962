package cash

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/codec"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Set is the content of a wallet: a normalized set of coins.
type Set struct {
	Coins coin.Coins `protobuf:"bytes,1,rep,name=coins,proto3" json:"coins"`
}

var _ orm.Model = (*Set)(nil)

// Validate requires that all coins are in alphabetical order, positive and
// not duplicated. An empty set is valid.
func (s *Set) Validate() error {
	if len(s.Coins) == 0 {
		return nil
	}
	return s.Coins.Validate()
}

// Copy makes a new set with the same coins
func (s *Set) Copy() orm.Model {
	return &Set{
		Coins: s.Coins.Clone(),
	}
}

func (s *Set) Marshal() ([]byte, error) {
	return codec.Marshal((*setMsg)(s))
}

func (s *Set) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, (*setMsg)(s))
}

type setMsg Set

func (m *setMsg) Reset()         { *m = setMsg{} }
func (m *setMsg) String() string { return codec.Text(m) }
func (*setMsg) ProtoMessage()    {}

// Bucket is a type-safe wrapper around orm.ModelBucket, keyed by the
// wallet owner address.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Set{}),
	}
}

// GetOrCreate returns the wallet of given address. A missing wallet is
// returned as an empty set.
func (b Bucket) GetOrCreate(db harbor.ReadOnlyKVStore, addr harbor.Address) (*Set, error) {
	var s Set
	switch err := b.One(db, addr, &s); {
	case err == nil:
		return &s, nil
	case errors.ErrNotFound.Is(err):
		return &Set{}, nil
	default:
		return nil, err
	}
}

// Save stores the wallet. An empty wallet is removed from the store.
func (b Bucket) Save(db harbor.KVStore, addr harbor.Address, s *Set) error {
	if len(s.Coins) == 0 {
		err := b.Delete(db, addr)
		if errors.ErrNotFound.Is(err) {
			return nil
		}
		return err
	}
	return b.Put(db, addr, s)
}
