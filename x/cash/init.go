package cash

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
)

const optKey = "cash"

// GenesisAccount is used to parse the json from genesis file
// use harbor.Address, so address in hex, not base64
type GenesisAccount struct {
	Address harbor.Address `json:"address"`
	Coins   coin.Coins     `json:"coins"`
}

// Initializer fulfils the Initializer interface to load data from
// the genesis file
type Initializer struct{}

var _ harbor.Initializer = Initializer{}

// FromGenesis will parse initial account info from genesis
// and save it to the database
func (Initializer) FromGenesis(opts harbor.Options, kv harbor.KVStore) error {
	var accts []GenesisAccount
	if err := opts.ReadOptions(optKey, &accts); err != nil {
		return errors.Wrap(err, "cannot load accounts")
	}
	bucket := NewBucket()
	for i, acct := range accts {
		if err := acct.Address.Validate(); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		coins, err := coin.NormalizeCoins(acct.Coins)
		if err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
		if err := bucket.Save(kv, acct.Address, &Set{Coins: coins}); err != nil {
			return errors.Wrapf(err, "account %d", i)
		}
	}
	return nil
}
