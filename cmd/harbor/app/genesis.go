package harborapp

import (
	"encoding/json"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/app"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x/cash"
	"github.com/safeharbor/harbor/x/escrow"
)

// Genesis builds the genesis of a new ledger funding given accounts. The
// escrow configuration is optional.
func Genesis(chainID string, accounts []cash.GenesisAccount, conf *escrow.Configuration) (*app.Genesis, error) {
	if !harbor.IsValidChainID(chainID) {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "chain id: %q", chainID)
	}
	if accounts == nil {
		accounts = []cash.GenesisAccount{}
	}
	rawAccounts, err := json.Marshal(accounts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	state := harbor.Options{"cash": rawAccounts}

	if conf != nil {
		if err := conf.Validate(); err != nil {
			return nil, errors.Wrap(err, "escrow configuration")
		}
		rawConf, err := json.Marshal(map[string]*escrow.Configuration{"escrow": conf})
		if err != nil {
			return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
		}
		state["conf"] = rawConf
	}
	return &app.Genesis{ChainID: chainID, AppState: state}, nil
}
