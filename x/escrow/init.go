package escrow

import (
	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/gconf"
)

// Initializer loads the escrow configuration from genesis.
type Initializer struct{}

var _ harbor.Initializer = Initializer{}

// FromGenesis stores the "conf.escrow" genesis section. A missing section
// is not an error: escrows are then created without a reserve.
func (Initializer) FromGenesis(opts harbor.Options, db harbor.KVStore) error {
	var conf Configuration
	err := gconf.InitConfig(db, opts, confPkg, &conf)
	if err != nil && !errors.ErrNotFound.Is(err) {
		return errors.Wrap(err, "escrow configuration")
	}
	return nil
}
