/*
Package harborapp links together all the various components
to construct the harbor ledger.
*/
package harborapp

import (
	"path/filepath"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/app"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/store"
	"github.com/safeharbor/harbor/x"
	"github.com/safeharbor/harbor/x/cash"
	"github.com/safeharbor/harbor/x/escrow"
	"github.com/safeharbor/harbor/x/sigs"
	"github.com/safeharbor/harbor/x/utils"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the typical authentication,
// just using public key signatures
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
	)
}

// Router returns a router dispatching to the cash, sigs and escrow
// handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	bank := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, bank)
	sigs.RegisterRoutes(r, authFn)
	escrow.RegisterRoutes(r, authFn, bank)
	return r
}

// Stack wires up a standard router with a standard decorator
// chain. This can be passed into the Ledger.
func Stack() harbor.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializer loads the genesis state of every extension.
func Initializer() harbor.Initializer {
	return harbor.ChainInitializers(
		cash.Initializer{},
		escrow.Initializer{},
	)
}

// CommitKVStore returns an initialized KVStore that persists
// the data to the named directory.
func CommitKVStore(dbPath string) (harbor.CommitKVStore, error) {
	// memory backed case, just for testing
	if dbPath == "" {
		return store.NewMemLevelDBStore(), nil
	}
	path, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "database path %q: %s", dbPath, err)
	}
	db, err := store.NewLevelDBStore(path)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// Ledger opens the ledger stored in given directory. The returned store
// must be closed by the caller.
func Ledger(dbPath string, logger log.Logger, debug bool) (*app.Ledger, harbor.CommitKVStore, error) {
	db, err := CommitKVStore(dbPath)
	if err != nil {
		return nil, nil, err
	}
	l, err := app.NewLedger(db, TxDecoder, Stack(), Initializer())
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return l.WithLogger(logger).WithDebug(debug), db, nil
}
