package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/app"
	harborapp "github.com/safeharbor/harbor/cmd/harbor/app"
	"github.com/safeharbor/harbor/crypto"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x/sigs"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/crypto/ed25519"
)

// ledgerFlags are shared by all commands that open the ledger.
type ledgerFlags struct {
	home     *string
	logLevel *string
	debug    *bool
}

func newLedgerFlags(fl *flag.FlagSet) ledgerFlags {
	return ledgerFlags{
		home: fl.String("home", env("HARBOR_HOME", filepath.Join(os.Getenv("HOME"), ".harbor")),
			"Directory of the ledger database. You can use HARBOR_HOME environment variable to set it."),
		logLevel: fl.String("log-level", env("HARBOR_LOG_LEVEL", "error"),
			"Log level: debug, info, error or none."),
		debug: fl.Bool("debug", false, "Return internal error details."),
	}
}

// open returns the ledger stored in the home directory together with a
// function releasing it.
func (f ledgerFlags) open() (*app.Ledger, func(), error) {
	logger, err := newLogger(*f.logLevel)
	if err != nil {
		return nil, nil, err
	}
	l, db, err := harborapp.Ledger(filepath.Join(*f.home, "data"), logger, *f.debug)
	if err != nil {
		return nil, nil, err
	}
	return l, func() { db.Close() }, nil
}

func newLogger(level string) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stderr))
	opt, err := log.AllowLevel(level)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	return log.NewFilter(logger, opt), nil
}

func flKey(fl *flag.FlagSet) *string {
	return fl.String("key", env("HARBOR_PRIV_KEY", filepath.Join(os.Getenv("HOME"), ".harbor.priv.key")),
		"Path to the private key file that transaction should be signed with. You can use HARBOR_PRIV_KEY environment variable to set it.")
}

// loadKey reads an ed25519 private key written by the keygen command.
func loadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "cannot read private key file: %s", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "invalid private key length: %d", len(raw))
	}
	return &crypto.PrivateKey{Ed25519: raw}, nil
}

// submit signs a transaction carrying given message, delivers it and
// commits the ledger.
func submit(l *app.Ledger, key *crypto.PrivateKey, msg harbor.Msg) (*harbor.DeliverResult, error) {
	var seq int64
	err := l.View(func(db harbor.ReadOnlyKVStore) (err error) {
		seq, err = sigs.NextNonce(db, key.PublicKey().Address())
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot get sequence")
	}

	tx := &harborapp.Tx{Msg: msg}
	sig, err := sigs.SignTx(key, tx, l.ChainID(), seq)
	if err != nil {
		return nil, errors.Wrap(err, "cannot sign transaction")
	}
	tx.Signatures = append(tx.Signatures, sig)
	raw, err := tx.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "cannot serialize transaction")
	}

	if _, err := l.CheckTx(raw); err != nil {
		return nil, errors.Wrap(err, "check")
	}
	res, err := l.DeliverTx(raw)
	if err != nil {
		return nil, errors.Wrap(err, "deliver")
	}
	if _, err := l.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}
