package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/app"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x/cash"
	"github.com/safeharbor/harbor/x/escrow"
)

func cmdInit(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Initialize a new ledger in the home directory using the state from the genesis
file. A ledger can be initialized only once.
		`)
		fl.PrintDefaults()
	}
	var (
		lf        = newLedgerFlags(fl)
		genesisFl = fl.String("genesis", "genesis.json", "Path to the genesis file.")
		chainIDFl = fl.String("chain-id", "", "Overwrite the chain ID declared in the genesis file.")
	)
	fl.Parse(args)

	gen, err := app.LoadGenesis(*genesisFl)
	if err != nil {
		return err
	}
	if *chainIDFl != "" {
		gen.ChainID = *chainIDFl
	}

	l, release, err := lf.open()
	if err != nil {
		return err
	}
	defer release()

	id, err := l.InitChain(gen)
	if err != nil {
		return errors.Wrap(err, "init chain")
	}
	fmt.Fprintf(output, "chain %s initialized at version %d: %X\n", gen.ChainID, id.Version, id.Hash)
	return nil
}

func cmdBalance(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the balance of an account, one coin per line.
		`)
		fl.PrintDefaults()
	}
	var (
		lf     = newLedgerFlags(fl)
		addrFl = flAddress(fl, "addr", "", "Address of the account.")
	)
	fl.Parse(args)

	if err := addrFl.Validate(); err != nil {
		return errors.Wrap(err, "addr")
	}

	l, release, err := lf.open()
	if err != nil {
		return err
	}
	defer release()

	bank := cash.NewController(cash.NewBucket())
	var balance coin.Coins
	err = l.View(func(db harbor.ReadOnlyKVStore) (err error) {
		balance, err = bank.Balance(db, *addrFl)
		return err
	})
	if err != nil {
		return err
	}
	for _, c := range balance {
		fmt.Fprintln(output, c)
	}
	return nil
}

// escrowView is the JSON representation of an open escrow.
type escrowView struct {
	Address harbor.Address `json:"address"`
	*escrow.Escrow
	Locked coin.Coins `json:"locked"`
}

func cmdEscrows(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
List all open escrows created by given maker, together with the assets locked
in their vaults. Result is printed as JSON.
		`)
		fl.PrintDefaults()
	}
	var (
		lf      = newLedgerFlags(fl)
		makerFl = flAddress(fl, "maker", "", "Address of the maker.")
	)
	fl.Parse(args)

	if err := makerFl.Validate(); err != nil {
		return errors.Wrap(err, "maker")
	}

	l, release, err := lf.open()
	if err != nil {
		return err
	}
	defer release()

	bank := cash.NewController(cash.NewBucket())
	views := make([]escrowView, 0)
	err = l.View(func(db harbor.ReadOnlyKVStore) error {
		addrs, escrows, err := escrow.NewBucket().ByMaker(db, *makerFl)
		if err != nil {
			return err
		}
		for i, e := range escrows {
			locked, err := bank.Balance(db, e.Vault)
			if err != nil {
				return errors.Wrapf(err, "vault %s", e.Vault)
			}
			views = append(views, escrowView{Address: addrs[i], Escrow: e, Locked: locked})
		}
		return nil
	})
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(views, "", "\t")
	if err != nil {
		return errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	_, err = output.Write(append(raw, '\n'))
	return err
}
