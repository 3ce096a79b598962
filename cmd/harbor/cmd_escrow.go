package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/app"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x/escrow"
)

func cmdMake(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Open a new escrow. The deposit is moved from the maker account to the vault of
the escrow and can be claimed by anyone paying the receive amount. Escrow and
vault addresses are derived from the maker and the seed and printed on success.
		`)
		fl.PrintDefaults()
	}
	var (
		lf        = newLedgerFlags(fl)
		keyPathFl = flKey(fl)
		seedFl    = fl.Uint64("seed", 0, "Seed that allows the maker to run many escrows at once.")
		depositFl = flCoin(fl, "deposit", "", "Amount locked in the vault, for example \"100 AAA\".")
		receiveFl = flCoin(fl, "receive", "", "Amount asked from the taker, for example \"50 BBB\".")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	maker := key.PublicKey().Address()
	escrowAddr, _, err := escrow.EscrowAddress(maker, *seedFl)
	if err != nil {
		return errors.Wrap(err, "escrow address")
	}
	vaultAddr, _, err := escrow.VaultAddress(escrowAddr, depositFl.Ticker)
	if err != nil {
		return errors.Wrap(err, "vault address")
	}
	msg := &escrow.MakeMsg{
		Maker:   maker,
		Seed:    *seedFl,
		AssetA:  depositFl.Ticker,
		AssetB:  receiveFl.Ticker,
		Deposit: depositFl.Amount,
		Receive: receiveFl.Amount,
		Escrow:  escrowAddr,
		Vault:   vaultAddr,
	}
	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "make")
	}

	l, release, err := lf.open()
	if err != nil {
		return err
	}
	defer release()

	if _, err := submit(l, key, msg); err != nil {
		return err
	}
	fmt.Fprintf(output, "escrow %s\nvault %s\n", escrowAddr, vaultAddr)
	return nil
}

func cmdTake(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Take an open escrow. The receive amount is paid to the maker and the vault
content is transferred to the signer. The escrow is closed.
		`)
		fl.PrintDefaults()
	}
	var (
		lf        = newLedgerFlags(fl)
		keyPathFl = flKey(fl)
		escrowFl  = flAddress(fl, "escrow", "", "Address of the escrow.")
		vaultFl   = flAddress(fl, "vault", "", "Address of the vault. Read from the escrow if not provided.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	l, release, err := lf.open()
	if err != nil {
		return err
	}
	defer release()

	vault, err := vaultOf(l, *escrowFl, *vaultFl)
	if err != nil {
		return err
	}
	msg := &escrow.TakeMsg{Escrow: *escrowFl, Vault: vault}
	if _, err := submit(l, key, msg); err != nil {
		return err
	}
	fmt.Fprintf(output, "escrow %s taken\n", *escrowFl)
	return nil
}

func cmdRefund(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Cancel an open escrow and return the vault content to the maker. Only the maker
can refund an escrow.
		`)
		fl.PrintDefaults()
	}
	var (
		lf        = newLedgerFlags(fl)
		keyPathFl = flKey(fl)
		escrowFl  = flAddress(fl, "escrow", "", "Address of the escrow.")
		vaultFl   = flAddress(fl, "vault", "", "Address of the vault. Read from the escrow if not provided.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	l, release, err := lf.open()
	if err != nil {
		return err
	}
	defer release()

	vault, err := vaultOf(l, *escrowFl, *vaultFl)
	if err != nil {
		return err
	}
	msg := &escrow.RefundMsg{Escrow: *escrowFl, Vault: vault}
	if _, err := submit(l, key, msg); err != nil {
		return err
	}
	fmt.Fprintf(output, "escrow %s refunded\n", *escrowFl)
	return nil
}

// vaultOf returns the vault address if given, otherwise it is read from the
// escrow record.
func vaultOf(l *app.Ledger, escrowAddr, vault harbor.Address) (harbor.Address, error) {
	if err := escrowAddr.Validate(); err != nil {
		return nil, errors.Wrap(err, "escrow")
	}
	if len(vault) != 0 {
		return vault, nil
	}
	err := l.View(func(db harbor.ReadOnlyKVStore) error {
		e, err := escrow.LoadEscrow(db, escrowAddr)
		if err != nil {
			return err
		}
		vault = e.Vault
		return nil
	})
	return vault, err
}
