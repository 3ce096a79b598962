package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/safeharbor/harbor/crypto"
	"github.com/safeharbor/harbor/errors"
)

func cmdKeygen(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Generate a new ed25519 private key and store it in a file. Existing key file
is never overwritten.
		`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = flKey(fl)
	)
	fl.Parse(args)

	if _, err := os.Stat(*keyPathFl); err == nil {
		return errors.Wrapf(errors.ErrDuplicate, "private key file %q already exists", *keyPathFl)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot check private key file: %s", err)
	}

	key := crypto.GenPrivKeyEd25519()
	if err := os.WriteFile(*keyPathFl, key.Ed25519, 0400); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot write private key file: %s", err)
	}
	fmt.Fprintln(output, key.PublicKey().Address())
	return nil
}

func cmdKeyAddress(input io.Reader, output io.Writer, args []string) error {
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), `
Print the address of the private key stored in a file, both in hex and in
bech32 format.
		`)
		fl.PrintDefaults()
	}
	var (
		keyPathFl = flKey(fl)
		hrpFl     = fl.String("hrp", env("HARBOR_HRP", "harbor"), "Human readable part of the bech32 address.")
	)
	fl.Parse(args)

	key, err := loadKey(*keyPathFl)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	b, err := addr.Bech32(*hrpFl)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "cannot compute bech32 address: %s", err)
	}
	fmt.Fprintf(output, "%s\n%s\n", addr, b)
	return nil
}
