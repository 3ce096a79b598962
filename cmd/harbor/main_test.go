package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/app"
	harborapp "github.com/safeharbor/harbor/cmd/harbor/app"
	"github.com/safeharbor/harbor/coin"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/x/cash"
)

// run executes a command and returns its output.
func run(t testing.TB, cmd func(*bytes.Buffer, []string) error, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	if err := cmd(&out, args); err != nil {
		t.Fatalf("cannot run command %q: %s", args, err)
	}
	return out.String()
}

func call(name string) func(*bytes.Buffer, []string) error {
	return func(out *bytes.Buffer, args []string) error {
		return commands[name](strings.NewReader(""), out, args)
	}
}

func keygen(t testing.TB, path string) harbor.Address {
	t.Helper()
	out := run(t, call("keygen"), "-key", path)
	addr, err := harbor.ParseAddress(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("cannot parse keygen output %q: %s", out, err)
	}
	return addr
}

func TestKeygenDoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.key")
	addr := keygen(t, path)

	var out bytes.Buffer
	err := cmdKeygen(nil, &out, []string{"-key", path})
	if !errors.ErrDuplicate.Is(err) {
		t.Fatalf("want duplicate error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(run(t, call("address"), "-key", path, "-hrp", "tharb")), "\n")
	if len(lines) != 2 {
		t.Fatalf("want hex and bech32 address, got %q", lines)
	}
	if lines[0] != addr.String() {
		t.Fatalf("want %s address, got %s", addr, lines[0])
	}
	if !strings.HasPrefix(lines[1], "tharb1") {
		t.Fatalf("unexpected bech32 address: %s", lines[1])
	}
	parsed, err := harbor.ParseAddress("bech32:" + lines[1])
	if err != nil {
		t.Fatalf("cannot parse bech32 address: %s", err)
	}
	if !parsed.Equals(addr) {
		t.Fatalf("bech32 address %s does not match %s", parsed, addr)
	}
}

func TestLoadKeyErrors(t *testing.T) {
	if _, err := loadKey(filepath.Join(t.TempDir(), "missing.key")); !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %v", err)
	}
}

func TestEscrowCommands(t *testing.T) {
	dir := t.TempDir()
	home := filepath.Join(dir, "home")
	makerKey := filepath.Join(dir, "maker.key")
	takerKey := filepath.Join(dir, "taker.key")
	maker := keygen(t, makerKey)
	taker := keygen(t, takerKey)

	gen, err := harborapp.Genesis("harbor-cli", []cash.GenesisAccount{
		{Address: maker, Coins: coin.Coins{coin.NewCoinp(200, "AAA")}},
		{Address: taker, Coins: coin.Coins{coin.NewCoinp(100, "BBB")}},
	}, nil)
	if err != nil {
		t.Fatalf("cannot build genesis: %s", err)
	}
	genesisPath := filepath.Join(dir, "genesis.json")
	if err := app.SaveGenesis(genesisPath, gen); err != nil {
		t.Fatalf("cannot save genesis: %s", err)
	}

	run(t, call("init"), "-home", home, "-genesis", genesisPath)

	var out bytes.Buffer
	err = cmdInit(nil, &out, []string{"-home", home, "-genesis", genesisPath})
	if !errors.ErrInvalidState.Is(err) {
		t.Fatalf("want invalid state error for a second init, got %v", err)
	}

	made := run(t, call("make"), "-home", home, "-key", makerKey,
		"-seed", "1", "-deposit", "100 AAA", "-receive", "50 BBB")
	lines := strings.Split(strings.TrimSpace(made), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "escrow ") {
		t.Fatalf("unexpected make output: %q", made)
	}
	escrowAddr := strings.TrimPrefix(lines[0], "escrow ")

	if got := run(t, call("balance"), "-home", home, "-addr", maker.String()); got != "100 AAA\n" {
		t.Fatalf("unexpected maker balance: %q", got)
	}

	var listed []struct {
		Address harbor.Address `json:"address"`
		Seed    uint64         `json:"seed"`
		Locked  coin.Coins     `json:"locked"`
	}
	raw := run(t, call("escrows"), "-home", home, "-maker", maker.String())
	if err := json.Unmarshal([]byte(raw), &listed); err != nil {
		t.Fatalf("cannot decode escrows: %s", err)
	}
	if len(listed) != 1 {
		t.Fatalf("want one escrow, got %d", len(listed))
	}
	if listed[0].Address.String() != escrowAddr || listed[0].Seed != 1 {
		t.Fatalf("unexpected escrow listed: %+v", listed[0])
	}
	if !listed[0].Locked.Equals(coin.Coins{coin.NewCoinp(100, "AAA")}) {
		t.Fatalf("unexpected locked assets: %v", listed[0].Locked)
	}

	// Only the maker can refund.
	err = cmdRefund(nil, &out, []string{"-home", home, "-key", takerKey, "-escrow", escrowAddr})
	if !errors.ErrUnauthorized.Is(err) {
		t.Fatalf("want unauthorized error, got %v", err)
	}

	run(t, call("take"), "-home", home, "-key", takerKey, "-escrow", escrowAddr)

	takerBalance := run(t, call("balance"), "-home", home, "-addr", taker.String())
	if !strings.Contains(takerBalance, "100 AAA") || !strings.Contains(takerBalance, "50 BBB") {
		t.Fatalf("unexpected taker balance: %q", takerBalance)
	}
	makerBalance := run(t, call("balance"), "-home", home, "-addr", maker.String())
	if !strings.Contains(makerBalance, "100 AAA") || !strings.Contains(makerBalance, "50 BBB") {
		t.Fatalf("unexpected maker balance: %q", makerBalance)
	}
	if got := strings.TrimSpace(run(t, call("escrows"), "-home", home, "-maker", maker.String())); got != "[]" {
		t.Fatalf("want no open escrows, got %s", got)
	}

	// A closed escrow cannot be taken again.
	err = cmdTake(nil, &out, []string{"-home", home, "-key", takerKey, "-escrow", escrowAddr})
	if !errors.ErrNotFound.Is(err) {
		t.Fatalf("want not found error, got %v", err)
	}

	run(t, call("make"), "-home", home, "-key", makerKey,
		"-seed", "2", "-deposit", "100 AAA", "-receive", "10 BBB")
	raw = run(t, call("escrows"), "-home", home, "-maker", maker.String())
	if err := json.Unmarshal([]byte(raw), &listed); err != nil {
		t.Fatalf("cannot decode escrows: %s", err)
	}
	if len(listed) != 1 || listed[0].Seed != 2 {
		t.Fatalf("unexpected escrows: %+v", listed)
	}
	run(t, call("refund"), "-home", home, "-key", makerKey, "-escrow", listed[0].Address.String())

	makerBalance = run(t, call("balance"), "-home", home, "-addr", maker.String())
	if !strings.Contains(makerBalance, "100 AAA") {
		t.Fatalf("refund did not return the deposit: %q", makerBalance)
	}
}
