package escrow

import (
	"encoding/binary"
	"math"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/errors"
)

const (
	// EscrowScope is the derivation scope of escrow record addresses.
	EscrowScope = "escrow"
	// VaultScope is the derivation scope of vault addresses.
	VaultScope = "vault"

	escrowSeedPrefix = "escrow"
)

func escrowSeeds(maker harbor.Address, seed uint64) [][]byte {
	raw := make([]byte, 8)
	binary.BigEndian.PutUint64(raw, seed)
	return [][]byte{[]byte(escrowSeedPrefix), maker, raw}
}

func vaultSeeds(escrow harbor.Address, ticker string) [][]byte {
	return [][]byte{escrow, []byte(ticker)}
}

// EscrowAddress returns the address of the escrow created by given maker
// with given seed, together with the bump that makes it valid.
func EscrowAddress(maker harbor.Address, seed uint64) (harbor.Address, uint8, error) {
	if err := maker.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "maker")
	}
	return harbor.FindDerivedAddress(EscrowScope, escrowSeeds(maker, seed)...)
}

// VaultAddress returns the address of the vault holding given ticker for
// given escrow, together with the bump that makes it valid.
func VaultAddress(escrow harbor.Address, ticker string) (harbor.Address, uint8, error) {
	if err := escrow.Validate(); err != nil {
		return nil, 0, errors.Wrap(err, "escrow")
	}
	return harbor.FindDerivedAddress(VaultScope, vaultSeeds(escrow, ticker)...)
}

// verifyEscrow recomputes the escrow and vault addresses from the persisted
// derivation inputs and compares them with given references. Any difference
// is reported as ErrVaultMismatch.
func verifyEscrow(e *Escrow, escrowAddr, vaultAddr harbor.Address) error {
	if e.Bump > math.MaxUint8 || e.VaultBump > math.MaxUint8 {
		return errors.Wrapf(ErrVaultMismatch, "escrow %s: bump is not a byte", escrowAddr)
	}
	if err := harbor.VerifyDerivedAddress(escrowAddr, EscrowScope, uint8(e.Bump), escrowSeeds(e.Maker, e.Seed)...); err != nil {
		return errors.Wrapf(ErrVaultMismatch, "escrow %s: %s", escrowAddr, err)
	}
	if !e.Vault.Equals(vaultAddr) {
		return errors.Wrapf(ErrVaultMismatch, "vault %s does not belong to escrow %s", vaultAddr, escrowAddr)
	}
	if err := harbor.VerifyDerivedAddress(vaultAddr, VaultScope, uint8(e.VaultBump), vaultSeeds(escrowAddr, e.AssetA)...); err != nil {
		return errors.Wrapf(ErrVaultMismatch, "vault %s: %s", vaultAddr, err)
	}
	return nil
}
