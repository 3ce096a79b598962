package harbor

import (
	"crypto/sha256"

	"filippo.io/edwards25519"
	"github.com/safeharbor/harbor/errors"
)

// ErrInvalidDerivation is returned when a scope, seeds and bump
// combination does not produce a valid derived address.
var ErrInvalidDerivation = errors.Register(20, "invalid derivation")

const (
	// MaxSeeds is the maximum number of seeds a derived address can use.
	MaxSeeds = 16
	// MaxSeedLength is the maximum length of a single seed.
	MaxSeedLength = 32

	derivedAddressMarker = "harbor/derived"
)

// CreateDerivedAddress deterministically computes an address owned by
// given program scope. The same scope, seeds and bump always produce the
// same address.
//
// A derived address must not be a valid ed25519 public key, so that no
// private key can ever sign for it. ErrInvalidDerivation is returned when
// given bump produces a point on the curve.
func CreateDerivedAddress(scope string, bump uint8, seeds ...[]byte) (Address, error) {
	if len(scope) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "scope")
	}
	if len(seeds) > MaxSeeds {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for i, s := range seeds {
		if len(s) > MaxSeedLength {
			return nil, errors.Wrapf(errors.ErrInvalidInput, "seed %d too long", i)
		}
		// Length prefix so that ("ab", "c") and ("a", "bc") never collide.
		h.Write([]byte{byte(len(s))})
		h.Write(s)
	}
	h.Write([]byte{bump})
	h.Write([]byte(scope))
	h.Write([]byte(derivedAddressMarker))
	sum := h.Sum(nil)

	if isOnCurve(sum) {
		return nil, errors.Wrapf(ErrInvalidDerivation, "bump %d", bump)
	}
	return Address(sum[:AddressLength]), nil
}

// FindDerivedAddress searches for the highest bump that produces a valid
// derived address for given scope and seeds. Both the address and the
// bump are returned. Persist the bump so that later operations can use
// CreateDerivedAddress without repeating the search.
func FindDerivedAddress(scope string, seeds ...[]byte) (Address, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		addr, err := CreateDerivedAddress(scope, uint8(bump), seeds...)
		switch {
		case err == nil:
			return addr, uint8(bump), nil
		case !ErrInvalidDerivation.Is(err):
			return nil, 0, err
		}
	}
	return nil, 0, errors.Wrap(ErrInvalidDerivation, "no bump produces a valid address")
}

// VerifyDerivedAddress recomputes the derived address and compares it
// with the expected one.
func VerifyDerivedAddress(expected Address, scope string, bump uint8, seeds ...[]byte) error {
	addr, err := CreateDerivedAddress(scope, bump, seeds...)
	if err != nil {
		return err
	}
	if !addr.Equals(expected) {
		return errors.Wrapf(ErrInvalidDerivation, "%s does not derive from given seeds", expected)
	}
	return nil
}

// isOnCurve returns true if given bytes are a valid compressed ed25519
// point.
func isOnCurve(b []byte) bool {
	if len(b) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(b)
	return err == nil
}
