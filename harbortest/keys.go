package harbortest

import (
	"crypto/rand"
	"testing"

	"github.com/safeharbor/harbor"
	"github.com/safeharbor/harbor/crypto"
)

// NewKey returns a new random private key.
func NewKey() *crypto.PrivateKey {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() harbor.Condition {
	return NewKey().PublicKey().Condition()
}

// RandomAddr returns a random, valid address.
func RandomAddr(t testing.TB) harbor.Address {
	t.Helper()
	a := make(harbor.Address, harbor.AddressLength)
	if _, err := rand.Read(a); err != nil {
		t.Fatalf("cannot read random data: %s", err)
	}
	return a
}

// ParseAddress parses a human readable address or fails the test.
func ParseAddress(t testing.TB, enc string) harbor.Address {
	t.Helper()
	addr, err := harbor.ParseAddress(enc)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", enc, err)
	}
	return addr
}
