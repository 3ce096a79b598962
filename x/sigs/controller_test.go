package sigs

import (
	"testing"

	"github.com/safeharbor/harbor/crypto"
	"github.com/safeharbor/harbor/errors"
	"github.com/safeharbor/harbor/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSignBytes(t *testing.T) {
	cases := map[string]struct {
		chainID string
		seq     int64
		wantErr *errors.Error
	}{
		"valid":            {chainID: "test-chain", seq: 7},
		"negative":         {chainID: "test-chain", seq: -1, wantErr: ErrInvalidSequence},
		"invalid chain id": {chainID: "no", seq: 1, wantErr: errors.ErrInvalidInput},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			bz, err := BuildSignBytes([]byte("data"), tc.chainID, tc.seq)
			require.True(t, tc.wantErr.Is(err), "%+v", err)
			if tc.wantErr == nil {
				assert.Len(t, bz, 64)
			}
		})
	}

	// Every input influences the result.
	a, err := BuildSignBytes([]byte("data"), "test-chain", 1)
	require.NoError(t, err)
	b, err := BuildSignBytes([]byte("data"), "test-chain", 2)
	require.NoError(t, err)
	c, err := BuildSignBytes([]byte("data"), "test-chain2", 1)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestVerifySignature(t *testing.T) {
	db := store.MemStore()
	chainID := "verify-me"
	priv := crypto.GenPrivKeyEd25519()
	other := crypto.GenPrivKeyEd25519()
	tx := NewStdTx([]byte("money money money"))

	sig0, err := SignTx(priv, tx, chainID, 0)
	require.NoError(t, err)

	// Signature from a different key claiming the same public key.
	forged, err := SignTx(other, tx, chainID, 0)
	require.NoError(t, err)
	forged.Pubkey = priv.PublicKey()

	_, err = VerifySignature(db, forged, tx.Payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)

	cond, err := VerifySignature(db, sig0, tx.Payload, chainID)
	require.NoError(t, err)
	assert.Equal(t, priv.PublicKey().Condition(), cond)

	nonce, err := NextNonce(db, priv.PublicKey().Address())
	require.NoError(t, err)
	assert.Equal(t, int64(1), nonce)

	_, err = VerifySignature(db, sig0, tx.Payload, chainID)
	assert.True(t, ErrInvalidSequence.Is(err), "%+v", err)

	_, err = VerifySignature(db, &StdSignature{Pubkey: priv.PublicKey()}, tx.Payload, chainID)
	assert.True(t, errors.ErrUnauthorized.Is(err), "%+v", err)
}

func TestStdSignatureSerialization(t *testing.T) {
	priv := crypto.GenPrivKeyEd25519()
	sig, err := SignTx(priv, NewStdTx([]byte("x")), "serial-chain", 42)
	require.NoError(t, err)

	raw, err := sig.Marshal()
	require.NoError(t, err)
	var got StdSignature
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, sig, &got)
}
