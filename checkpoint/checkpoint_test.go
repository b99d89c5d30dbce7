package checkpoint_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/exochain/core/checkpoint"
	excrypto "github.com/exochain/core/crypto"
	"github.com/exochain/core/finality"
	"github.com/stretchr/testify/require"
)

func newSignatory(t *testing.T, did string) (checkpoint.Signatory, excrypto.Verifier) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := excrypto.NewSigner(priv)
	require.NoError(t, err)
	verifier, err := excrypto.NewVerifier(pub)
	require.NoError(t, err)
	return checkpoint.Signatory{ValidatorDID: did, KeyVersion: 1, Signer: signer}, verifier
}

func samplePayload() checkpoint.Payload {
	return checkpoint.Payload{
		EventRoot:       excrypto.Sum([]byte("event-root")),
		StateRoot:       excrypto.Sum([]byte("state-root")),
		Height:          7,
		FinalizedEvents: 42,
		Frontier:        []excrypto.Hash{excrypto.Sum([]byte("frontier-1")), excrypto.Sum([]byte("frontier-2"))},
	}
}

func TestSignAndVerify(t *testing.T) {
	sig1, v1 := newSignatory(t, "did:exo:validator1")
	sig2, v2 := newSignatory(t, "did:exo:validator2")

	signed, err := checkpoint.Sign(samplePayload(), []checkpoint.Signatory{sig1, sig2})
	require.NoError(t, err)
	require.Len(t, signed.ValidatorSigs, 2)

	require.NoError(t, checkpoint.VerifySignature(signed, signed.ValidatorSigs[0], v1))
	require.NoError(t, checkpoint.VerifySignature(signed, signed.ValidatorSigs[1], v2))
}

func TestVerifyRejectsWrongValidator(t *testing.T) {
	sig1, _ := newSignatory(t, "did:exo:validator1")
	_, v2 := newSignatory(t, "did:exo:validator2")

	signed, err := checkpoint.Sign(samplePayload(), []checkpoint.Signatory{sig1})
	require.NoError(t, err)

	require.Error(t, checkpoint.VerifySignature(signed, signed.ValidatorSigs[0], v2))
}

func TestSignRequiresAtLeastOneSignatory(t *testing.T) {
	_, err := checkpoint.Sign(samplePayload(), nil)
	require.ErrorIs(t, err, checkpoint.ErrNoValidatorSignatures)
}

func TestSigningPreimageChangesWithHeight(t *testing.T) {
	a := samplePayload()
	b := samplePayload()
	b.Height = a.Height + 1
	require.NotEqual(t, checkpoint.SigningPreimage(a), checkpoint.SigningPreimage(b))
}

func TestStubOracleAlwaysFinalized(t *testing.T) {
	var oracle finality.Oracle = finality.StubOracle{}
	require.True(t, oracle.IsFinalized(samplePayload()))
}
