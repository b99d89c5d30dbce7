// Package chaintesting provides test fixtures shared across the module's
// package tests: freshly generated (random) keypairs bound to their derived
// DID, and small HLC-respecting event chains.
package chaintesting

import (
	"crypto/ed25519"
	"crypto/rand"

	"github.com/exochain/core/crypto"
	"github.com/exochain/core/event"
	"github.com/exochain/core/hlc"
	"github.com/exochain/core/identity"
)

// KeyPair bundles an Ed25519 keypair with its Signer/Verifier wrappers and
// derived DID.
type KeyPair struct {
	DID      string
	Signer   crypto.Signer
	Verifier crypto.Verifier
	Public   ed25519.PublicKey
	Private  ed25519.PrivateKey
}

// NewKeyPair generates a fresh keypair and derives its DID (spec.md §6).
func NewKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	signer, err := crypto.NewSigner(priv)
	if err != nil {
		return KeyPair{}, err
	}
	verifier, err := crypto.NewVerifier(pub)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{
		DID:      identity.DeriveDID(pub),
		Signer:   signer,
		Verifier: verifier,
		Public:   pub,
		Private:  priv,
	}, nil
}

// RegisterWith registers kp's verifying key into resolver at keyVersion.
func (kp KeyPair) RegisterWith(resolver *identity.StaticResolver, keyVersion uint64) {
	resolver.Register(kp.DID, keyVersion, kp.Verifier)
}

// Chain builds event chains for tests: every event it produces carries a
// logical time strictly after its parents', and each new event is signed
// by the keypair supplied to New.
type Chain struct {
	Codec event.Codec
	kp    KeyPair
}

// New builds a Chain whose events are signed by kp.
func New(codec event.Codec, kp KeyPair) Chain {
	return Chain{Codec: codec, kp: kp}
}

// Append constructs and signs the next event on top of parents at the
// given physical time, auto-merging the HLC logical clock (spec.md §4.2).
func (c Chain) Append(physicalMS uint64, parents []event.Event, payload event.Payload) (event.Event, error) {
	parentClocks := make([]hlc.HLC, len(parents))
	parentIDs := make([]crypto.Hash, len(parents))
	for i, p := range parents {
		parentClocks[i] = p.Envelope.LogicalTime
		parentIDs[i] = p.ID
	}

	logicalTime, err := hlc.New(physicalMS, parentClocks)
	if err != nil {
		return event.Event{}, err
	}

	env := event.NewEnvelope(parentIDs, logicalTime, c.kp.DID, 1, payload)
	return event.New(c.Codec, env, c.kp.Signer)
}

// Genesis builds the chain's first event with no parents.
func (c Chain) Genesis(physicalMS uint64, networkID string) (event.Event, error) {
	return c.Append(physicalMS, nil, event.GenesisPayload(networkID))
}
