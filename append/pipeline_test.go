package append_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/exochain/core/append"
	excrypto "github.com/exochain/core/crypto"
	"github.com/exochain/core/event"
	"github.com/exochain/core/hlc"
	"github.com/exochain/core/identity"
	"github.com/exochain/core/store"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	codec    event.Codec
	resolver *identity.StaticResolver
	store    *store.MemoryStore
	pipeline *append.Pipeline
	signer   excrypto.Signer
	did      string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	codec, err := event.NewCodec()
	require.NoError(t, err)

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	signer, err := excrypto.NewSigner(priv)
	require.NoError(t, err)
	verifier, err := excrypto.NewVerifier(pub)
	require.NoError(t, err)

	did := identity.DeriveDID(pub)
	resolver := identity.NewStaticResolver()
	resolver.Register(did, 1, verifier)

	s := store.NewMemoryStore()
	return fixture{
		codec:    codec,
		resolver: resolver,
		store:    s,
		pipeline: append.NewPipeline(s, codec, resolver),
		signer:   signer,
		did:      did,
	}
}

func (f fixture) newEvent(t *testing.T, parents []excrypto.Hash, logicalTime hlc.HLC, payload event.Payload) event.Event {
	t.Helper()
	env := event.NewEnvelope(parents, logicalTime, f.did, 1, payload)
	ev, err := event.New(f.codec, env, f.signer)
	require.NoError(t, err)
	return ev
}

func TestAppendGenesisEvent(t *testing.T) {
	f := newFixture(t)
	ev := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 1000}, event.GenesisPayload("exochain-test"))
	require.NoError(t, f.pipeline.Append(ev))

	got, err := f.store.Get(ev.ID)
	require.NoError(t, err)
	require.Equal(t, ev, got)
}

func TestAppendRejectsMissingParent(t *testing.T) {
	f := newFixture(t)
	var missingParent excrypto.Hash
	missingParent[0] = 0xAB

	ev := f.newEvent(t, []excrypto.Hash{missingParent}, hlc.HLC{PhysicalMS: 1000}, event.OpaquePayload([]byte("x")))
	err := f.pipeline.Append(ev)

	var notFound *append.ParentNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, missingParent, notFound.ParentID)
}

func TestAppendRejectsCausalityViolation(t *testing.T) {
	f := newFixture(t)
	parent := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 2000}, event.GenesisPayload("exochain-test"))
	require.NoError(t, f.pipeline.Append(parent))

	child := f.newEvent(t, []excrypto.Hash{parent.ID}, hlc.HLC{PhysicalMS: 1000}, event.OpaquePayload([]byte("child")))
	err := f.pipeline.Append(child)

	var causality *append.CausalityViolationError
	require.ErrorAs(t, err, &causality)
}

func TestAppendRejectsTamperedSignature(t *testing.T) {
	f := newFixture(t)
	ev := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 1000}, event.OpaquePayload([]byte("x")))
	ev.Signature[0] ^= 0xFF

	err := f.pipeline.Append(ev)
	require.ErrorIs(t, err, append.ErrInvalidSignature)
}

func TestAppendRejectsTamperedEnvelope(t *testing.T) {
	f := newFixture(t)
	ev := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 1000}, event.OpaquePayload([]byte("x")))
	ev.Envelope.Author = "did:exo:someoneelse"

	err := f.pipeline.Append(ev)
	require.ErrorIs(t, err, append.ErrCryptoError)
}

func TestAppendRejectsUnknownAuthor(t *testing.T) {
	f := newFixture(t)
	env := event.NewEnvelope(nil, hlc.HLC{PhysicalMS: 1000}, "did:exo:unregistered", 1, event.OpaquePayload([]byte("x")))
	ev, err := event.New(f.codec, env, f.signer)
	require.NoError(t, err)

	err = f.pipeline.Append(ev)
	require.ErrorIs(t, err, append.ErrInvalidSignature)
}

func TestAppendIsIdempotentOnReplay(t *testing.T) {
	f := newFixture(t)
	ev := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 1000}, event.OpaquePayload([]byte("x")))
	require.NoError(t, f.pipeline.Append(ev))
	require.NoError(t, f.pipeline.Append(ev))
}

func TestVerifyIntegrityAcceptsValidEvent(t *testing.T) {
	f := newFixture(t)
	ev := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 1000}, event.OpaquePayload([]byte("x")))
	require.NoError(t, f.pipeline.Append(ev))
	require.NoError(t, append.VerifyIntegrity(f.store, f.codec, f.resolver, ev))
}

func TestVerifyIntegrityRejectsTamperedID(t *testing.T) {
	f := newFixture(t)
	ev := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 1000}, event.OpaquePayload([]byte("x")))
	require.NoError(t, f.pipeline.Append(ev))
	ev.ID[0] ^= 0xFF

	err := append.VerifyIntegrity(f.store, f.codec, f.resolver, ev)
	require.ErrorIs(t, err, append.ErrCryptoError)
}

func TestVerifyIntegrityRejectsMissingParent(t *testing.T) {
	f := newFixture(t)
	parent := f.newEvent(t, nil, hlc.HLC{PhysicalMS: 1000}, event.GenesisPayload("exochain-test"))
	child := f.newEvent(t, []excrypto.Hash{parent.ID}, hlc.HLC{PhysicalMS: 2000}, event.OpaquePayload([]byte("x")))

	var notFound *append.ParentNotFoundError
	require.ErrorAs(t, append.VerifyIntegrity(f.store, f.codec, f.resolver, child), &notFound)
	require.Equal(t, parent.ID, notFound.ParentID)
}
