package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"

	"github.com/veraison/go-cose"
)

// Domain separation tags (spec.md §4.1). Every signed payload is prefixed
// with one of these before it reaches the signer (the event tag is further
// followed by ProtocolVersion), so a signature produced for one artefact can
// never validate against another.
const (
	EventDomainTag      = "EXOCHAIN-EVENT-SIG-v1"
	CheckpointDomainTag = "EXOCHAIN-CHECKPOINT-v1"
	RiskDomainTag       = "EXOCHAIN-RISK-v1"

	// ProtocolVersion is appended (as a single byte) after the event domain
	// tag. The checkpoint and risk schemes fold their own fields into the
	// preimage instead of a trailing version byte; see
	// checkpoint.SigningPreimage and risk.Preimage.
	ProtocolVersion byte = 0x01
)

var ErrInvalidSignature = errors.New("crypto: invalid signature")

// Signer signs raw preimages with Ed25519 under go-cose's EdDSA algorithm
// identifier. Using a cose.Signer rather than calling ed25519.Sign directly
// keeps the algorithm tag available for future multi-algorithm support, the
// same way the teacher threads a cose.Signer through RootSigner.Sign1.
type Signer struct {
	inner cose.Signer
	pub   ed25519.PublicKey
}

// NewSigner builds a Signer from an Ed25519 private key.
func NewSigner(priv ed25519.PrivateKey) (Signer, error) {
	signer, err := cose.NewSigner(cose.AlgorithmEdDSA, priv)
	if err != nil {
		return Signer{}, err
	}
	pub, ok := priv.Public().(ed25519.PublicKey)
	if !ok {
		return Signer{}, errors.New("crypto: not an ed25519 private key")
	}
	return Signer{inner: signer, pub: pub}, nil
}

// PublicKey returns the verifying key paired with this signer.
func (s Signer) PublicKey() ed25519.PublicKey { return s.pub }

// Sign signs the given preimage bytes exactly as provided — callers are
// responsible for constructing the domain-separated preimage (see
// EventSigningPreimage, checkpoint.SigningPreimage, risk.Preimage).
func (s Signer) Sign(preimage []byte) ([]byte, error) {
	return s.inner.Sign(rand.Reader, preimage)
}

// Verifier checks Ed25519 signatures produced by Signer.
type Verifier struct {
	inner cose.Verifier
}

// NewVerifier builds a Verifier from an Ed25519 public key.
func NewVerifier(pub ed25519.PublicKey) (Verifier, error) {
	v, err := cose.NewVerifier(cose.AlgorithmEdDSA, pub)
	if err != nil {
		return Verifier{}, err
	}
	return Verifier{inner: v}, nil
}

// Verify reports whether signature is a valid signature of preimage.
func (v Verifier) Verify(preimage, signature []byte) error {
	if err := v.inner.Verify(preimage, signature); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

// EventSigningPreimage builds the normative preimage for an event signature
// (spec.md §4.1): the domain tag, the protocol version byte, then the raw
// event id bytes.
func EventSigningPreimage(eventID Hash) []byte {
	buf := make([]byte, 0, len(EventDomainTag)+1+HashSize)
	buf = append(buf, EventDomainTag...)
	buf = append(buf, ProtocolVersion)
	buf = append(buf, eventID[:]...)
	return buf
}

// SignEventID signs an event id under the event domain.
func SignEventID(signer Signer, eventID Hash) ([]byte, error) {
	return signer.Sign(EventSigningPreimage(eventID))
}

// VerifyEventID verifies a signature over an event id under the event
// domain. Feeding the bare id (without the domain prefix) into Verify is
// guaranteed to fail by construction — that's the domain-separation test
// required by spec.md §4.1.
func VerifyEventID(verifier Verifier, eventID Hash, signature []byte) error {
	return verifier.Verify(EventSigningPreimage(eventID), signature)
}
