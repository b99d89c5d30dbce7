// Package risk implements the risk attestation: a signed, audience-bound,
// expiring score token issued by an external scoring engine (spec.md
// §4.10).
package risk

import (
	"errors"
	"sync"

	"github.com/exochain/core/crypto"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// Attestation is the normative risk attestation tuple (spec.md §3, §4.10).
type Attestation struct {
	Subject       string
	Audience      string
	Score         uint8
	ConfidenceBps uint16
	FactorsHash   crypto.Hash
	ContextHash   crypto.Hash
	Nonce         uint64
	IssuedAt      uint64
	ExpiresAt     uint64
	Issuer        string
	Signature     []byte
}

// preimageTuple is the 10-field subset of Attestation that feeds the
// signing preimage, encoded as a CBOR array (not a map) so field order is
// the wire order rather than key order.
type preimageTuple struct {
	_             struct{} `cbor:",toarray"`
	Subject       string
	Audience      string
	Score         uint8
	ConfidenceBps uint16
	FactorsHash   crypto.Hash
	ContextHash   crypto.Hash
	Nonce         uint64
	IssuedAt      uint64
	ExpiresAt     uint64
	Issuer        string
}

var (
	preimageEncMode     cbor.EncMode
	preimageEncModeOnce sync.Once
	preimageEncModeErr  error
)

func encMode() (cbor.EncMode, error) {
	preimageEncModeOnce.Do(func() {
		preimageEncMode, preimageEncModeErr = cbor.CanonicalEncOptions().EncMode()
	})
	return preimageEncMode, preimageEncModeErr
}

// Preimage builds the normative risk-attestation signing preimage
// (spec.md §4.1): the domain tag prepended to the canonical encoding of
// the 10-field tuple, excluding Signature.
func Preimage(a Attestation) ([]byte, error) {
	mode, err := encMode()
	if err != nil {
		return nil, err
	}
	body, err := mode.Marshal(preimageTuple{
		Subject:       a.Subject,
		Audience:      a.Audience,
		Score:         a.Score,
		ConfidenceBps: a.ConfidenceBps,
		FactorsHash:   a.FactorsHash,
		ContextHash:   a.ContextHash,
		Nonce:         a.Nonce,
		IssuedAt:      a.IssuedAt,
		ExpiresAt:     a.ExpiresAt,
		Issuer:        a.Issuer,
	})
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, len(crypto.RiskDomainTag)+len(body))
	buf = append(buf, crypto.RiskDomainTag...)
	buf = append(buf, body...)
	return buf, nil
}

// NewNonce generates an anti-replay nonce (spec.md §3: "nonce"), drawn from
// a UUIDv4's low 64 bits.
func NewNonce() uint64 {
	id := uuid.New()
	b := id[:]
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(b[8+i])
	}
	return v
}

// New fills every field but Signature, computes the preimage, and signs it
// under the issuer's signing key (spec.md §4.10).
func New(
	subject, audience string,
	score uint8,
	confidenceBps uint16,
	factorsHash, contextHash crypto.Hash,
	issuedAt, durationMS uint64,
	issuer string,
	signer crypto.Signer,
) (Attestation, error) {
	att := Attestation{
		Subject:       subject,
		Audience:      audience,
		Score:         score,
		ConfidenceBps: confidenceBps,
		FactorsHash:   factorsHash,
		ContextHash:   contextHash,
		Nonce:         NewNonce(),
		IssuedAt:      issuedAt,
		ExpiresAt:     issuedAt + durationMS,
		Issuer:        issuer,
	}
	preimage, err := Preimage(att)
	if err != nil {
		return Attestation{}, err
	}
	sig, err := signer.Sign(preimage)
	if err != nil {
		return Attestation{}, err
	}
	att.Signature = sig
	return att, nil
}

// ErrWrongAudience is returned by a verifier-side helper when an
// attestation's audience does not name the caller. Binding is the
// consumer's responsibility (spec.md §4.10): the package only exposes the
// comparison, it does not enforce it automatically.
var ErrWrongAudience = errors.New("risk: attestation audience does not match verifier")

// Verify recomputes the preimage and delegates to Ed25519 verification.
func Verify(a Attestation, verifier crypto.Verifier) error {
	preimage, err := Preimage(a)
	if err != nil {
		return err
	}
	return verifier.Verify(preimage, a.Signature)
}

// CheckAudience enforces the audience-binding rule a verifier MUST apply
// (spec.md §4.10): reject any attestation whose Audience is not the
// verifier's own DID.
func CheckAudience(a Attestation, verifierDID string) error {
	if a.Audience != verifierDID {
		return ErrWrongAudience
	}
	return nil
}

// IsExpired reports whether now is past the attestation's expiry.
func (a Attestation) IsExpired(now uint64) bool {
	return now > a.ExpiresAt
}
