// Package checkpoint builds and verifies checkpoint payloads: the periodic
// folding of newly-finalized event ids into the MMR (FoldFinalizedEvents),
// and the signing of a payload by a validator set (spec.md §4.9). The
// payload's StateRoot is computed by the caller (for example with package
// smt); this package does not touch the SMT itself.
package checkpoint

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/exochain/core/crypto"
)

// Payload is the checkpoint body (spec.md §4.1, §4.9). Height is strictly
// monotonic across a checkpointer's lifetime; FinalizedEvents equals the
// number of events folded into EventRoot.
type Payload struct {
	EventRoot       crypto.Hash
	StateRoot       crypto.Hash
	Height          uint64
	FinalizedEvents uint64
	Frontier        []crypto.Hash
	ValidatorSigs   []ValidatorSignature
}

// ValidatorSignature pairs a validator's identity with its signature over
// the checkpoint's signing preimage.
type ValidatorSignature struct {
	ValidatorDID string
	KeyVersion   uint64
	Signature    []byte
}

// SigningPreimage builds the normative checkpoint signing preimage
// (spec.md §4.1):
//
//	"EXOCHAIN-CHECKPOINT-v1" ‖ event_root ‖ state_root ‖ LE64(height) ‖
//	LE64(finalized_events) ‖ concat(frontier)
//
// Unlike the event domain, there is no trailing protocol-version byte; the
// tag itself is versioned ("-v1").
func SigningPreimage(p Payload) []byte {
	size := len(crypto.CheckpointDomainTag) + 2*crypto.HashSize + 8 + 8 + len(p.Frontier)*crypto.HashSize
	buf := make([]byte, 0, size)
	buf = append(buf, crypto.CheckpointDomainTag...)
	buf = append(buf, p.EventRoot[:]...)
	buf = append(buf, p.StateRoot[:]...)
	buf = appendLE64(buf, p.Height)
	buf = appendLE64(buf, p.FinalizedEvents)
	for _, f := range p.Frontier {
		buf = append(buf, f[:]...)
	}
	return buf
}

func appendLE64(buf []byte, v uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return append(buf, b[:]...)
}

// ErrNoValidatorSignatures is returned by Sign when no signers are supplied;
// an unsigned checkpoint cannot be published.
var ErrNoValidatorSignatures = errors.New("checkpoint: no validator signatures supplied")

// Signatory pairs a validator's DID/key-version with the signer that holds
// its private key, so Sign can produce ValidatorSignature entries in one
// pass.
type Signatory struct {
	ValidatorDID string
	KeyVersion   uint64
	Signer       crypto.Signer
}

// Sign computes the signing preimage once and has every signatory sign it,
// returning payload with ValidatorSigs populated.
func Sign(payload Payload, signatories []Signatory) (Payload, error) {
	if len(signatories) == 0 {
		return Payload{}, ErrNoValidatorSignatures
	}
	preimage := SigningPreimage(payload)
	sigs := make([]ValidatorSignature, 0, len(signatories))
	for _, s := range signatories {
		raw, err := s.Signer.Sign(preimage)
		if err != nil {
			return Payload{}, fmt.Errorf("checkpoint: signing by %s: %w", s.ValidatorDID, err)
		}
		sigs = append(sigs, ValidatorSignature{ValidatorDID: s.ValidatorDID, KeyVersion: s.KeyVersion, Signature: raw})
	}
	payload.ValidatorSigs = sigs
	return payload, nil
}

// VerifySignature checks one validator's signature against payload using
// the supplied verifier; the caller resolves that validator's verifying key
// beforehand. The core does not evaluate
// quorum rules over the result (spec.md §4.9); that is a consensus concern.
func VerifySignature(payload Payload, sig ValidatorSignature, verifier crypto.Verifier) error {
	return verifier.Verify(SigningPreimage(payload), sig.Signature)
}
