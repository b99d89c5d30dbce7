// Package event implements the event envelope, its canonical binary
// encoding, and the computation of content-addressed event ids (spec.md
// §3, §4.3).
package event

import (
	"github.com/exochain/core/crypto"
	"github.com/exochain/core/hlc"
)

// Envelope is the pre-signature content of a ledger event (spec.md §3).
// Field order here matches the CBOR key order so the struct reads the same
// as its wire layout; the codec itself sorts map keys independent of
// struct field order, so this is purely for readability.
type Envelope struct {
	Parents     []crypto.Hash `cbor:"1,keyasint"`
	LogicalTime hlc.HLC       `cbor:"2,keyasint"`
	Author      string        `cbor:"3,keyasint"`
	KeyVersion  uint64        `cbor:"4,keyasint"`
	Payload     Payload       `cbor:"5,keyasint"`
}

// NewEnvelope builds an envelope with the given parents, HLC, author,
// key version and payload. Parents is always encoded as an explicit (not
// omitted) CBOR array, including when empty, per spec.md §6.
func NewEnvelope(parents []crypto.Hash, logicalTime hlc.HLC, author string, keyVersion uint64, payload Payload) Envelope {
	ps := make([]crypto.Hash, len(parents))
	copy(ps, parents)
	if ps == nil {
		ps = []crypto.Hash{}
	}
	return Envelope{
		Parents:     ps,
		LogicalTime: logicalTime,
		Author:      author,
		KeyVersion:  keyVersion,
		Payload:     payload,
	}
}

// Event is a fully formed ledger event: the envelope, its content-addressed
// id, and the author's signature over that id (spec.md §3).
type Event struct {
	Envelope  Envelope
	ID        crypto.Hash
	Signature []byte
}
