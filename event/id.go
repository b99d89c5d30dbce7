package event

import "github.com/exochain/core/crypto"

// ComputeID computes the canonical event id: the BLAKE3 hash of the
// envelope's deterministic CBOR encoding (spec.md §3, §4.3).
func ComputeID(codec Codec, env Envelope) (crypto.Hash, error) {
	b, err := codec.CanonicalBytes(env)
	if err != nil {
		return crypto.Hash{}, err
	}
	return crypto.Sum(b), nil
}

// VerifyID recomputes an event's id from its envelope and reports whether
// it matches id. Used both by the append pipeline (step 3, §4.5) and by
// periodic corruption scans (§4.4's "any hash re-computation ... must
// yield the stored id").
func VerifyID(codec Codec, env Envelope, id crypto.Hash) (bool, error) {
	got, err := ComputeID(codec, env)
	if err != nil {
		return false, err
	}
	return got == id, nil
}
