// Package crypto provides the hash and signature primitives shared by every
// other package in the module: the 32-byte BLAKE3 hash wrapper and the
// domain-separated Ed25519 signing scheme (spec.md §4.1).
package crypto

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// HashSize is the width, in bytes, of every hash in the system.
const HashSize = 32

// Hash is an opaque 32-byte value. Two hashes compare equal iff byte-equal.
type Hash [HashSize]byte

// ZeroHash is the sentinel root for an empty accumulator.
var ZeroHash Hash

// Sum computes the BLAKE3 hash of data.
func Sum(data []byte) Hash {
	return Hash(blake3.Sum256(data))
}

// Bytes returns a copy of the hash's raw bytes.
func (h Hash) Bytes() []byte {
	out := make([]byte, HashSize)
	copy(out, h[:])
	return out
}

// String renders the hash as lowercase hex, the human-readable encoding
// named in spec.md §3.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero reports whether h is the all-zero sentinel.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// HashFromBytes builds a Hash from a byte slice, failing if the length is
// wrong.
func HashFromBytes(b []byte) (Hash, bool) {
	var h Hash
	if len(b) != HashSize {
		return h, false
	}
	copy(h[:], b)
	return h, true
}
