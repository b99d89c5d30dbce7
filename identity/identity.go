// Package identity is the core's narrow contract with the DID identity
// fabric (an external collaborator, spec.md §1, §6, §9): public-key
// resolution by (did, key_version), and the normative DID derivation rule.
// It deliberately does not implement DID document lifecycle, revocation
// scheduling, or key rotation policy — those belong to the identity fabric
// named out of scope.
package identity

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"sync"

	"github.com/exochain/core/crypto"
	"github.com/mr-tron/base58"
)

// KeyError is the error family returned by Resolver.Resolve (spec.md §6).
// The append pipeline treats every variant as InvalidSignature at its
// surface (spec.md §6), but collaborators and diagnostics get the detail.
type KeyError struct {
	Kind KeyErrorKind
	DID  string
	Ver  uint64
}

// KeyErrorKind enumerates the KeyError variants named in spec.md §6.
type KeyErrorKind int

const (
	KeyErrorNotFound KeyErrorKind = iota
	KeyErrorRevoked
	KeyErrorExpired
	KeyErrorInvalidFormat
)

func (e *KeyError) Error() string {
	var kind string
	switch e.Kind {
	case KeyErrorNotFound:
		kind = "not found"
	case KeyErrorRevoked:
		kind = "revoked"
	case KeyErrorExpired:
		kind = "expired"
	case KeyErrorInvalidFormat:
		kind = "invalid format"
	default:
		kind = "unknown"
	}
	return fmt.Sprintf("identity: key %s (did=%s version=%d)", kind, e.DID, e.Ver)
}

// Resolver resolves a (did, key_version) pair to the verifying key that was
// current for that author at that version (spec.md §6).
type Resolver interface {
	Resolve(did string, keyVersion uint64) (crypto.Verifier, error)
}

// DeriveDID computes the normative DID for a public key (spec.md §6):
//
//	did = "did:exo:" ‖ base58( BLAKE3(pubkey)[0..20] )
func DeriveDID(pub ed25519.PublicKey) string {
	sum := crypto.Sum(pub)
	truncated := sum[:20]
	return "did:exo:" + base58.Encode(truncated)
}

// StaticResolver is an in-memory (did, key_version) -> verifying key map.
// It is the reference collaborator used by the append pipeline's tests and
// examples; a production deployment resolves against the live DID fabric
// instead (spec.md §9: "Break the cycle by passing the key-resolution
// capability inward as an interface").
type StaticResolver struct {
	mu   sync.RWMutex
	keys map[keyRef]crypto.Verifier
	bad  map[keyRef]KeyErrorKind
}

type keyRef struct {
	did string
	ver uint64
}

// NewStaticResolver builds an empty StaticResolver.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		keys: make(map[keyRef]crypto.Verifier),
		bad:  make(map[keyRef]KeyErrorKind),
	}
}

// Register associates (did, keyVersion) with a verifying key.
func (r *StaticResolver) Register(did string, keyVersion uint64, verifier crypto.Verifier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys[keyRef{did, keyVersion}] = verifier
}

// Revoke marks (did, keyVersion) as revoked or expired; subsequent Resolve
// calls return the corresponding KeyError instead of the key.
func (r *StaticResolver) Revoke(did string, keyVersion uint64, kind KeyErrorKind) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bad[keyRef{did, keyVersion}] = kind
}

// Resolve implements Resolver.
func (r *StaticResolver) Resolve(did string, keyVersion uint64) (crypto.Verifier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref := keyRef{did, keyVersion}
	if kind, revoked := r.bad[ref]; revoked {
		return crypto.Verifier{}, &KeyError{Kind: kind, DID: did, Ver: keyVersion}
	}
	v, ok := r.keys[ref]
	if !ok {
		return crypto.Verifier{}, &KeyError{Kind: KeyErrorNotFound, DID: did, Ver: keyVersion}
	}
	return v, nil
}

var errNotEd25519 = errors.New("identity: key material is not a 32-byte ed25519 public key")

// VerifierFromPublicKey is a convenience wrapper for constructing a
// crypto.Verifier from raw Ed25519 public key bytes, used when registering
// keys obtained from wire formats (e.g. a DID document's multibase-encoded
// verification method).
func VerifierFromPublicKey(pub []byte) (crypto.Verifier, error) {
	if len(pub) != ed25519.PublicKeySize {
		return crypto.Verifier{}, errNotEd25519
	}
	return crypto.NewVerifier(ed25519.PublicKey(pub))
}
