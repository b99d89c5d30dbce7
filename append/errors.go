// Package append implements the full-validation-before-persistence pipeline
// described in spec.md §4.5 and §7.
package append

import (
	"errors"
	"fmt"

	"github.com/exochain/core/crypto"
	"github.com/exochain/core/hlc"
)

// ParentNotFoundError reports a parent id absent from the store (spec.md
// §4.5 step 1, §7). It also covers the store's NotFound being rewritten to
// a parent-specific error, per spec.md §7.
type ParentNotFoundError struct {
	ParentID crypto.Hash
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("append: parent not found: %s", e.ParentID)
}

// CausalityViolationError reports an event whose HLC does not strictly
// exceed one of its parents' (spec.md §4.5 step 2).
type CausalityViolationError struct {
	EventHLC hlc.HLC
}

func (e *CausalityViolationError) Error() string {
	return fmt.Sprintf("append: causality violation at event hlc %s", e.EventHLC)
}

// ErrInvalidSignature covers every identity-collaborator failure mode
// (KeyError.NotFound/Revoked/Expired/InvalidFormat) as well as a signature
// that fails cryptographic verification — the append pipeline treats all of
// these as one class at its surface (spec.md §6).
var ErrInvalidSignature = errors.New("append: invalid signature")

// ErrCryptoError covers id-mismatch and canonical-encoding failures
// (spec.md §4.5 step 3, §7).
var ErrCryptoError = errors.New("append: crypto error: recomputed id does not match")

// StoreError wraps a failure from the underlying store, reported verbatim
// (spec.md §7: "Store I/O errors are surfaced without mutation").
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("append: store error: %v", e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
