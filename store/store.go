// Package store defines the DAG store contract (spec.md §4.4) and its
// in-memory reference implementation. The store performs no validation; it
// trusts the append pipeline in package append to have done that already.
package store

import (
	"errors"
	"fmt"

	"github.com/exochain/core/crypto"
	"github.com/exochain/core/event"
)

// ErrNotFound is returned by Get for an id the store has never seen.
// Contains reports such an id as absent (false) rather than as an error.
var ErrNotFound = errors.New("store: event not found")

// ErrMismatch is returned by Insert when a different event with the same id
// is offered — unreachable given BLAKE3 collision resistance, but the check
// is mandatory (spec.md §4.4).
var ErrMismatch = errors.New("store: event id collision with differing content")

// IoError wraps a storage-layer failure (spec.md §6: `Io(msg)`), including
// the reader-writer poisoning case (spec.md §5).
type IoError struct {
	Msg string
}

func (e *IoError) Error() string { return fmt.Sprintf("store: io error: %s", e.Msg) }

// NewIoError builds an IoError, matching the teacher's convention of
// embedding context directly in the error's message (massifs/errors.go).
func NewIoError(msg string) error { return &IoError{Msg: msg} }

// Store is the hash-addressed get/contains/insert contract every DAG
// backend — in-memory or durable — must satisfy (spec.md §4.4). All three
// operations are safe to call concurrently.
type Store interface {
	// Get retrieves the event stored under id, or ErrNotFound.
	Get(id crypto.Hash) (event.Event, error)
	// Contains reports whether id is present.
	Contains(id crypto.Hash) (bool, error)
	// Insert persists ev. Idempotent on ev.ID equality; rejects a differing
	// event offered under an id already in the store (ErrMismatch).
	Insert(ev event.Event) error
}
