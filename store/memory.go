package store

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/exochain/core/crypto"
	"github.com/exochain/core/event"
)

// MemoryStore is the in-memory reference Store (spec.md §4.4, §5). It
// follows the "many readers or one writer" exclusion policy over the whole
// map named in spec.md §5: a single sync.RWMutex guards every key.
//
// If a writer panics while holding the lock, MemoryStore marks itself
// poisoned rather than silently exposing partial state to the next reader
// (spec.md §5: "a lock acquired from a panicked writer MUST surface as
// IoError(\"lock poisoned\")").
type MemoryStore struct {
	mu       sync.RWMutex
	events   map[crypto.Hash]event.Event
	poisoned atomic.Bool
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{events: make(map[crypto.Hash]event.Event)}
}

func (s *MemoryStore) checkPoisoned() error {
	if s.poisoned.Load() {
		return NewIoError("lock poisoned")
	}
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(id crypto.Hash) (ev event.Event, err error) {
	if err = s.checkPoisoned(); err != nil {
		return event.Event{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	found, ok := s.events[id]
	if !ok {
		return event.Event{}, ErrNotFound
	}
	return found, nil
}

// Contains implements Store.
func (s *MemoryStore) Contains(id crypto.Hash) (ok bool, err error) {
	if err = s.checkPoisoned(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok = s.events[id]
	return ok, nil
}

// Insert implements Store. It is idempotent on ev.ID: inserting the same
// event twice succeeds silently, but a different event offered under an id
// already present is rejected with ErrMismatch.
func (s *MemoryStore) Insert(ev event.Event) (err error) {
	if err = s.checkPoisoned(); err != nil {
		return err
	}

	s.mu.Lock()
	defer func() {
		if r := recover(); r != nil {
			s.poisoned.Store(true)
			s.mu.Unlock()
			err = NewIoError(fmt.Sprintf("lock poisoned: %v", r))
			return
		}
		s.mu.Unlock()
	}()

	if existing, ok := s.events[ev.ID]; ok {
		if !bytes.Equal(existing.Signature, ev.Signature) || !envelopesEqual(existing.Envelope, ev.Envelope) {
			return ErrMismatch
		}
		return nil
	}
	s.events[ev.ID] = ev
	return nil
}

func envelopesEqual(a, b event.Envelope) bool {
	if a.Author != b.Author || a.KeyVersion != b.KeyVersion || a.LogicalTime != b.LogicalTime {
		return false
	}
	if len(a.Parents) != len(b.Parents) {
		return false
	}
	for i := range a.Parents {
		if a.Parents[i] != b.Parents[i] {
			return false
		}
	}
	return a.Payload.Kind == b.Payload.Kind &&
		a.Payload.NetworkID == b.Payload.NetworkID &&
		a.Payload.DIDDocCID == b.Payload.DIDDocCID &&
		bytes.Equal(a.Payload.Bytes, b.Payload.Bytes)
}
