package append

import (
	"errors"
	"sync"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/exochain/core/crypto"
	"github.com/exochain/core/event"
	"github.com/exochain/core/identity"
	"github.com/exochain/core/store"
)

var loggerOnce sync.Once

func ensureLogger() {
	loggerOnce.Do(func() { logger.New("NOOP") })
}

// Pipeline runs the ordered validation-before-persistence checks every
// incoming event must pass (spec.md §4.5, §7): parent existence, causal
// HLC ordering, id integrity, signature, then store insertion. Pure steps
// (hashing, HLC comparison, signature verify) run synchronously; store I/O is
// the only suspension point.
type Pipeline struct {
	Store    store.Store
	Codec    event.Codec
	Resolver identity.Resolver
	Log      logger.Logger
}

// NewPipeline builds a Pipeline with the reference NOOP logger at the
// "append" service name; pass WithLogger to override it, mirroring how the
// teacher's test harness swaps in a differently-scoped logger.Sugar.
func NewPipeline(s store.Store, codec event.Codec, resolver identity.Resolver, opts ...Option) *Pipeline {
	ensureLogger()
	p := &Pipeline{
		Store:    s,
		Codec:    codec,
		Resolver: resolver,
		Log:      logger.Sugar.WithServiceName("append"),
	}
	for _, apply := range opts {
		apply(p)
	}
	return p
}

// Append validates and persists ev, in the order mandated by spec.md §4.5:
//
//  1. every parent id must already exist in the store.
//  2. ev's HLC must strictly exceed every parent's HLC.
//  3. recomputing ev.ID from ev.Envelope must match the stored id.
//  4. the signature must verify under the author's resolved key.
//  5. insert into the store.
func (p *Pipeline) Append(ev event.Event) error {
	for _, parentID := range ev.Envelope.Parents {
		ok, err := p.Store.Contains(parentID)
		if err != nil {
			return &StoreError{Err: err}
		}
		if !ok {
			p.Log.Debugf("append: rejecting event %s: missing parent %s", ev.ID, parentID)
			return &ParentNotFoundError{ParentID: parentID}
		}
	}

	for _, parentID := range ev.Envelope.Parents {
		parent, err := p.Store.Get(parentID)
		if err != nil {
			return &StoreError{Err: err}
		}
		if !ev.Envelope.LogicalTime.After(parent.Envelope.LogicalTime) {
			p.Log.Debugf("append: rejecting event %s: causality violation against parent %s", ev.ID, parentID)
			return &CausalityViolationError{EventHLC: ev.Envelope.LogicalTime}
		}
	}

	ok, err := event.VerifyID(p.Codec, ev.Envelope, ev.ID)
	if err != nil {
		p.Log.Debugf("append: rejecting event %s: id recomputation failed: %v", ev.ID, err)
		return errors.Join(ErrCryptoError, err)
	}
	if !ok {
		p.Log.Debugf("append: rejecting event %s: id does not match envelope", ev.ID)
		return ErrCryptoError
	}

	verifier, err := p.Resolver.Resolve(ev.Envelope.Author, ev.Envelope.KeyVersion)
	if err != nil {
		p.Log.Debugf("append: rejecting event %s: key resolution failed: %v", ev.ID, err)
		return errors.Join(ErrInvalidSignature, err)
	}
	if err := crypto.VerifyEventID(verifier, ev.ID, ev.Signature); err != nil {
		p.Log.Debugf("append: rejecting event %s: signature verification failed", ev.ID)
		return errors.Join(ErrInvalidSignature, err)
	}

	if err := p.Store.Insert(ev); err != nil {
		return &StoreError{Err: err}
	}
	p.Log.Infof("append: accepted event %s at hlc %s", ev.ID, ev.Envelope.LogicalTime)
	return nil
}

// VerifyIntegrity independently re-walks a stored event: its parents must
// still be present in s, its id must still match its envelope, and its
// signature must still verify under the author's resolved key. It is a
// read-only audit primitive supplementing the append pipeline (grounded in
// the original prototype's verify_integrity helper, which walks
// store.contains_event over every parent before recomputing the id), used
// by checkpoint.FoldFinalizedEvents to re-check an event immediately before
// folding its id into the MMR.
func VerifyIntegrity(s store.Store, codec event.Codec, resolver identity.Resolver, ev event.Event) error {
	for _, parentID := range ev.Envelope.Parents {
		ok, err := s.Contains(parentID)
		if err != nil {
			return &StoreError{Err: err}
		}
		if !ok {
			return &ParentNotFoundError{ParentID: parentID}
		}
	}

	ok, err := event.VerifyID(codec, ev.Envelope, ev.ID)
	if err != nil {
		return errors.Join(ErrCryptoError, err)
	}
	if !ok {
		return ErrCryptoError
	}
	verifier, err := resolver.Resolve(ev.Envelope.Author, ev.Envelope.KeyVersion)
	if err != nil {
		return errors.Join(ErrInvalidSignature, err)
	}
	if err := crypto.VerifyEventID(verifier, ev.ID, ev.Signature); err != nil {
		return errors.Join(ErrInvalidSignature, err)
	}
	return nil
}
