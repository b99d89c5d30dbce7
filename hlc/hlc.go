// Package hlc implements the Hybrid Logical Clock used to totally order
// causally related events (spec.md §3, §4.2).
package hlc

import "fmt"

// HLC is a (physical_ms, logical) pair. The total order is lexicographic on
// the pair: physical time first, logical counter as tiebreaker.
type HLC struct {
	PhysicalMS uint64 `cbor:"1,keyasint"`
	Logical    uint32 `cbor:"2,keyasint"`
}

// Compare returns -1, 0 or 1 as h is less than, equal to, or greater than
// other, under the HLC total order.
func (h HLC) Compare(other HLC) int {
	switch {
	case h.PhysicalMS < other.PhysicalMS:
		return -1
	case h.PhysicalMS > other.PhysicalMS:
		return 1
	case h.Logical < other.Logical:
		return -1
	case h.Logical > other.Logical:
		return 1
	default:
		return 0
	}
}

// Before reports whether h strictly precedes other.
func (h HLC) Before(other HLC) bool { return h.Compare(other) < 0 }

// After reports whether h strictly follows other.
func (h HLC) After(other HLC) bool { return h.Compare(other) > 0 }

func (h HLC) String() string {
	return fmt.Sprintf("(%d,%d)", h.PhysicalMS, h.Logical)
}

// DefaultSkewBound is the suggested maximum number of milliseconds a
// parent's physical time may lead the local wall clock before New rejects
// it (spec.md §4.2: "suggested 60 s"). It is a policy knob, not a hard
// protocol constant — callers may override it with WithSkewBound.
const DefaultSkewBound uint64 = 60_000

// Options configures New.
type Options struct {
	skewBoundMS uint64
}

// Option mutates Options. Follows the functional-options convention the
// teacher uses for its reader/storage configuration (massifs/options.go).
type Option func(*Options)

// WithSkewBound overrides the maximum tolerated lead of a parent's physical
// time over the local node time, in milliseconds. A value of 0 disables the
// check.
func WithSkewBound(ms uint64) Option {
	return func(o *Options) { o.skewBoundMS = ms }
}

func newOptions(opts []Option) Options {
	o := Options{skewBoundMS: DefaultSkewBound}
	for _, apply := range opts {
		apply(&o)
	}
	return o
}

// ErrSkewExceeded is returned by New when a parent's physical time leads the
// local node time by more than the configured skew bound.
type ErrSkewExceeded struct {
	NodeTimeMS   uint64
	ParentTimeMS uint64
	BoundMS      uint64
}

func (e *ErrSkewExceeded) Error() string {
	return fmt.Sprintf("hlc: parent physical time %d exceeds node time %d by more than skew bound %d",
		e.ParentTimeMS, e.NodeTimeMS, e.BoundMS)
}

// New computes the HLC for a freshly authored event, given the local node's
// wall-clock reading (in milliseconds) and the HLCs of its parents, per the
// merge rule in spec.md §4.2:
//
//	max_p_phys = max(p.physical_ms) over parents, or 0 if none
//	phys       = max(node_time, max_p_phys)
//	if phys == max_p_phys: logical = 1 + max(p.logical for p where p.physical_ms == phys, or 0)
//	else:                  logical = 0
//
// The result is strictly greater, under Compare, than every parent HLC.
func New(nodeTimeMS uint64, parents []HLC, opts ...Option) (HLC, error) {
	o := newOptions(opts)

	var maxParentPhysical uint64
	for _, p := range parents {
		if p.PhysicalMS > maxParentPhysical {
			maxParentPhysical = p.PhysicalMS
		}
	}

	if o.skewBoundMS > 0 && maxParentPhysical > nodeTimeMS && maxParentPhysical-nodeTimeMS > o.skewBoundMS {
		return HLC{}, &ErrSkewExceeded{NodeTimeMS: nodeTimeMS, ParentTimeMS: maxParentPhysical, BoundMS: o.skewBoundMS}
	}

	physical := nodeTimeMS
	if maxParentPhysical > physical {
		physical = maxParentPhysical
	}

	var logical uint32
	if physical == maxParentPhysical {
		var maxLogical uint32
		for _, p := range parents {
			if p.PhysicalMS == physical && p.Logical > maxLogical {
				maxLogical = p.Logical
			}
		}
		logical = maxLogical + 1
	}

	return HLC{PhysicalMS: physical, Logical: logical}, nil
}
