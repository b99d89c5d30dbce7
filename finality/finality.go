// Package finality defines the BFT gadget contract that gates checkpoint
// finality. The core treats consensus as an opaque collaborator (spec.md
// §4.9, §9): it never evaluates validator quorum itself.
package finality

import "github.com/exochain/core/checkpoint"

// Oracle decides whether a checkpoint has reached finality. A production
// deployment backs this with the live BFT consensus layer.
type Oracle interface {
	IsFinalized(payload checkpoint.Payload) bool
}

// StubOracle is the reference oracle: every checkpoint it is asked about is
// finalized unconditionally (spec.md §4.9: "the reference stub returns true
// unconditionally"). It exists so the append/checkpoint pipeline can be
// exercised end-to-end before a real consensus gadget is wired in.
type StubOracle struct{}

// IsFinalized implements Oracle.
func (StubOracle) IsFinalized(checkpoint.Payload) bool { return true }
