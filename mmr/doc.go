/*
Package mmr implements the event accumulator: a Merkle Mountain Range that
commits to the append order of finalized event ids.

An MMR never rewrites history. Every Append either starts a new one-leaf
peak or merges it into existing peaks of the same height, so the sequence
of peak heights after n leaves is exactly the binary representation of n —
popcount(n) peaks, one per set bit. That single invariant is what makes the
structure cheap to verify and cheap to extend: a verifier that only ever
saw an old root can be shown, with a short consistency proof, that a new
root is a strict extension of it, without replaying every leaf in between.

This package tracks the full leaf log alongside the peaks so that
inclusion proofs can be produced for any historical leaf, not only the
most recently appended one. The peaks themselves are enough to compute the
root; the leaf log is only consulted by Prove.
*/
package mmr
