package mmr

import (
	"errors"
	"fmt"

	"github.com/exochain/core/crypto"
)

// ErrLeafIndexOutOfRange is returned by Prove for an index not yet appended.
var ErrLeafIndexOutOfRange = errors.New("mmr: leaf index out of range")

// Mmr is the append-only accumulator described in spec.md §4.6. Peaks[h] is
// non-nil iff bit h of Size is set, and holds the root of the perfect
// binary subtree of 2^h leaves occupying that slot.
type Mmr struct {
	Size  uint64
	Peaks []*crypto.Hash

	leaves []crypto.Hash
}

// New returns an empty accumulator.
func New() *Mmr {
	return &Mmr{}
}

// Append folds leaf into the accumulator (spec.md §4.6): amortized O(1),
// worst case O(log Size).
func (m *Mmr) Append(leaf crypto.Hash) {
	m.leaves = append(m.leaves, leaf)

	current := leaf
	h := 0
	for {
		if h >= len(m.Peaks) {
			m.Peaks = append(m.Peaks, nil)
		}
		if m.Peaks[h] == nil {
			v := current
			m.Peaks[h] = &v
			break
		}
		merged := hashPair(*m.Peaks[h], current)
		m.Peaks[h] = nil
		current = merged
		h++
	}
	m.Size++
}

// Root bags the live peaks into a single accumulator root (spec.md §4.6).
// The all-zero hash is the sentinel root of an empty accumulator.
func (m *Mmr) Root() crypto.Hash {
	heights := m.occupiedHeightsAscending()
	if len(heights) == 0 {
		return crypto.ZeroHash
	}
	root := *m.Peaks[heights[len(heights)-1]]
	for i := len(heights) - 2; i >= 0; i-- {
		root = hashPair(*m.Peaks[heights[i]], root)
	}
	return root
}

// occupiedHeightsAscending returns the heights of non-empty peaks, lowest
// first — equivalently, the set bits of Size from least to most significant.
func (m *Mmr) occupiedHeightsAscending() []int {
	var heights []int
	for h, p := range m.Peaks {
		if p != nil {
			heights = append(heights, h)
		}
	}
	return heights
}

func hashPair(left, right crypto.Hash) crypto.Hash {
	buf := make([]byte, 0, 2*crypto.HashSize)
	buf = append(buf, left.Bytes()...)
	buf = append(buf, right.Bytes()...)
	return crypto.Sum(buf)
}

func (m *Mmr) validateLeafIndex(leafIndex uint64) error {
	if leafIndex >= m.Size {
		return fmt.Errorf("%w: index %d size %d", ErrLeafIndexOutOfRange, leafIndex, m.Size)
	}
	return nil
}
