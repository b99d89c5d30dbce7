package mmr

import (
	"errors"
	"fmt"

	"github.com/exochain/core/crypto"
)

// ErrVerificationFailed is returned by Verify when the reconstructed hash
// does not match the claimed root.
var ErrVerificationFailed = errors.New("mmr: inclusion proof does not verify")

// Proof is an inclusion proof for a single leaf (spec.md §4.7): the leaf's
// position, the accumulator size the proof was produced against, and the
// flattened sibling list needed to walk from the leaf to the root.
//
// Siblings is split, by position alone, into two runs with no extra
// framing stored:
//
//   - the first run — one entry per level of the leaf's home peak — is the
//     ordinary mountain-climb: at each level the current node's index
//     parity says whether the sibling sits to its left or right.
//   - the remaining run bags the other peaks into the climbed value
//     exactly as Root does: peaks above the leaf's home peak are folded
//     into one carried value first (if any) and combined on the right,
//     then peaks below are folded in one at a time, each combined on the
//     left, highest height to lowest.
//
// Verify needs no input beyond (LeafIndex, MMRSize, Siblings) to know
// where the climb ends and the bagging begins, because both runs' lengths
// are fully determined by where LeafIndex falls in the binary
// decomposition of MMRSize.
type Proof struct {
	LeafIndex uint64
	MMRSize   uint64
	Siblings  []crypto.Hash
}

type peakChunk struct {
	height int
	base   uint64
}

// peakChunks decomposes size into its occupied peaks, ordered left to
// right across the leaf sequence — i.e. by descending height, since
// Append always starts the newest subtree at height 0 and the earliest
// leaves end up under the tallest surviving peak.
func peakChunks(size uint64) []peakChunk {
	var chunks []peakChunk
	var base uint64
	for h := 63; h >= 0; h-- {
		if size&(uint64(1)<<uint(h)) != 0 {
			chunks = append(chunks, peakChunk{height: h, base: base})
			base += uint64(1) << uint(h)
		}
	}
	return chunks
}

// homePeak locates the chunk covering leafIndex and that chunk's rank
// (0 = lowest) among the occupied heights taken in ascending order.
func homePeak(size, leafIndex uint64) (height int, base uint64, rank int, heightsAscending []int) {
	chunks := peakChunks(size)
	heightsAscending = make([]int, len(chunks))
	for i, c := range chunks {
		heightsAscending[len(chunks)-1-i] = c.height
	}
	for _, c := range chunks {
		span := uint64(1) << uint(c.height)
		if leafIndex >= c.base && leafIndex < c.base+span {
			height, base = c.height, c.base
			break
		}
	}
	for i, h := range heightsAscending {
		if h == height {
			rank = i
			break
		}
	}
	return height, base, rank, heightsAscending
}

// Prove builds an inclusion proof for the leaf appended at leafIndex.
func (m *Mmr) Prove(leafIndex uint64) (Proof, error) {
	if err := m.validateLeafIndex(leafIndex); err != nil {
		return Proof{}, err
	}

	height, base, rank, heightsAsc := homePeak(m.Size, leafIndex)
	span := uint64(1) << uint(height)
	subtree := m.leaves[base : base+span]

	levels := make([][]crypto.Hash, height+1)
	levels[0] = append([]crypto.Hash(nil), subtree...)
	for l := 0; l < height; l++ {
		next := make([]crypto.Hash, len(levels[l])/2)
		for i := range next {
			next[i] = hashPair(levels[l][2*i], levels[l][2*i+1])
		}
		levels[l+1] = next
	}

	var siblings []crypto.Hash
	idx := leafIndex - base
	for l := 0; l < height; l++ {
		siblings = append(siblings, levels[l][idx^1])
		idx /= 2
	}

	top := len(heightsAsc) - 1
	if rank < top {
		carried := *m.Peaks[heightsAsc[top]]
		for j := top - 1; j > rank; j-- {
			carried = hashPair(*m.Peaks[heightsAsc[j]], carried)
		}
		siblings = append(siblings, carried)
	}
	for j := rank - 1; j >= 0; j-- {
		siblings = append(siblings, *m.Peaks[heightsAsc[j]])
	}

	return Proof{LeafIndex: leafIndex, MMRSize: m.Size, Siblings: siblings}, nil
}

// Verify checks that leaf was appended at p.LeafIndex in the accumulator
// whose root is claimedRoot, per the walk in spec.md §4.7.
func (p Proof) Verify(leaf crypto.Hash, claimedRoot crypto.Hash) error {
	if p.LeafIndex >= p.MMRSize {
		return fmt.Errorf("%w: leaf index %d out of range for size %d", ErrVerificationFailed, p.LeafIndex, p.MMRSize)
	}

	height, _, rank, heightsAsc := homePeak(p.MMRSize, p.LeafIndex)
	top := len(heightsAsc) - 1
	hasCarry := rank < top

	wantLen := height + len(heightsAsc) - 1
	if len(p.Siblings) != wantLen {
		return fmt.Errorf("%w: expected %d siblings, got %d", ErrVerificationFailed, wantLen, len(p.Siblings))
	}

	cur := leaf
	idx := p.LeafIndex
	for l := 0; l < height; l++ {
		s := p.Siblings[l]
		if idx&1 == 1 {
			cur = hashPair(s, cur)
		} else {
			cur = hashPair(cur, s)
		}
		idx >>= 1
	}

	i := height
	if hasCarry {
		cur = hashPair(cur, p.Siblings[i])
		i++
	}
	for ; i < len(p.Siblings); i++ {
		cur = hashPair(p.Siblings[i], cur)
	}

	if cur != claimedRoot {
		return ErrVerificationFailed
	}
	return nil
}
