package mmr_test

import (
	"testing"

	"github.com/exochain/core/crypto"
	"github.com/exochain/core/mmr"
	"github.com/stretchr/testify/require"
)

func leafHash(b byte) crypto.Hash {
	return crypto.Sum([]byte{b})
}

// TestFiveLeafPeakStructure matches spec.md §8 example E: appending five
// leaves must leave peaks[0] and peaks[2] occupied, peaks[1] empty.
func TestFiveLeafPeakStructure(t *testing.T) {
	m := mmr.New()
	for i := byte(0); i < 5; i++ {
		m.Append(leafHash(i))
	}

	require.EqualValues(t, 5, m.Size)
	require.NotNil(t, m.Peaks[0])
	require.Nil(t, m.Peaks[1])
	require.NotNil(t, m.Peaks[2])

	root := m.Root()
	require.False(t, root.IsZero())
}

func TestEmptyRootIsZeroHash(t *testing.T) {
	m := mmr.New()
	require.True(t, m.Root().IsZero())
}

func TestPopcountMatchesOccupiedPeaks(t *testing.T) {
	m := mmr.New()
	for n := 1; n <= 32; n++ {
		m.Append(leafHash(byte(n)))
		occupied := 0
		for _, p := range m.Peaks {
			if p != nil {
				occupied++
			}
		}
		require.Equal(t, popcount(uint64(n)), occupied, "size=%d", n)
	}
}

func popcount(v uint64) int {
	c := 0
	for v != 0 {
		c += int(v & 1)
		v >>= 1
	}
	return c
}

func TestInclusionProofEveryLeafOfFiveLeafTree(t *testing.T) {
	m := mmr.New()
	leaves := make([]crypto.Hash, 5)
	for i := range leaves {
		leaves[i] = leafHash(byte(i))
		m.Append(leaves[i])
	}
	root := m.Root()

	for i := range leaves {
		proof, err := m.Prove(uint64(i))
		require.NoError(t, err)
		require.Equal(t, uint64(i), proof.LeafIndex)
		require.Equal(t, m.Size, proof.MMRSize)
		require.NoError(t, proof.Verify(leaves[i], root))
	}
}

func TestInclusionProofAcrossGrowingSizes(t *testing.T) {
	m := mmr.New()
	var leaves []crypto.Hash
	for n := 1; n <= 40; n++ {
		leaves = append(leaves, leafHash(byte(n)))
		m.Append(leaves[len(leaves)-1])
		root := m.Root()
		for i := range leaves {
			proof, err := m.Prove(uint64(i))
			require.NoError(t, err)
			require.NoError(t, proof.Verify(leaves[i], root), "size=%d leaf=%d", n, i)
		}
	}
}

func TestProofRejectsWrongLeaf(t *testing.T) {
	m := mmr.New()
	leaves := make([]crypto.Hash, 5)
	for i := range leaves {
		leaves[i] = leafHash(byte(i))
		m.Append(leaves[i])
	}
	root := m.Root()

	proof, err := m.Prove(0)
	require.NoError(t, err)
	require.ErrorIs(t, proof.Verify(leaves[1], root), mmr.ErrVerificationFailed)
}

func TestProofRejectsWrongRoot(t *testing.T) {
	m := mmr.New()
	leaves := make([]crypto.Hash, 5)
	for i := range leaves {
		leaves[i] = leafHash(byte(i))
		m.Append(leaves[i])
	}
	_ = m.Root()

	proof, err := m.Prove(0)
	require.NoError(t, err)
	require.ErrorIs(t, proof.Verify(leaves[0], crypto.Sum([]byte("not the root"))), mmr.ErrVerificationFailed)
}

func TestProveOutOfRangeIndex(t *testing.T) {
	m := mmr.New()
	m.Append(leafHash(0))
	_, err := m.Prove(1)
	require.ErrorIs(t, err, mmr.ErrLeafIndexOutOfRange)
}
