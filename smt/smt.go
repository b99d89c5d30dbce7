// Package smt computes the state root: a deterministic Merkle function over
// a Hash -> Hash key/value mapping, independent of insertion order.
package smt

import (
	"sort"

	"github.com/exochain/core/crypto"
)

// Map is a builder for the sorted-pairwise Merkle root over a set of
// key/value hash pairs (spec.md §4.8). The zero value is an empty map.
type Map struct {
	entries map[crypto.Hash]crypto.Hash
}

// New returns an empty Map.
func New() *Map {
	return &Map{entries: make(map[crypto.Hash]crypto.Hash)}
}

// Update sets key's value, overwriting any prior value.
func (m *Map) Update(key, value crypto.Hash) {
	if m.entries == nil {
		m.entries = make(map[crypto.Hash]crypto.Hash)
	}
	m.entries[key] = value
}

// Len reports the number of distinct keys in the map.
func (m *Map) Len() int {
	return len(m.entries)
}

// Root computes the map's state root. The empty map's root is the all-zero
// hash; otherwise entries are sorted by key, hashed into leaves, and
// merged pairwise level by level, promoting an odd trailing leaf unchanged.
func (m *Map) Root() crypto.Hash {
	if len(m.entries) == 0 {
		return crypto.ZeroHash
	}

	keys := make([]crypto.Hash, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return lessHash(keys[i], keys[j])
	})

	level := make([]crypto.Hash, len(keys))
	for i, k := range keys {
		level[i] = leafHash(k, m.entries[k])
	}

	for len(level) > 1 {
		next := make([]crypto.Hash, 0, (len(level)+1)/2)
		for i := 0; i+1 < len(level); i += 2 {
			next = append(next, branchHash(level[i], level[i+1]))
		}
		if len(level)%2 == 1 {
			next = append(next, level[len(level)-1])
		}
		level = next
	}
	return level[0]
}

func lessHash(a, b crypto.Hash) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func leafHash(key, value crypto.Hash) crypto.Hash {
	buf := make([]byte, 0, 2*crypto.HashSize)
	buf = append(buf, key.Bytes()...)
	buf = append(buf, value.Bytes()...)
	return crypto.Sum(buf)
}

func branchHash(left, right crypto.Hash) crypto.Hash {
	buf := make([]byte, 0, 2*crypto.HashSize)
	buf = append(buf, left.Bytes()...)
	buf = append(buf, right.Bytes()...)
	return crypto.Sum(buf)
}
