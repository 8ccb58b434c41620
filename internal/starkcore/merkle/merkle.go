// Package merkle implements the batched-leaf Merkle commitment used to
// commit to trace, auxiliary, composition, and FRI-layer evaluations. Each
// leaf is a vector of field elements (e.g. every main-trace column at one
// LDE index) rather than a single value, so one tree and one authentication
// path cover all columns at a row.
package merkle

import (
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/starkcore/internal/starkcore/field"
)

// Digest is the tree's fixed 32-byte node hash.
type Digest [32]byte

// HashLeaf hashes a batched leaf: the big-endian encodings of its field
// elements, concatenated in order.
func HashLeaf(values []field.Element) Digest {
	h := sha3.New256()
	for _, v := range values {
		b := v.Bytes()
		h.Write(b[:])
	}
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

func hashNode(left, right Digest) Digest {
	h := sha3.New256()
	h.Write(left[:])
	h.Write(right[:])
	var d Digest
	copy(d[:], h.Sum(nil))
	return d
}

// Tree is an immutable Merkle tree over batched leaves. Once built it is
// safe for concurrent reads (Root, Prove).
type Tree struct {
	levels [][]Digest // levels[0] = leaf hashes, levels[last] = {root}
}

// Build constructs a tree from leaves, each a vector of field elements.
// Levels with an odd number of nodes duplicate the last node, matching the
// convention used throughout the prover's batched commitments.
func Build(leaves [][]field.Element) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, fmt.Errorf("merkle: cannot build a tree with no leaves")
	}

	leafHashes := make([]Digest, len(leaves))
	for i, leaf := range leaves {
		leafHashes[i] = HashLeaf(leaf)
	}

	levels := [][]Digest{leafHashes}
	current := leafHashes
	for len(current) > 1 {
		next := make([]Digest, (len(current)+1)/2)
		for i := range next {
			left := current[2*i]
			var right Digest
			if 2*i+1 < len(current) {
				right = current[2*i+1]
			} else {
				right = left
			}
			next[i] = hashNode(left, right)
		}
		levels = append(levels, next)
		current = next
	}

	return &Tree{levels: levels}, nil
}

// Root returns the tree's root digest.
func (t *Tree) Root() Digest {
	top := t.levels[len(t.levels)-1]
	return top[0]
}

// Depth returns ceil(log2(leaf count)).
func (t *Tree) Depth() int {
	return len(t.levels) - 1
}

// LeafCount returns the number of leaves the tree was built over.
func (t *Tree) LeafCount() int {
	return len(t.levels[0])
}

// AuthPath is the list of sibling digests from a leaf up to the root.
type AuthPath []Digest

// Prove returns the authentication path for the leaf at index.
func (t *Tree) Prove(index int) (AuthPath, error) {
	if index < 0 || index >= t.LeafCount() {
		return nil, fmt.Errorf("merkle: index %d out of range [0, %d)", index, t.LeafCount())
	}

	path := make(AuthPath, 0, len(t.levels)-1)
	idx := index
	for level := 0; level < len(t.levels)-1; level++ {
		nodes := t.levels[level]
		var siblingIdx int
		if idx%2 == 0 {
			siblingIdx = idx + 1
		} else {
			siblingIdx = idx - 1
		}
		if siblingIdx >= len(nodes) {
			siblingIdx = idx // duplicated last node
		}
		path = append(path, nodes[siblingIdx])
		idx /= 2
	}
	return path, nil
}

// Verify recomputes the root from a claimed leaf, its index, and an
// authentication path, and reports whether it matches root.
func Verify(root Digest, leaf []field.Element, index int, path AuthPath) bool {
	current := HashLeaf(leaf)
	idx := index
	for _, sibling := range path {
		if idx%2 == 0 {
			current = hashNode(current, sibling)
		} else {
			current = hashNode(sibling, current)
		}
		idx /= 2
	}
	return current == root
}
