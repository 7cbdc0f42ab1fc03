package store

import (
	"sort"

	"github.com/arbor-network/arbor/lib"
	"github.com/arbor-network/arbor/lib/crypto"
)

/*
	Tree is the authenticated view of the state. Every storage key is mapped to
	a fixed 256-bit leaf index by the domain-separated hash, and every value to
	a value digest; the root is the deterministic Merkle reduction of the leaf
	set in ascending index order.

	Because the reduction is a pure function of the final leaf set, the root is
	independent of mutation order within a block - two nodes that commit the
	same mutation set for a height converge on the same root bit-for-bit. The
	commit protocol still folds mutations in ascending key order so that any
	intermediate observation is deterministic too.

	A Tree is either the live tree owned by the storage core, or a historical
	reconstruction produced by replaying diff records on top of an epoch-base
	snapshot.
*/

type Tree struct {
	leaves    map[string][]byte // [string(leafIndex)] -> value digest
	sorted    []string          // leaf indexes in ascending order
	sortedLen int               // len(sorted)
	root      []byte            // cached root; recomputed when dirty
	dirty     bool
}

// NewTree() creates an empty tree
func NewTree() *Tree {
	return &Tree{
		leaves: make(map[string][]byte),
		sorted: make([]string, 0),
		dirty:  true,
	}
}

// NewTreeFromSnapshot() rebuilds a tree from a persisted epoch-base snapshot
func NewTreeFromSnapshot(snapshot *TreeSnapshot) (*Tree, lib.ErrorI) {
	t := NewTree()
	for _, leaf := range snapshot.Leaves {
		if len(leaf.Index) != crypto.HashSize || len(leaf.Digest) != crypto.HashSize {
			return nil, ErrInvalidMerkleTree("snapshot leaf has a malformed digest")
		}
		t.setLeaf(string(leaf.Index), leaf.Digest)
	}
	return t, nil
}

// Set() inserts or updates the leaf for a storage key and its value
func (t *Tree) Set(key, value []byte) {
	t.setLeaf(string(crypto.Hash(key)), crypto.Hash(value))
}

// Delete() removes the leaf for a storage key; deleting an absent key is a no-op
func (t *Tree) Delete(key []byte) {
	t.deleteLeaf(string(crypto.Hash(key)))
}

// Apply() folds one mutation into the tree
func (t *Tree) Apply(key, value []byte, delete bool) {
	if delete {
		t.Delete(key)
		return
	}
	t.Set(key, value)
}

// Has() reports whether a storage key holds a value in this tree
func (t *Tree) Has(key []byte) bool {
	_, found := t.leaves[string(crypto.Hash(key))]
	return found
}

// Len() returns the number of leaves
func (t *Tree) Len() int { return len(t.leaves) }

// Root() returns the root commitment, recomputing it only when the leaf set
// changed since the last computation
func (t *Tree) Root() []byte {
	if !t.dirty {
		return lib.CopyBytes(t.root)
	}
	items := make([][]byte, 0, t.sortedLen)
	for _, index := range t.sorted {
		items = append(items, append([]byte(index), t.leaves[index]...))
	}
	t.root, t.dirty = crypto.MerkleRoot(items), false
	return lib.CopyBytes(t.root)
}

// Snapshot() exports the sorted leaf set for persistence at an epoch boundary
func (t *Tree) Snapshot() *TreeSnapshot {
	snapshot := &TreeSnapshot{Leaves: make([]TreeLeaf, 0, t.sortedLen)}
	for _, index := range t.sorted {
		snapshot.Leaves = append(snapshot.Leaves, TreeLeaf{
			Index:  []byte(index),
			Digest: lib.CopyBytes(t.leaves[index]),
		})
	}
	return snapshot
}

// Copy() returns an independent copy of the tree
func (t *Tree) Copy() *Tree {
	cp := &Tree{
		leaves:    make(map[string][]byte, len(t.leaves)),
		sorted:    make([]string, t.sortedLen),
		sortedLen: t.sortedLen,
		root:      lib.CopyBytes(t.root),
		dirty:     t.dirty,
	}
	for k, v := range t.leaves {
		cp.leaves[k] = lib.CopyBytes(v)
	}
	copy(cp.sorted, t.sorted)
	return cp
}

// setLeaf() inserts or updates a leaf by its index, maintaining sorted order
func (t *Tree) setLeaf(index string, digest []byte) {
	if _, found := t.leaves[index]; !found {
		i := sort.Search(t.sortedLen, func(i int) bool { return t.sorted[i] >= index })
		t.sorted = append(t.sorted, "")
		copy(t.sorted[i+1:], t.sorted[i:])
		t.sorted[i] = index
		t.sortedLen++
	}
	t.leaves[index] = digest
	t.dirty = true
}

// deleteLeaf() removes a leaf by its index, maintaining sorted order
func (t *Tree) deleteLeaf(index string) {
	if _, found := t.leaves[index]; !found {
		return
	}
	delete(t.leaves, index)
	i := sort.Search(t.sortedLen, func(i int) bool { return t.sorted[i] >= index })
	t.sorted = append(t.sorted[:i], t.sorted[i+1:]...)
	t.sortedLen--
	t.dirty = true
}

// TreeSnapshot is the persisted form of a tree's leaf set, stored once per
// epoch as the base the historical replay starts from
type TreeSnapshot struct {
	Leaves []TreeLeaf `cbor:"1,keyasint"`
}

// TreeLeaf is one (leaf index, value digest) pair
type TreeLeaf struct {
	Index  []byte `cbor:"1,keyasint"`
	Digest []byte `cbor:"2,keyasint"`
}
