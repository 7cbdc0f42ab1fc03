package crypto

import (
	"bytes"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

const (
	// HashSize is the byte length of every digest produced by this package
	HashSize = blake2b.Size256
	// parallelThreshold is the leaf count above which MerkleRoot() builds the
	// two subtrees concurrently; below it the goroutine overhead dominates
	parallelThreshold = 1024
)

var (
	MinHash = bytes.Repeat([]byte{0x00}, HashSize)
	MaxHash = bytes.Repeat([]byte{0xFF}, HashSize)

	// hashPersonal is prepended to every digest input as a domain-separation
	// tag, so digests produced here can never collide with another protocol's
	// use of the same hash function
	hashPersonal = []byte("arbor storage")
)

// Hash() executes the global domain-separated hashing algorithm on input bytes
func Hash(msg []byte) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err) // unreachable without a key
	}
	h.Write(hashPersonal)
	h.Write(msg)
	return h.Sum(nil)
}

// HashConcat() hashes the concatenation of two byte slices
func HashConcat(a, b []byte) []byte {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	h.Write(hashPersonal)
	h.Write(a)
	h.Write(b)
	return h.Sum(nil)
}

// HashString() returns the hex version of a hash
func HashString(msg []byte) string { return hex.EncodeToString(Hash(msg)) }

// ShortHash() executes the global hashing algorithm on input bytes
// and truncates the output to 20 bytes
func ShortHash(msg []byte) []byte { return Hash(msg)[:20] }

// MerkleRoot() computes the deterministic binary Merkle root of an ordered
// leaf list. The tree splits at the largest power of two strictly below the
// leaf count, so the shape - and therefore the root - is a pure function of
// the ordered leaves. An empty list hashes to Hash(nil).
func MerkleRoot(leaves [][]byte) []byte {
	if len(leaves) == 0 {
		return Hash(nil)
	}
	if len(leaves) > parallelThreshold {
		return parallelMerkleRoot(leaves)
	}
	return merkleRoot(leaves)
}

// merkleRoot() is the sequential reduction
func merkleRoot(leaves [][]byte) []byte {
	if len(leaves) == 1 {
		return Hash(leaves[0])
	}
	split := largestPowerOfTwoBelow(len(leaves))
	return HashConcat(merkleRoot(leaves[:split]), merkleRoot(leaves[split:]))
}

// parallelMerkleRoot() builds the two subtrees concurrently and merges them;
// the split point is identical to the sequential reduction so the resulting
// root matches bit-for-bit
func parallelMerkleRoot(leaves [][]byte) []byte {
	split := largestPowerOfTwoBelow(len(leaves))
	var left, right []byte
	g := new(errgroup.Group)
	g.Go(func() error { left = MerkleRoot(leaves[:split]); return nil })
	g.Go(func() error { right = MerkleRoot(leaves[split:]); return nil })
	_ = g.Wait() // subtree builds cannot fail
	return HashConcat(left, right)
}

// largestPowerOfTwoBelow() returns the largest power of two strictly less than n
// CONTRACT: n >= 2
func largestPowerOfTwoBelow(n int) int {
	p := 1
	for p*2 < n {
		p *= 2
	}
	return p
}
