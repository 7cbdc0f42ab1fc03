package lib

import (
	"strings"
)

const (
	// KeySegmentSeparator splits a storage key into its path segments
	KeySegmentSeparator = "/"
	// MaxKeyBytes bounds the serialized length of a storage key; it must fit
	// in the single-byte length prefix the versioned key layout uses
	MaxKeyBytes = 255
)

// Key is a structured, path-like storage identifier. The serialized form joins
// the segments with '/'; lexicographic order of the serialized form defines
// the iteration order of the state and the order mutations are folded into the
// authenticated tree.
type Key struct {
	segments []string
}

// ParseKey() validates and converts a raw string into a Key.
// Empty strings, empty segments, and oversized keys are rejected.
func ParseKey(raw string) (Key, ErrorI) {
	if raw == "" {
		return Key{}, ErrKeyParse(raw, "the key is empty")
	}
	if len(raw) > MaxKeyBytes {
		return Key{}, ErrKeyParse(raw, "the key exceeds the maximum length")
	}
	segments := strings.Split(raw, KeySegmentSeparator)
	for _, s := range segments {
		if s == "" {
			return Key{}, ErrKeyParse(raw, "the key contains an empty segment")
		}
	}
	return Key{segments: segments}, nil
}

// NewKey() builds a Key from pre-validated segments; panics on an invalid
// segment as that indicates a caller bug, not input to be handled
func NewKey(segments ...string) Key {
	k, err := ParseKey(strings.Join(segments, KeySegmentSeparator))
	if err != nil {
		panic(err)
	}
	return k
}

// Push() returns a new Key extended with one more segment
func (k Key) Push(segment string) (Key, ErrorI) {
	if segment == "" || strings.Contains(segment, KeySegmentSeparator) {
		return Key{}, ErrKeyParse(segment, "invalid key segment")
	}
	child := make([]string, 0, len(k.segments)+1)
	child = append(child, k.segments...)
	return Key{segments: append(child, segment)}, nil
}

// String() returns the canonical serialized form
func (k Key) String() string { return strings.Join(k.segments, KeySegmentSeparator) }

// Bytes() returns the serialized form as bytes, usable as a byte-store key
func (k Key) Bytes() []byte { return []byte(k.String()) }

// Len() returns the serialized length, the unit the gas model charges for keys
func (k Key) Len() uint64 { return uint64(len(k.String())) }

// Segments() returns the path segments of the key
func (k Key) Segments() []string { return k.segments }

// IsEmpty() reports whether the key holds no segments
func (k Key) IsEmpty() bool { return len(k.segments) == 0 }

// HasPrefix() reports whether the key starts with the given prefix key,
// aligned on segment boundaries
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix.segments) > len(k.segments) {
		return false
	}
	for i, s := range prefix.segments {
		if k.segments[i] != s {
			return false
		}
	}
	return true
}
