package lib

import (
	"encoding/binary"
	"os"
)

// Append() joins two byte slices into a freshly allocated slice
func Append(a, b []byte) (res []byte) {
	res = make([]byte, 0, len(a)+len(b))
	res = append(res, a...)
	return append(res, b...)
}

// CopyBytes() returns an independent copy of the input slice
func CopyBytes(bz []byte) (dst []byte) {
	if bz == nil {
		return nil
	}
	dst = make([]byte, len(bz))
	copy(dst, bz)
	return
}

// JoinLenPrefix() appends the items together, each preceded by a single byte holding the length of the segment
func JoinLenPrefix(toAppend ...[]byte) (res []byte) {
	// for each item to append
	for _, item := range toAppend {
		if item == nil {
			continue
		}
		// store the length of the segment in a single byte
		length := []byte{byte(len(item))}
		// append to the rest of the segment
		res = append(append(res, length...), item...)
	}
	return
}

// DecodeLengthPrefixed() decodes a key that is delimited by the length of the segment in a single byte
func DecodeLengthPrefixed(key []byte) (segments [][]byte) {
	var length int
	for i := 0; i < len(key); i += length {
		if i >= len(key) {
			break
		}
		// read the length prefix
		length = int(key[i])
		i++
		if i+length > len(key) {
			panic("corrupt or incomplete key")
		}
		segments = append(segments, key[i:i+length])
	}
	return
}

// Uint64ToBigEndian() encodes a uint64 into 8 big-endian bytes; big-endian
// preserves numeric order under lexicographic byte comparison
func Uint64ToBigEndian(i uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, i)
	return bz
}

// BigEndianToUint64() decodes 8 big-endian bytes into a uint64
func BigEndianToUint64(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}

// DefaultDataDirPath() returns the default data directory under the user home
func DefaultDataDirPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".arbor"
	}
	return home + "/.arbor"
}
