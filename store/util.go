package store

// prefixEnd() returns the first byte string ordered after every key carrying
// the prefix, usable as an exclusive upper bound when scanning
func prefixEnd(prefix []byte) []byte {
	if len(prefix) == 0 {
		return []byte{0xFF}
	}
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for {
		if end[len(end)-1] != 0xFF {
			end[len(end)-1]++
			break
		}
		end = end[:len(end)-1]
		if len(end) == 0 {
			return nil
		}
	}
	return end
}
