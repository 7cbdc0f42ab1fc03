package crypto

import (
	"encoding/hex"
)

const AddressSize = 20

// AddressGen deterministically derives established account addresses from a
// hash chain. The generator state is owned by the storage core and persisted
// with the block metadata, so address generation is reproducible across nodes
// and restarts.
type AddressGen struct {
	Last []byte `cbor:"1,keyasint"`
}

// NewAddressGen() seeds the generator with the chain identity
func NewAddressGen(seed []byte) *AddressGen {
	return &AddressGen{Last: Hash(seed)}
}

// Generate() advances the hash chain with the given entropy and returns the
// next established address
func (g *AddressGen) Generate(entropy []byte) []byte {
	g.Last = HashConcat(g.Last, entropy)
	return ShortHash(g.Last)
}

// Copy() returns an independent copy of the generator state
func (g *AddressGen) Copy() *AddressGen {
	last := make([]byte, len(g.Last))
	copy(last, g.Last)
	return &AddressGen{Last: last}
}

// AddressString() renders an address as hex
func AddressString(address []byte) string { return hex.EncodeToString(address) }
