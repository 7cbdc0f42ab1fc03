package store

import (
	"github.com/arbor-network/arbor/lib"
)

// ConversionState is the per-chain auxiliary record for asset conversion
// entries produced at epoch transitions. The storage core owns exactly one
// instance, persists it with the block metadata, and threads it explicitly
// through epoch transitions; the reward computation that fills the entries
// lives outside the engine and only reads and writes this record.
type ConversionState struct {
	// Epoch is the epoch the conversions were last advanced to
	Epoch uint64 `cbor:"1,keyasint"`
	// Assets maps an asset identifier to its current conversion entry
	Assets map[string][]byte `cbor:"2,keyasint,omitempty"`
}

// NewConversionState() creates an empty conversion state
func NewConversionState() *ConversionState {
	return &ConversionState{Assets: make(map[string][]byte)}
}

// SetAsset() records or replaces the conversion entry for an asset
func (c *ConversionState) SetAsset(asset string, entry []byte) {
	if c.Assets == nil {
		c.Assets = make(map[string][]byte)
	}
	c.Assets[asset] = lib.CopyBytes(entry)
}

// Asset() returns the conversion entry for an asset
func (c *ConversionState) Asset(asset string) ([]byte, bool) {
	entry, found := c.Assets[asset]
	return entry, found
}

// Len() returns the number of assets carrying a conversion entry
func (c *ConversionState) Len() int { return len(c.Assets) }

// advance() marks the conversions current as of the given epoch
func (c *ConversionState) advance(epoch uint64) { c.Epoch = epoch }

// Copy() returns an independent copy of the conversion state
func (c *ConversionState) Copy() *ConversionState {
	cp := &ConversionState{Epoch: c.Epoch, Assets: make(map[string][]byte, len(c.Assets))}
	for asset, entry := range c.Assets {
		cp.Assets[asset] = lib.CopyBytes(entry)
	}
	return cp
}
