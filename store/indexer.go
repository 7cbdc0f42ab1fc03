package store

import (
	"time"

	"github.com/arbor-network/arbor/lib"
)

// BlockHeader is the per-height block metadata kept alongside the state:
// consensus hash, commit wall-clock time, and the epoch the height belongs to
type BlockHeader struct {
	Height uint64 `cbor:"1,keyasint"`
	Hash   []byte `cbor:"2,keyasint"`
	Time   int64  `cbor:"3,keyasint"`
	Epoch  uint64 `cbor:"4,keyasint"`
}

// Timestamp() returns the commit time as a time.Time
func (h *BlockHeader) Timestamp() time.Time { return time.Unix(0, h.Time) }

// indexBlockHeader() stages the header record under its height key as part of
// the commit batch
func (s *Storage) indexBlockHeader(batch lib.BatchWriterI, header *BlockHeader) lib.ErrorI {
	bz, err := lib.Marshal(header)
	if err != nil {
		return err
	}
	return batch.Set(headerKey(header.Height), bz)
}

// GetBlockHeader() returns the header committed at the given height, or a
// not-yet-committed error when the height has no header record
func (s *Storage) GetBlockHeader(height uint64) (*BlockHeader, lib.ErrorI) {
	bz, err := s.dbGet(headerKey(height))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, ErrNotYetCommitted(height, s.lastHeight)
	}
	header := new(BlockHeader)
	if err = lib.Unmarshal(bz, header); err != nil {
		return nil, ErrDecode(err)
	}
	return header, nil
}

// GetCommitID() returns the (height, root) record of a committed height
func (s *Storage) GetCommitID(height uint64) (*CommitID, lib.ErrorI) {
	bz, err := s.dbGet(commitIDKey(height))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, ErrNotYetCommitted(height, s.lastHeight)
	}
	id := new(CommitID)
	if err = lib.Unmarshal(bz, id); err != nil {
		return nil, ErrDecode(err)
	}
	return id, nil
}
