package lib

// EpochSchedule records the first height of every epoch since genesis. Epoch
// transitions are driven by the block-execution pipeline; the storage engine
// only consumes the schedule to map heights to epochs for pruning granularity
// and historical tree reconstruction.
type EpochSchedule struct {
	// FirstHeights[e] is the first committed height of epoch e
	FirstHeights []uint64 `cbor:"1,keyasint"`
}

// NewEpochSchedule() starts the schedule with epoch 0 beginning at the given height
func NewEpochSchedule(genesisHeight uint64) *EpochSchedule {
	return &EpochSchedule{FirstHeights: []uint64{genesisHeight}}
}

// CurrentEpoch() returns the most recently started epoch
func (e *EpochSchedule) CurrentEpoch() uint64 {
	return uint64(len(e.FirstHeights) - 1)
}

// NewEpoch() starts the next epoch at the given height; a start height at or
// below the previous epoch's is a schedule corruption and is refused
func (e *EpochSchedule) NewEpoch(startHeight uint64) ErrorI {
	if len(e.FirstHeights) != 0 && startHeight <= e.FirstHeights[len(e.FirstHeights)-1] {
		return NewError(CodeInvalidEpoch, StorageModule, "epoch start height must increase")
	}
	e.FirstHeights = append(e.FirstHeights, startHeight)
	return nil
}

// EpochOf() maps a height to the epoch it belongs to; heights before the
// genesis height fall into epoch 0
func (e *EpochSchedule) EpochOf(height uint64) uint64 {
	// the schedule is ascending, scan from the newest epoch backward
	for i := len(e.FirstHeights) - 1; i >= 0; i-- {
		if e.FirstHeights[i] <= height {
			return uint64(i)
		}
	}
	return 0
}

// FirstHeight() returns the first height of the given epoch
func (e *EpochSchedule) FirstHeight(epoch uint64) (uint64, bool) {
	if epoch >= uint64(len(e.FirstHeights)) {
		return 0, false
	}
	return e.FirstHeights[epoch], true
}

// Copy() returns an independent copy of the schedule
func (e *EpochSchedule) Copy() *EpochSchedule {
	heights := make([]uint64, len(e.FirstHeights))
	copy(heights, e.FirstHeights)
	return &EpochSchedule{FirstHeights: heights}
}
