package lib

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEpochSchedule(t *testing.T) {
	schedule := NewEpochSchedule(0)
	require.EqualValues(t, 0, schedule.CurrentEpoch())
	require.NoError(t, schedule.NewEpoch(10))
	require.NoError(t, schedule.NewEpoch(25))
	require.EqualValues(t, 2, schedule.CurrentEpoch())
	tests := []struct {
		height uint64
		epoch  uint64
	}{
		{0, 0}, {9, 0},
		{10, 1}, {24, 1},
		{25, 2}, {1000, 2},
	}
	for _, test := range tests {
		require.Equal(t, test.epoch, schedule.EpochOf(test.height), "height %d", test.height)
	}
	first, ok := schedule.FirstHeight(1)
	require.True(t, ok)
	require.EqualValues(t, 10, first)
	_, ok = schedule.FirstHeight(3)
	require.False(t, ok)
}

func TestEpochScheduleRefusesNonIncreasingStart(t *testing.T) {
	schedule := NewEpochSchedule(0)
	require.NoError(t, schedule.NewEpoch(5))
	err := schedule.NewEpoch(5)
	require.Error(t, err)
	require.Equal(t, CodeInvalidEpoch, err.Code())
	err = schedule.NewEpoch(3)
	require.Error(t, err)
	// a failed transition leaves the schedule unchanged
	require.EqualValues(t, 1, schedule.CurrentEpoch())
}

func TestEpochScheduleCopy(t *testing.T) {
	schedule := NewEpochSchedule(0)
	require.NoError(t, schedule.NewEpoch(7))
	cp := schedule.Copy()
	require.NoError(t, cp.NewEpoch(20))
	require.EqualValues(t, 1, schedule.CurrentEpoch())
	require.EqualValues(t, 2, cp.CurrentEpoch())
}

func TestEpochScheduleRoundTrip(t *testing.T) {
	schedule := NewEpochSchedule(0)
	require.NoError(t, schedule.NewEpoch(10))
	bz, err := Marshal(schedule)
	require.NoError(t, err)
	restored := new(EpochSchedule)
	require.NoError(t, Unmarshal(bz, restored))
	require.Equal(t, schedule.FirstHeights, restored.FirstHeights)
}
