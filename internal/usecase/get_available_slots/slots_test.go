package get_available_slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

func workingDay(open, close string) *domain.Schedule {
	return &domain.Schedule{
		DayOfWeek: 6,
		OpenTime:  types.TimeString(open),
		CloseTime: types.TimeString(close),
	}
}

func TestGenerateSlots(t *testing.T) {
	t.Run("saturday with buffer", func(t *testing.T) {
		// Рабочий день 10:00-18:00, слот 4 часа, перерыв 30 минут:
		// [10:00,14:00), затем курсор 14:30, [14:30,18:30) не помещается до 18:00
		slots, err := generateSlots(workingDay("10:00", "18:00"), 4, 30)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
		assert.Equal(t, types.TimeString("14:00"), slots[0].EndTime)
	})

	t.Run("no buffer fills the day", func(t *testing.T) {
		slots, err := generateSlots(workingDay("10:00", "18:00"), 4, 0)
		require.NoError(t, err)
		require.Len(t, slots, 2)
		assert.Equal(t, types.TimeString("10:00"), slots[0].StartTime)
		assert.Equal(t, types.TimeString("14:00"), slots[0].EndTime)
		assert.Equal(t, types.TimeString("14:00"), slots[1].StartTime)
		assert.Equal(t, types.TimeString("18:00"), slots[1].EndTime)
	})

	t.Run("slot ending exactly at close is included", func(t *testing.T) {
		slots, err := generateSlots(workingDay("10:00", "14:00"), 4, 0)
		require.NoError(t, err)
		require.Len(t, slots, 1)
		assert.Equal(t, types.TimeString("14:00"), slots[0].EndTime)
	})

	t.Run("window too small", func(t *testing.T) {
		slots, err := generateSlots(workingDay("10:00", "13:00"), 4, 0)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("closed day", func(t *testing.T) {
		slots, err := generateSlots(&domain.Schedule{DayOfWeek: 0, IsClosed: true}, 4, 0)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("nil schedule", func(t *testing.T) {
		slots, err := generateSlots(nil, 4, 0)
		require.NoError(t, err)
		assert.Empty(t, slots)
	})

	t.Run("deterministic", func(t *testing.T) {
		first, err := generateSlots(workingDay("09:00", "21:00"), 2, 15)
		require.NoError(t, err)
		second, err := generateSlots(workingDay("09:00", "21:00"), 2, 15)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("slots never overlap and fit the window", func(t *testing.T) {
		schedule := workingDay("08:00", "22:00")
		slots, err := generateSlots(schedule, 3, 45)
		require.NoError(t, err)
		require.NotEmpty(t, slots)

		for i, slot := range slots {
			assert.True(t, slot.StartTime.IsBefore(slot.EndTime))
			assert.False(t, slot.StartTime.IsBefore(schedule.OpenTime))
			assert.False(t, slot.EndTime.IsAfter(schedule.CloseTime))
			if i > 0 {
				assert.False(t, slots[i-1].EndTime.IsAfter(slot.StartTime),
					"slot %d overlaps previous", i)
			}
		}
	})
}

func TestMarkAvailability(t *testing.T) {
	slots := []domain.Slot{
		{StartTime: "10:00", EndTime: "14:00", DurationHours: 4},
		{StartTime: "14:30", EndTime: "18:30", DurationHours: 4},
	}

	t.Run("no bookings - all available", func(t *testing.T) {
		marked := markAvailability(slots, nil)
		require.Len(t, marked, 2)
		assert.True(t, marked[0].Available)
		assert.True(t, marked[1].Available)
	})

	t.Run("active booking blocks overlapping slot", func(t *testing.T) {
		bookings := []*domain.Booking{
			{Status: domain.StatusConfirmed, StartTime: "12:00", EndTime: "16:00"},
		}
		marked := markAvailability(slots, bookings)
		assert.False(t, marked[0].Available)
		assert.False(t, marked[1].Available)
	})

	t.Run("cancelled booking does not block", func(t *testing.T) {
		bookings := []*domain.Booking{
			{Status: domain.StatusCancelled, StartTime: "10:00", EndTime: "14:00"},
		}
		marked := markAvailability(slots, bookings)
		assert.True(t, marked[0].Available)
	})

	t.Run("adjacent booking does not block", func(t *testing.T) {
		bookings := []*domain.Booking{
			{Status: domain.StatusPending, StartTime: "14:00", EndTime: "14:30"},
		}
		marked := markAvailability(slots, bookings)
		assert.True(t, marked[0].Available)
		assert.True(t, marked[1].Available)
	})
}
