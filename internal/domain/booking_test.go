package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/VMP-BookingService/pkg/types"
)

func TestBooking_Transitions(t *testing.T) {
	tests := []struct {
		status           BookingStatus
		canConfirm       bool
		canCancel        bool
		canComplete      bool
		canReschedule    bool
		occupiesCalendar bool
	}{
		{StatusPending, true, true, false, true, true},
		{StatusConfirmed, false, true, true, false, true},
		{StatusCompleted, false, false, false, false, false},
		{StatusCancelled, false, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			b := Booking{Status: tt.status}
			assert.Equal(t, tt.canConfirm, b.CanBeConfirmed())
			assert.Equal(t, tt.canCancel, b.CanBeCancelled())
			assert.Equal(t, tt.canComplete, b.CanBeCompleted())
			assert.Equal(t, tt.canReschedule, b.CanBeRescheduled())
			assert.Equal(t, tt.occupiesCalendar, b.IsActive())
		})
	}
}

func TestBooking_Overlaps(t *testing.T) {
	b := Booking{StartTime: "10:00", EndTime: "14:00"}

	tests := []struct {
		name  string
		start string
		end   string
		want  bool
	}{
		{"full overlap", "10:00", "14:00", true},
		{"partial overlap from right", "12:00", "16:00", true},
		{"partial overlap from left", "08:00", "11:00", true},
		{"contained", "11:00", "12:00", true},
		{"contains", "09:00", "15:00", true},
		{"adjacent before", "08:00", "10:00", false},
		{"adjacent after", "14:00", "16:00", false},
		{"disjoint", "16:00", "18:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Overlaps(types.TimeString(tt.start), types.TimeString(tt.end))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBooking_DurationHours(t *testing.T) {
	b := Booking{StartTime: "10:00", EndTime: "14:00"}
	assert.Equal(t, 4, b.DurationHours())

	b = Booking{StartTime: "14:00", EndTime: "10:00"}
	assert.Equal(t, 0, b.DurationHours())
}
