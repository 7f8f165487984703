package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVenue_PriceFor(t *testing.T) {
	v := Venue{BasePrice: 500}

	assert.Equal(t, 2000.0, v.PriceFor(4))
	assert.Equal(t, 500.0, v.PriceFor(1))
	assert.Equal(t, 0.0, v.PriceFor(0))
	assert.Equal(t, 0.0, v.PriceFor(-1))
}

func TestSchedule_Validate(t *testing.T) {
	tests := []struct {
		name    string
		sched   Schedule
		wantErr error
	}{
		{"valid working day", Schedule{DayOfWeek: 6, OpenTime: "10:00", CloseTime: "18:00"}, nil},
		{"closed day without times", Schedule{DayOfWeek: 0, IsClosed: true}, nil},
		{"day of week too big", Schedule{DayOfWeek: 7, OpenTime: "10:00", CloseTime: "18:00"}, ErrInvalidDayOfWeek},
		{"day of week negative", Schedule{DayOfWeek: -1, IsClosed: true}, ErrInvalidDayOfWeek},
		{"open equals close", Schedule{DayOfWeek: 1, OpenTime: "10:00", CloseTime: "10:00"}, ErrInvalidScheduleWindow},
		{"open after close", Schedule{DayOfWeek: 1, OpenTime: "18:00", CloseTime: "10:00"}, ErrInvalidScheduleWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sched.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSchedule_Contains(t *testing.T) {
	s := Schedule{DayOfWeek: 6, OpenTime: "10:00", CloseTime: "18:00"}

	assert.True(t, s.Contains("10:00", "18:00"))
	assert.True(t, s.Contains("12:00", "14:00"))
	assert.False(t, s.Contains("09:00", "11:00"))
	assert.False(t, s.Contains("17:00", "19:00"))

	closed := Schedule{DayOfWeek: 0, IsClosed: true}
	assert.False(t, closed.Contains("10:00", "11:00"))
}
