package create_booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/pkg/ptr"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

func validRequest() *Request {
	return &Request{
		VenueID:    1,
		CustomerID: 100,
		Date:       time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		StartTime:  "10:00",
	}
}

func TestValidateRequest(t *testing.T) {
	t.Run("valid minimal request", func(t *testing.T) {
		assert.NoError(t, validateRequest(validRequest()))
	})

	tests := []struct {
		name   string
		mutate func(*Request)
	}{
		{"zero venue id", func(r *Request) { r.VenueID = 0 }},
		{"negative customer id", func(r *Request) { r.CustomerID = -1 }},
		{"zero user id", func(r *Request) { r.UserID = ptr.Ptr(int64(0)) }},
		{"zero offer id", func(r *Request) { r.OfferID = ptr.Ptr(int64(0)) }},
		{"zero date", func(r *Request) { r.Date = time.Time{} }},
		{"empty start time", func(r *Request) { r.StartTime = "" }},
		{"bad start time format", func(r *Request) { r.StartTime = "25:00" }},
		{"duration below minimum", func(r *Request) { r.DurationHours = ptr.Ptr(0) }},
		{"duration above maximum", func(r *Request) { r.DurationHours = ptr.Ptr(25) }},
		{"duration and end time together", func(r *Request) {
			r.DurationHours = ptr.Ptr(2)
			r.EndTime = ptr.Ptr(types.TimeString("14:00"))
		}},
		{"end time before start", func(r *Request) { r.EndTime = ptr.Ptr(types.TimeString("09:00")) }},
		{"end time equals start", func(r *Request) { r.EndTime = ptr.Ptr(types.TimeString("10:00")) }},
		{"zero guest count", func(r *Request) { r.GuestCount = ptr.Ptr(0) }},
		{"notes too long", func(r *Request) {
			long := make([]byte, domain.MaxNotesLength+1)
			for i := range long {
				long[i] = 'x'
			}
			s := string(long)
			r.Notes = &s
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			assert.ErrorIs(t, validateRequest(req), ErrInvalidInput)
		})
	}
}

func TestValidateDate(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)

	t.Run("today is allowed", func(t *testing.T) {
		assert.NoError(t, validateDate(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), now))
	})

	t.Run("future is allowed", func(t *testing.T) {
		assert.NoError(t, validateDate(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC), now))
	})

	t.Run("past is rejected", func(t *testing.T) {
		err := validateDate(time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC), now)
		assert.ErrorIs(t, err, ErrInvalidDate)
	})
}

func TestResolveWindow(t *testing.T) {
	venue := &domain.Venue{BookingDurationHours: 4}

	t.Run("default venue duration", func(t *testing.T) {
		req := validRequest()
		end, hours, err := resolveWindow(req, venue)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("14:00"), end)
		assert.Equal(t, 4, hours)
	})

	t.Run("explicit duration", func(t *testing.T) {
		req := validRequest()
		req.DurationHours = ptr.Ptr(2)
		end, hours, err := resolveWindow(req, venue)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("12:00"), end)
		assert.Equal(t, 2, hours)
	})

	t.Run("explicit end time", func(t *testing.T) {
		req := validRequest()
		req.EndTime = ptr.Ptr(types.TimeString("16:00"))
		end, hours, err := resolveWindow(req, venue)
		require.NoError(t, err)
		assert.Equal(t, types.TimeString("16:00"), end)
		assert.Equal(t, 6, hours)
	})

	t.Run("end time not whole hours", func(t *testing.T) {
		req := validRequest()
		req.EndTime = ptr.Ptr(types.TimeString("12:30"))
		_, _, err := resolveWindow(req, venue)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("window crosses midnight", func(t *testing.T) {
		req := validRequest()
		req.StartTime = "22:00"
		req.DurationHours = ptr.Ptr(3)
		_, _, err := resolveWindow(req, venue)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestHasConflict(t *testing.T) {
	confirmed := &domain.Booking{Status: domain.StatusConfirmed, StartTime: "10:00", EndTime: "14:00"}
	cancelled := &domain.Booking{Status: domain.StatusCancelled, StartTime: "12:00", EndTime: "16:00"}

	t.Run("overlapping confirmed booking conflicts", func(t *testing.T) {
		assert.True(t, hasConflict("12:00", "16:00", []*domain.Booking{confirmed}))
	})

	t.Run("cancelled booking ignored", func(t *testing.T) {
		assert.False(t, hasConflict("12:00", "16:00", []*domain.Booking{cancelled}))
	})

	t.Run("adjacent window does not conflict", func(t *testing.T) {
		assert.False(t, hasConflict("14:00", "18:00", []*domain.Booking{confirmed}))
	})

	t.Run("empty calendar", func(t *testing.T) {
		assert.False(t, hasConflict("10:00", "12:00", nil))
	})
}
