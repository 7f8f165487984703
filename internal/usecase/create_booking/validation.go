package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.VenueID <= 0 {
		return fmt.Errorf("%w: venueID must be positive", ErrInvalidInput)
	}

	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customerID must be positive", ErrInvalidInput)
	}

	if req.UserID != nil && *req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	if req.OfferID != nil && *req.OfferID <= 0 {
		return fmt.Errorf("%w: offerID must be positive", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Проверяем, что время начала указано
	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	// Валидируем формат времени
	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.DurationHours != nil && req.EndTime != nil {
		return fmt.Errorf("%w: durationHours and endTime are mutually exclusive", ErrInvalidInput)
	}

	if req.DurationHours != nil {
		if *req.DurationHours < domain.MinBookingDurationHours || *req.DurationHours > domain.MaxBookingDurationHours {
			return fmt.Errorf("%w: durationHours must be between %d and %d",
				ErrInvalidInput, domain.MinBookingDurationHours, domain.MaxBookingDurationHours)
		}
	}

	if req.EndTime != nil {
		if err := req.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid endTime format: %v", ErrInvalidInput, err)
		}
		if !req.EndTime.IsAfter(req.StartTime) {
			return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
		}
	}

	if req.GuestCount != nil && *req.GuestCount <= 0 {
		return fmt.Errorf("%w: guestCount must be positive", ErrInvalidInput)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата бронирования не в прошлом
func validateDate(bookingDate, now time.Time) error {
	dateOnly := time.Date(bookingDate.Year(), bookingDate.Month(), bookingDate.Day(), 0, 0, 0, 0, bookingDate.Location())
	nowOnly := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if dateOnly.Before(nowOnly) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}

	return nil
}

// resolveWindow вычисляет интервал бронирования [StartTime, EndTime) и его длительность в часах.
// Если не задано ни DurationHours, ни EndTime, берётся booking_duration_hours площадки
func resolveWindow(req *Request, venue *domain.Venue) (types.TimeString, int, error) {
	if req.EndTime != nil {
		startMin, err := req.StartTime.Minutes()
		if err != nil {
			return "", 0, fmt.Errorf("%w: invalid startTime: %v", ErrInvalidInput, err)
		}
		endMin, err := req.EndTime.Minutes()
		if err != nil {
			return "", 0, fmt.Errorf("%w: invalid endTime: %v", ErrInvalidInput, err)
		}

		// Явный интервал обязан быть кратен целому числу часов
		if (endMin-startMin)%60 != 0 {
			return "", 0, fmt.Errorf("%w: booking window must be a whole number of hours", ErrInvalidInput)
		}

		return *req.EndTime, (endMin - startMin) / 60, nil
	}

	hours := venue.BookingDurationHours
	if req.DurationHours != nil {
		hours = *req.DurationHours
	}

	endTime, err := req.StartTime.AddHours(hours)
	if err != nil {
		return "", 0, fmt.Errorf("%w: booking window does not fit the day: %v", ErrInvalidInput, err)
	}

	return endTime, hours, nil
}

// hasConflict проверяет пересечение интервала [start, end) с активными бронированиями
func hasConflict(start, end types.TimeString, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		// Отменённые и завершённые бронирования не занимают календарь
		if !b.IsActive() {
			continue
		}
		if b.Overlaps(start, end) {
			return true
		}
	}
	return false
}
