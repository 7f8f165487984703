package get_available_slots

import (
	"context"

	"github.com/m04kA/VMP-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// GetByVenueWithFilter получает бронирования площадки на конкретную дату
	GetByVenueWithFilter(ctx context.Context, filter domain.VenueBookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория площадок и расписаний
type ScheduleRepository interface {
	GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error)
	GetForDay(ctx context.Context, venueID int64, dayOfWeek int) (*domain.Schedule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
