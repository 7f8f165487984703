package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByVenueWithFilter(ctx context.Context, filter domain.VenueBookingsFilter) ([]*domain.Booking, error)
}

// ScheduleRepository интерфейс репозитория площадок и расписаний
type ScheduleRepository interface {
	GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error)
	GetForDay(ctx context.Context, venueID int64, dayOfWeek int) (*domain.Schedule, error)
}

// OfferRepository интерфейс репозитория предложений
type OfferRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Offer, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
