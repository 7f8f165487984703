package schedule

import (
	"context"

	"github.com/m04kA/VMP-BookingService/internal/domain"
)

// ScheduleRepository интерфейс репозитория площадок и расписаний
type ScheduleRepository interface {
	GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error)
	GetWeek(ctx context.Context, venueID int64) ([]*domain.Schedule, error)
	Upsert(ctx context.Context, sched *domain.Schedule) (*domain.Schedule, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
