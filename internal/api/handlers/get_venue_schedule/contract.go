package get_venue_schedule

import (
	"context"

	"github.com/m04kA/VMP-BookingService/internal/service/schedule/models"
)

// ScheduleService интерфейс сервиса расписаний
type ScheduleService interface {
	GetWeek(ctx context.Context, venueID int64) (*models.WeekScheduleResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
