package get_available_slots

import (
	"context"

	getAvailableSlots "github.com/m04kA/VMP-BookingService/internal/usecase/get_available_slots"
)

type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.DayResponse, error)
	ExecuteWeek(ctx context.Context, req *getAvailableSlots.WeekRequest) (*getAvailableSlots.WeekResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
