package domain

import "errors"

// Business validation constants
const (
	MinBookingDurationHours = 1
	MaxBookingDurationHours = 24
	MinBufferMinutes        = 0

	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Domain validation errors
var (
	// ErrInvalidDayOfWeek возвращается при дне недели вне диапазона 0-6
	ErrInvalidDayOfWeek = errors.New("day of week must be in range 0-6")

	// ErrInvalidScheduleWindow возвращается, когда open_time >= close_time для рабочего дня
	ErrInvalidScheduleWindow = errors.New("open_time must be before close_time")
)

// ActiveStatuses список статусов, занимающих место в календаре
// Используется при проверке конфликтов бронирований
// Завершённые бронирования конфликтами не считаются (поведение подтверждено продуктом)
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// InactiveStatuses список статусов, не занимающих место в календаре
var InactiveStatuses = []BookingStatus{
	StatusCompleted,
	StatusCancelled,
}
