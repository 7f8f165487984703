package domain

import (
	"time"

	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a venue booking in the system
type Booking struct {
	ID         int64
	VenueID    int64
	CustomerID int64
	UserID     *int64 // ID действующего пользователя (менеджер/админ), если бронирование создано не клиентом
	OfferID    *int64 // Применённое предложение (опционально)

	BookingDate time.Time        // Дата бронирования (без времени)
	StartTime   types.TimeString // Время начала, локальное время площадки
	EndTime     types.TimeString // Время окончания (start + booking_duration_hours площадки)

	Status        BookingStatus
	TotalPrice    float64
	Discount      float64
	PaymentStatus PaymentStatus

	GuestCount *int
	Notes      *string

	CancellationReason *string
	ConfirmedAt        *time.Time
	CancelledAt        *time.Time
	CompletedAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking occupies calendar space (pending or confirmed)
func (b *Booking) IsActive() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// CanBeConfirmed returns true if the booking can transition to confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == StatusPending
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status != StatusCompleted && b.Status != StatusCancelled
}

// CanBeCompleted returns true if the booking can transition to completed
func (b *Booking) CanBeCompleted() bool {
	return b.Status == StatusConfirmed
}

// CanBeRescheduled returns true if the booking window can still be changed
func (b *Booking) CanBeRescheduled() bool {
	return b.Status == StatusPending
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// DurationHours возвращает длительность бронирования в часах
func (b *Booking) DurationHours() int {
	start, errS := b.StartTime.Minutes()
	end, errE := b.EndTime.Minutes()
	if errS != nil || errE != nil || end <= start {
		return 0
	}
	return (end - start) / 60
}

// Overlaps проверяет пересечение интервала бронирования [StartTime, EndTime)
// с интервалом [start, end)
// Граничные случаи (конец одного равен началу другого) пересечением НЕ считаются
func (b *Booking) Overlaps(start, end types.TimeString) bool {
	return b.StartTime.IsBefore(end) && b.EndTime.IsAfter(start)
}

// VenueBookingsFilter фильтр для получения бронирований площадки
type VenueBookingsFilter struct {
	VenueID         int64          // Обязательный параметр
	StartDate       *time.Time     // Начало периода (опционально, если nil - без ограничения)
	EndDate         *time.Time     // Конец периода (опционально, если nil - без ограничения)
	Status          *BookingStatus // Фильтр по статусу (опционально)
	IncludeInactive bool           // Включать ли неактивные бронирования (отменённые, завершённые)
}
