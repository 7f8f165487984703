package domain

import (
	"time"

	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// Venue represents the booking-relevant configuration of a venue
type Venue struct {
	ID   int64
	Name string

	BasePrice float64 // Цена за час аренды
	Currency  string
	Timezone  string

	BookingDurationHours int // Фиксированная длина слота в часах (1-24)
	BufferMinutes        int // Перерыв между соседними слотами (>= 0)

	IsActive bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PriceFor возвращает стоимость аренды за указанное число часов без скидок
func (v *Venue) PriceFor(hours int) float64 {
	if hours <= 0 {
		return 0
	}
	return v.BasePrice * float64(hours)
}

// Schedule represents the operating window of a venue for one day of week
// У площадки не более одного расписания на каждый день недели
type Schedule struct {
	ID        int64
	VenueID   int64
	DayOfWeek int // 0=воскресенье .. 6=суббота
	OpenTime  types.TimeString
	CloseTime types.TimeString
	IsClosed  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет инвариант расписания: если день рабочий, open_time < close_time
func (s *Schedule) Validate() error {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return ErrInvalidDayOfWeek
	}
	if s.IsClosed {
		return nil
	}
	if err := s.OpenTime.Validate(); err != nil {
		return err
	}
	if err := s.CloseTime.Validate(); err != nil {
		return err
	}
	if !s.OpenTime.IsBefore(s.CloseTime) {
		return ErrInvalidScheduleWindow
	}
	return nil
}

// Contains проверяет, что окно [start, end) целиком лежит внутри рабочего времени дня
func (s *Schedule) Contains(start, end types.TimeString) bool {
	if s.IsClosed {
		return false
	}
	return !start.IsBefore(s.OpenTime) && !end.IsAfter(s.CloseTime)
}
