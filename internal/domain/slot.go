package domain

import "github.com/m04kA/VMP-BookingService/pkg/types"

// Slot represents a generated bookable time window of fixed duration
type Slot struct {
	StartTime     types.TimeString
	EndTime       types.TimeString
	DurationHours int
}

// Overlaps проверяет пересечение слота с окном [start, end)
// Граничные случаи пересечением не считаются
func (s *Slot) Overlaps(start, end types.TimeString) bool {
	return s.StartTime.IsBefore(end) && s.EndTime.IsAfter(start)
}

// DayAvailability доступность площадки на один день недели
// Отдаётся клиентскому UI для выбора слота
type DayAvailability struct {
	DayOfWeek      int
	IsClosed       bool
	OpenTime       *types.TimeString
	CloseTime      *types.TimeString
	AvailableSlots []Slot
}
