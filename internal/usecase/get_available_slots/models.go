package get_available_slots

import (
	"time"

	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// Request модель запроса на получение доступных слотов на одну дату
type Request struct {
	VenueID int64     // ID площадки
	Date    time.Time // Дата для получения слотов (без времени)
}

// WeekRequest модель запроса на недельную доступность
type WeekRequest struct {
	VenueID int64     // ID площадки
	From    time.Time // Первая дата недели (без времени)
}

// Slot модель временного слота с признаком доступности
type Slot struct {
	StartTime     types.TimeString // Время начала слота (например, "10:00")
	EndTime       types.TimeString // Время окончания слота
	DurationHours int              // Длительность слота в часах
	Available     bool             // Свободен ли слот (нет пересечений с активными бронированиями)
}

// DayResponse модель доступности площадки на один день
type DayResponse struct {
	Date      time.Time
	VenueID   int64
	DayOfWeek int
	IsClosed  bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
	Slots     []Slot
}

// WeekResponse модель недельной доступности площадки
// Отдаётся клиентскому UI для выбора слота
type WeekResponse struct {
	VenueID int64
	From    time.Time
	Days    []DayResponse
}
