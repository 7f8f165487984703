package create_booking

import (
	"time"

	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	VenueID    int64            // ID площадки
	CustomerID int64            // ID клиента
	UserID     *int64           // ID действующего пользователя, если бронирует менеджер (опционально)
	OfferID    *int64           // ID применяемого предложения (опционально)
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала (например, "10:00")

	// Длительность задаётся либо числом часов, либо явным временем окончания.
	// Если не задано ни то, ни другое, используется booking_duration_hours площадки.
	DurationHours *int
	EndTime       *types.TimeString

	GuestCount *int    // Количество гостей (опционально)
	Notes      *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID         int64
	VenueID    int64
	CustomerID int64
	UserID     *int64
	OfferID    *int64

	BookingDate time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString

	Status        string
	TotalPrice    float64
	Discount      float64
	PaymentStatus string

	GuestCount *int
	Notes      *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
