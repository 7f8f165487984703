package get_available_slots

import (
	"github.com/m04kA/VMP-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/VMP-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель временного слота
type SlotResponse struct {
	StartTime     string `json:"startTime"` // "10:00"
	EndTime       string `json:"endTime"`   // "14:00"
	DurationHours int    `json:"durationHours"`
	Available     bool   `json:"available"`
}

// DayResponse HTTP модель доступности на один день
type DayResponse struct {
	Date      string         `json:"date"` // "2025-10-15"
	VenueID   int64          `json:"venueId"`
	DayOfWeek int            `json:"dayOfWeek"`
	IsClosed  bool           `json:"isClosed"`
	OpenTime  *string        `json:"openTime,omitempty"`
	CloseTime *string        `json:"closeTime,omitempty"`
	Slots     []SlotResponse `json:"availableSlots"`
}

// WeekResponse HTTP модель недельной доступности
type WeekResponse struct {
	VenueID int64         `json:"venueId"`
	From    string        `json:"from"`
	Days    []DayResponse `json:"days"`
}

// FromUseCaseDay конвертирует ответ use case в HTTP response
func FromUseCaseDay(resp *getAvailableSlots.DayResponse) *DayResponse {
	day := &DayResponse{
		Date:      resp.Date.Format(domain.DateFormat),
		VenueID:   resp.VenueID,
		DayOfWeek: resp.DayOfWeek,
		IsClosed:  resp.IsClosed,
		Slots:     make([]SlotResponse, 0, len(resp.Slots)),
	}

	if resp.OpenTime != nil {
		open := resp.OpenTime.String()
		day.OpenTime = &open
	}
	if resp.CloseTime != nil {
		closeTime := resp.CloseTime.String()
		day.CloseTime = &closeTime
	}

	for _, slot := range resp.Slots {
		day.Slots = append(day.Slots, SlotResponse{
			StartTime:     slot.StartTime.String(),
			EndTime:       slot.EndTime.String(),
			DurationHours: slot.DurationHours,
			Available:     slot.Available,
		})
	}

	return day
}

// FromUseCaseWeek конвертирует недельный ответ use case в HTTP response
func FromUseCaseWeek(resp *getAvailableSlots.WeekResponse) *WeekResponse {
	week := &WeekResponse{
		VenueID: resp.VenueID,
		From:    resp.From.Format(domain.DateFormat),
		Days:    make([]DayResponse, 0, len(resp.Days)),
	}
	for i := range resp.Days {
		week.Days = append(week.Days, *FromUseCaseDay(&resp.Days[i]))
	}
	return week
}
