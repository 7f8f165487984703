package reschedule_booking

import (
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/internal/service/bookings/models"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	Date      string `json:"date"`      // "2025-10-15"
	StartTime string `json:"startTime"` // "10:00"
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *RescheduleBookingRequest) ToServiceRequest() (*models.RescheduleBookingRequest, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &models.RescheduleBookingRequest{
		Date:      date,
		StartTime: startTime,
	}, nil
}
