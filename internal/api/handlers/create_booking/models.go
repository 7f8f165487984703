package create_booking

import (
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	createBooking "github.com/m04kA/VMP-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/VMP-BookingService/pkg/ptr"
	"github.com/m04kA/VMP-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	VenueID       int64   `json:"venueId"`
	CustomerID    int64   `json:"customerId"`
	OfferID       *int64  `json:"offerId,omitempty"`
	BookingDate   string  `json:"bookingDate"` // "2025-10-15"
	StartTime     string  `json:"startTime"`   // "10:00"
	DurationHours *int    `json:"durationHours,omitempty"`
	EndTime       *string `json:"endTime,omitempty"`
	GuestCount    *int    `json:"guestCount,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID            int64   `json:"id"`
	VenueID       int64   `json:"venueId"`
	CustomerID    int64   `json:"customerId"`
	UserID        *int64  `json:"userId,omitempty"`
	OfferID       *int64  `json:"offerId,omitempty"`
	BookingDate   string  `json:"bookingDate"`
	StartTime     string  `json:"startTime"`
	EndTime       string  `json:"endTime"`
	Status        string  `json:"status"`
	TotalPrice    float64 `json:"totalPrice"`
	Discount      float64 `json:"discount"`
	PaymentStatus string  `json:"paymentStatus"`
	GuestCount    *int    `json:"guestCount,omitempty"`
	Notes         *string `json:"notes,omitempty"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// userID - аутентифицированный принципал, создающий бронирование
func (r *CreateBookingRequest) ToUseCaseRequest(userID int64) (*createBooking.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	req := &createBooking.Request{
		VenueID:       r.VenueID,
		CustomerID:    r.CustomerID,
		UserID:        ptr.Ptr(userID),
		OfferID:       r.OfferID,
		Date:          bookingDate,
		StartTime:     startTime,
		DurationHours: r.DurationHours,
		GuestCount:    r.GuestCount,
		Notes:         r.Notes,
	}

	if r.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, err
		}
		req.EndTime = &endTime
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:            resp.ID,
		VenueID:       resp.VenueID,
		CustomerID:    resp.CustomerID,
		UserID:        resp.UserID,
		OfferID:       resp.OfferID,
		BookingDate:   resp.BookingDate.Format(domain.DateFormat),
		StartTime:     resp.StartTime.String(),
		EndTime:       resp.EndTime.String(),
		Status:        resp.Status,
		TotalPrice:    resp.TotalPrice,
		Discount:      resp.Discount,
		PaymentStatus: resp.PaymentStatus,
		GuestCount:    resp.GuestCount,
		Notes:         resp.Notes,
		CreatedAt:     resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     resp.UpdatedAt.Format(time.RFC3339),
	}
}
