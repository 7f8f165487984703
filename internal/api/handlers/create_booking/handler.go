package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/VMP-BookingService/internal/api/handlers"
	"github.com/m04kA/VMP-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/VMP-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDateOrTime   = "некорректный формат даты или времени, ожидается YYYY-MM-DD и HH:MM"
	msgMissingUserID       = "отсутствует ID пользователя"
	msgSlotNotAvailable    = "выбранный временной интервал недоступен"
	msgVenueNotFound       = "площадка не найдена"
	msgVenueInactive       = "площадка недоступна для бронирования"
	msgVenueClosed         = "площадка закрыта в выбранную дату"
	msgOutsideHours        = "интервал выходит за рабочие часы площадки"
	msgOfferNotFound       = "предложение не найдено"
	msgOfferNotValid       = "предложение недействительно"
	msgOfferMinHoursNotMet = "длительность бронирования меньше минимальной для предложения"
	msgInvalidBookingDate  = "некорректная дата бронирования"
	msgInvalidInput        = "некорректные входные данные"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateOrTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: venue_id=%d, customer_id=%d", req.VenueID, req.CustomerID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrVenueNotFound):
			h.logger.Warn("POST /bookings - Venue not found: venue_id=%d", req.VenueID)
			handlers.RespondNotFound(w, msgVenueNotFound)

		case errors.Is(err, createBooking.ErrVenueInactive):
			h.logger.Warn("POST /bookings - Venue inactive: venue_id=%d", req.VenueID)
			handlers.RespondError(w, http.StatusConflict, msgVenueInactive)

		case errors.Is(err, createBooking.ErrVenueClosed):
			h.logger.Warn("POST /bookings - Venue closed: venue_id=%d, date=%s", req.VenueID, req.BookingDate)
			handlers.RespondError(w, http.StatusConflict, msgVenueClosed)

		case errors.Is(err, createBooking.ErrOutsideOperatingHours):
			h.logger.Warn("POST /bookings - Outside operating hours: venue_id=%d, start=%s", req.VenueID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgOutsideHours)

		case errors.Is(err, createBooking.ErrOfferNotFound):
			h.logger.Warn("POST /bookings - Offer not found: venue_id=%d, offer_id=%v", req.VenueID, req.OfferID)
			handlers.RespondNotFound(w, msgOfferNotFound)

		case errors.Is(err, createBooking.ErrOfferNotValid):
			h.logger.Warn("POST /bookings - Offer not valid: venue_id=%d, offer_id=%v", req.VenueID, req.OfferID)
			handlers.RespondError(w, http.StatusConflict, msgOfferNotValid)

		case errors.Is(err, createBooking.ErrOfferMinHoursNotMet):
			h.logger.Warn("POST /bookings - Offer min hours not met: venue_id=%d, offer_id=%v", req.VenueID, req.OfferID)
			handlers.RespondError(w, http.StatusConflict, msgOfferMinHoursNotMet)

		case errors.Is(err, createBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: venue_id=%d, date=%s", req.VenueID, req.BookingDate)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: venue_id=%d, error=%v", req.VenueID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: venue_id=%d, customer_id=%d, error=%v",
				req.VenueID, req.CustomerID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, venue_id=%d, customer_id=%d",
		result.ID, req.VenueID, req.CustomerID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
