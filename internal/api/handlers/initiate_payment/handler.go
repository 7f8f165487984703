package initiate_payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VMP-BookingService/internal/api/handlers"
	"github.com/m04kA/VMP-BookingService/internal/integrations/paygate"
	"github.com/m04kA/VMP-BookingService/internal/service/payments"
)

const (
	msgInvalidBookingID  = "некорректный ID бронирования"
	msgInvalidBody       = "некорректное тело запроса"
	msgBookingNotFound   = "бронирование не найдено"
	msgPaymentExists     = "платеж по этому бронированию уже создан"
	msgInvalidAmount     = "сумма платежа должна быть положительной"
	msgGatewayUnavail    = "платежный шлюз временно недоступен, повторите попытку позже"
	msgGatewayError      = "ошибка платежного шлюза"
)

type Handler struct {
	service PaymentService
	logger  Logger
}

func NewHandler(service PaymentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/{bookingId}/payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Тело опционально: пустое тело означает оплату картой по умолчанию
	var req InitiatePaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /bookings/{id}/payment - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.Initiate(r.Context(), req.ToServiceRequest(bookingID))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrBookingNotFound):
			h.logger.Warn("POST /bookings/{id}/payment - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgBookingNotFound)

		case errors.Is(err, payments.ErrPaymentExists):
			h.logger.Warn("POST /bookings/{id}/payment - Payment already exists: booking_id=%d", bookingID)
			handlers.RespondError(w, http.StatusConflict, msgPaymentExists)

		case errors.Is(err, payments.ErrInvalidAmount):
			h.logger.Warn("POST /bookings/{id}/payment - Invalid amount: booking_id=%d", bookingID)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, paygate.ErrGatewayUnavailable):
			h.logger.Error("POST /bookings/{id}/payment - Gateway unavailable: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgGatewayUnavail)

		case errors.Is(err, paygate.ErrGatewayAuthFailed), errors.Is(err, paygate.ErrGateway):
			h.logger.Error("POST /bookings/{id}/payment - Gateway error: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayError)

		default:
			h.logger.Error("POST /bookings/{id}/payment - Failed to initiate payment: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings/{id}/payment - Payment initiated: booking_id=%d, payment_id=%d",
		bookingID, resp.PaymentID)
	handlers.RespondJSON(w, http.StatusCreated, resp)
}
