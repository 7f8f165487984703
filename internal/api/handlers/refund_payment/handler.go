package refund_payment

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VMP-BookingService/internal/api/handlers"
	"github.com/m04kA/VMP-BookingService/internal/integrations/paygate"
	"github.com/m04kA/VMP-BookingService/internal/service/payments"
	"github.com/m04kA/VMP-BookingService/internal/service/payments/models"
)

const (
	msgInvalidPaymentID = "некорректный ID платежа"
	msgInvalidBody      = "некорректное тело запроса"
	msgNotFound         = "платеж не найден"
	msgRefundNotAllowed = "возврат возможен только для завершенного платежа"
	msgInvalidAmount    = "некорректная сумма возврата"
	msgGatewayUnavail   = "платежный шлюз временно недоступен, повторите попытку позже"
	msgGatewayError     = "ошибка платежного шлюза"
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

// Handle POST /api/v1/payments/{paymentId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	paymentID, err := strconv.ParseInt(mux.Vars(r)["paymentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /payments/{id}/refund - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	// Тело опционально: без суммы возвращается полная стоимость
	var req models.RefundPaymentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("POST /payments/{id}/refund - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	resp, err := h.service.Refund(r.Context(), paymentID, &req)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/{id}/refund - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, payments.ErrRefundNotAllowed):
			h.logger.Warn("POST /payments/{id}/refund - Refund not allowed: payment_id=%d", paymentID)
			handlers.RespondError(w, http.StatusConflict, msgRefundNotAllowed)

		case errors.Is(err, payments.ErrInvalidAmount):
			h.logger.Warn("POST /payments/{id}/refund - Invalid amount: payment_id=%d", paymentID)
			handlers.RespondBadRequest(w, msgInvalidAmount)

		case errors.Is(err, paygate.ErrGatewayUnavailable):
			h.logger.Error("POST /payments/{id}/refund - Gateway unavailable: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgGatewayUnavail)

		case errors.Is(err, paygate.ErrGatewayAuthFailed), errors.Is(err, paygate.ErrGateway):
			h.logger.Error("POST /payments/{id}/refund - Gateway error: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayError)

		default:
			h.logger.Error("POST /payments/{id}/refund - Failed to refund payment: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/refund - Payment refunded: payment_id=%d, refund_ref=%s",
		paymentID, resp.RefundRef)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
