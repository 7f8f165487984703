package verify_payment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/VMP-BookingService/internal/api/handlers"
	"github.com/m04kA/VMP-BookingService/internal/integrations/paygate"
	"github.com/m04kA/VMP-BookingService/internal/service/payments"
)

const (
	msgInvalidPaymentID = "некорректный ID платежа"
	msgNotFound         = "платеж не найден"
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

// Handle POST /api/v1/payments/{paymentId}/verify
//
// Активная сверка статуса платежа со шлюзом. Для платежа в терминальном
// статусе возвращает текущее состояние без обращения к шлюзу.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	paymentID, err := strconv.ParseInt(mux.Vars(r)["paymentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /payments/{id}/verify - Invalid payment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaymentID)
		return
	}

	resp, err := h.service.Verify(r.Context(), paymentID)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/{id}/verify - Payment not found: payment_id=%d", paymentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, paygate.ErrGatewayUnavailable):
			h.logger.Error("POST /payments/{id}/verify - Gateway unavailable: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondError(w, http.StatusServiceUnavailable, msgGatewayUnavail)

		case errors.Is(err, paygate.ErrGatewayAuthFailed), errors.Is(err, paygate.ErrGateway):
			h.logger.Error("POST /payments/{id}/verify - Gateway error: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondError(w, http.StatusBadGateway, msgGatewayError)

		default:
			h.logger.Error("POST /payments/{id}/verify - Failed to verify payment: payment_id=%d, error=%v",
				paymentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/{id}/verify - Payment verified: payment_id=%d, status=%s",
		paymentID, resp.Status)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
