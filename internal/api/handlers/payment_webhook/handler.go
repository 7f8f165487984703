package payment_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/VMP-BookingService/internal/api/handlers"
	"github.com/m04kA/VMP-BookingService/internal/service/payments"
)

// Лимит на размер тела webhook, шлюз присылает небольшие JSON документы
const maxPayloadBytes = 1 << 20

const (
	msgReadBody         = "не удалось прочитать тело запроса"
	msgMalformedPayload = "некорректный формат уведомления"
	msgPaymentNotFound  = "платеж по указанной транзакции не найден"
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

// Handle POST /api/v1/payments/webhook
//
// Принимает уведомления платежного шлюза. Повторная доставка одного и того же
// уведомления безопасна: терминальный платеж не меняется, побочные эффекты
// не выполняются повторно.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /payments/webhook - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgReadBody)
		return
	}

	if err := h.service.HandleCallback(r.Context(), payload); err != nil {
		switch {
		case errors.Is(err, payments.ErrMalformedPayload),
			errors.Is(err, payments.ErrMissingTransactionID),
			errors.Is(err, payments.ErrMissingStatus):
			h.logger.Warn("POST /payments/webhook - Malformed payload: %v", err)
			handlers.RespondBadRequest(w, msgMalformedPayload)

		case errors.Is(err, payments.ErrPaymentNotFound):
			h.logger.Warn("POST /payments/webhook - Payment not found: %v", err)
			handlers.RespondNotFound(w, msgPaymentNotFound)

		default:
			// 5xx заставит шлюз повторить доставку позже
			h.logger.Error("POST /payments/webhook - Failed to process callback: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /payments/webhook - Callback processed")
	w.WriteHeader(http.StatusOK)
}
