package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	paymentRepo "github.com/m04kA/VMP-BookingService/internal/infra/storage/payment"
)

// Известные имена полей в webhook payload: разные версии шлюза
// присылают ID транзакции и статус под разными ключами
var (
	transactionIDAliases = []string{"paymentId", "orderId", "id", "transactionId"}
	statusAliases        = []string{"status", "orderStatus", "paymentStatus", "state"}
)

// HandleCallback обрабатывает webhook от шлюза (push путь)
//
// Payload - произвольный JSON объект; ID транзакции и статус ищутся
// по всем известным псевдонимам полей. Некорректный payload отклоняется
// без изменения состояния. Обработка идемпотентна (см. applyStatus)
func (s *Service) HandleCallback(ctx context.Context, payload []byte) error {
	transactionRef, status, err := parseWebhookPayload(payload)
	if err != nil {
		s.logger.Warn("HandleCallback: rejected payload: %v", err)
		return err
	}

	s.logger.Info("HandleCallback: received webhook for transactionRef=%s, status=%q", transactionRef, status)

	payment, err := s.paymentRepo.GetByTransactionRef(ctx, transactionRef)
	if err != nil {
		if errors.Is(err, paymentRepo.ErrPaymentNotFound) {
			s.logger.Warn("HandleCallback: no payment for transactionRef=%s", transactionRef)
			return ErrPaymentNotFound
		}
		s.logger.Error("HandleCallback: repository error for transactionRef=%s: %v", transactionRef, err)
		return fmt.Errorf("%w: HandleCallback - repository error: %v", ErrInternal, err)
	}

	mapped := mapGatewayStatus(status)
	s.logger.Info("HandleCallback: payment id=%d gateway status=%q mapped to %s", payment.ID, status, mapped)

	return s.applyStatus(ctx, payment, mapped, payload)
}

// parseWebhookPayload извлекает ID транзакции и статус из webhook payload,
// пробуя все известные псевдонимы полей
func parseWebhookPayload(payload []byte) (transactionRef, status string, err error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	transactionRef = probeStringField(fields, transactionIDAliases)
	if transactionRef == "" {
		return "", "", ErrMissingTransactionID
	}

	status = probeStringField(fields, statusAliases)
	if status == "" {
		return "", "", ErrMissingStatus
	}

	return transactionRef, status, nil
}

// probeStringField возвращает первое непустое строковое значение
// по списку псевдонимов ключей
func probeStringField(fields map[string]interface{}, aliases []string) string {
	for _, alias := range aliases {
		value, ok := fields[alias]
		if !ok {
			continue
		}
		switch v := value.(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			// Некоторые шлюзы присылают числовые ID
			return fmt.Sprintf("%.0f", v)
		}
	}
	return ""
}
