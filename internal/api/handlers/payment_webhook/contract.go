package payment_webhook

import "context"

// PaymentService интерфейс сервиса платежей
type PaymentService interface {
	HandleCallback(ctx context.Context, payload []byte) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
