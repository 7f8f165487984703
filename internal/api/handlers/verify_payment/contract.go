package verify_payment

import (
	"context"

	"github.com/m04kA/VMP-BookingService/internal/service/payments/models"
)

// PaymentService интерфейс сервиса платежей
type PaymentService interface {
	Verify(ctx context.Context, paymentID int64) (*models.PaymentResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
