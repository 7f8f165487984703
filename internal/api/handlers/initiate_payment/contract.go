package initiate_payment

import (
	"context"

	"github.com/m04kA/VMP-BookingService/internal/service/payments/models"
)

// PaymentService интерфейс сервиса платежей
type PaymentService interface {
	Initiate(ctx context.Context, req *models.InitiatePaymentRequest) (*models.InitiatePaymentResponse, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}
