package payments

import (
	"context"
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
	"github.com/m04kA/VMP-BookingService/internal/integrations/paygate"
)

// PaymentRepository интерфейс репозитория платежей
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error)
	GetByID(ctx context.Context, id int64) (*domain.Payment, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*domain.Payment, error)
	GetByTransactionRef(ctx context.Context, transactionRef string) (*domain.Payment, error)
	UpdateStatus(ctx context.Context, id int64, expected, status domain.PaymentStatus, paidAt *time.Time) error
	MergeRawResponse(ctx context.Context, id int64, raw []byte) error
	MarkRefunded(ctx context.Context, id int64, refundAmount float64, refundRef string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// ScheduleRepository интерфейс репозитория площадок (для валюты платежа)
type ScheduleRepository interface {
	GetVenue(ctx context.Context, venueID int64) (*domain.Venue, error)
}

// BookingService интерфейс сервиса бронирований
// Подтверждение бронирования - side effect успешной оплаты
type BookingService interface {
	Confirm(ctx context.Context, bookingID int64) error
}

// GatewayClient интерфейс клиента платежного шлюза
type GatewayClient interface {
	CreatePayment(ctx context.Context, req *paygate.PaymentRequest) (*paygate.PaymentResponse, error)
	GetPaymentStatus(ctx context.Context, paymentID string) (*paygate.StatusResponse, error)
	Refund(ctx context.Context, paymentID string, req *paygate.RefundRequest) (*paygate.RefundResponse, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
