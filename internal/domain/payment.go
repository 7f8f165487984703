package domain

import "time"

// PaymentStatus represents the status of a payment
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment represents a payment attached to exactly one booking (1:1)
// Статус меняется только по данным шлюза (verify/webhook), никогда по запросу клиента
type Payment struct {
	ID        int64
	BookingID int64

	Method   string
	Amount   float64 // Сумма в основных единицах валюты (в шлюз уходит в минорных)
	Currency string

	Status         PaymentStatus
	TransactionRef string // ID платежа, присвоенный шлюзом (уникальный)
	RawResponse    []byte // Сырые ответы шлюза, только дописываются (append-only merge)

	PaidAt       *time.Time
	RefundAmount *float64
	RefundRef    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further gateway-driven transition is possible
func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentFailed || p.Status == PaymentRefunded
}

// CanBeRefunded returns true if the payment can be refunded
func (p *Payment) CanBeRefunded() bool {
	return p.Status == PaymentCompleted
}

// AmountMinorUnits возвращает сумму в минорных единицах валюты (копейки/центы)
func (p *Payment) AmountMinorUnits() int64 {
	return ToMinorUnits(p.Amount)
}

// ToMinorUnits конвертирует сумму из основных единиц в минорные
func ToMinorUnits(amount float64) int64 {
	return int64(amount*100 + 0.5)
}
