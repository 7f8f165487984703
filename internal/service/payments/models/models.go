package models

import (
	"time"

	"github.com/m04kA/VMP-BookingService/internal/domain"
)

// Request модели

// InitiatePaymentRequest запрос на инициацию платежа по бронированию
type InitiatePaymentRequest struct {
	BookingID int64   `json:"bookingId"`
	Method    *string `json:"method,omitempty"` // По умолчанию "card"
}

// RefundPaymentRequest запрос на возврат платежа
// Amount по умолчанию равен полной сумме платежа и не может её превышать
type RefundPaymentRequest struct {
	Amount *float64 `json:"amount,omitempty"`
}

// Response модели

// InitiatePaymentResponse ответ на инициацию платежа
type InitiatePaymentResponse struct {
	PaymentID      int64  `json:"paymentId"`
	TransactionRef string `json:"transactionRef"`
	Status         string `json:"status"`
	FormURL        string `json:"formUrl"` // URL платежной формы для редиректа клиента
}

// PaymentResponse ответ с данными платежа
type PaymentResponse struct {
	ID        int64  `json:"id"`
	BookingID int64  `json:"bookingId"`
	Method    string `json:"method"`

	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`

	Status         string `json:"status"`
	TransactionRef string `json:"transactionRef"`

	PaidAt       *string  `json:"paidAt,omitempty"` // ISO 8601 format
	RefundAmount *float64 `json:"refundAmount,omitempty"`
	RefundRef    *string  `json:"refundRef,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// RefundPaymentResponse ответ на возврат платежа
type RefundPaymentResponse struct {
	PaymentID    int64   `json:"paymentId"`
	RefundRef    string  `json:"refundRef"`
	RefundAmount float64 `json:"refundAmount"`
	Status       string  `json:"status"`
}

// Методы конвертации

// FromDomainPayment конвертирует domain модель в DTO
func FromDomainPayment(p *domain.Payment) *PaymentResponse {
	if p == nil {
		return nil
	}

	resp := &PaymentResponse{
		ID:             p.ID,
		BookingID:      p.BookingID,
		Method:         p.Method,
		Amount:         p.Amount,
		Currency:       p.Currency,
		Status:         string(p.Status),
		TransactionRef: p.TransactionRef,
		RefundAmount:   p.RefundAmount,
		RefundRef:      p.RefundRef,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}

	if p.PaidAt != nil {
		paidAt := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}

	return resp
}
