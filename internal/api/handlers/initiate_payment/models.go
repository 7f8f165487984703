package initiate_payment

import (
	"github.com/m04kA/VMP-BookingService/internal/service/payments/models"
)

// InitiatePaymentRequest HTTP запрос на инициацию платежа
// BookingID берется из path параметра, тело опционально
type InitiatePaymentRequest struct {
	Method *string `json:"method,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в сервисную модель
func (r *InitiatePaymentRequest) ToServiceRequest(bookingID int64) *models.InitiatePaymentRequest {
	return &models.InitiatePaymentRequest{
		BookingID: bookingID,
		Method:    r.Method,
	}
}
