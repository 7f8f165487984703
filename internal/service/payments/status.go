package payments

import (
	"strings"

	"github.com/m04kA/VMP-BookingService/internal/domain"
)

// gatewayStatusMap таблица соответствия статусов шлюза внутренним статусам платежа
// Сравнение регистронезависимое
var gatewayStatusMap = map[string]domain.PaymentStatus{
	"SUCCESS":   domain.PaymentCompleted,
	"COMPLETED": domain.PaymentCompleted,
	"APPROVED":  domain.PaymentCompleted,
	"PAID":      domain.PaymentCompleted,
	"CONFIRMED": domain.PaymentCompleted,

	"PENDING":    domain.PaymentPending,
	"PROCESSING": domain.PaymentPending,
	"INITIATED":  domain.PaymentPending,
	"CREATED":    domain.PaymentPending,
	"AWAITING":   domain.PaymentPending,

	"REFUNDED": domain.PaymentRefunded,
	"REVERSED": domain.PaymentRefunded,

	"FAILED":    domain.PaymentFailed,
	"DECLINED":  domain.PaymentFailed,
	"REJECTED":  domain.PaymentFailed,
	"CANCELLED": domain.PaymentFailed,
	"ERROR":     domain.PaymentFailed,
}

// mapGatewayStatus переводит статус шлюза во внутренний статус платежа
// Неизвестный статус трактуется как failed (fail-closed):
// деньги не считаются полученными, пока шлюз явно не подтвердил успех
func mapGatewayStatus(status string) domain.PaymentStatus {
	if mapped, ok := gatewayStatusMap[strings.ToUpper(strings.TrimSpace(status))]; ok {
		return mapped
	}
	return domain.PaymentFailed
}
