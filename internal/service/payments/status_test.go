package payments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/VMP-BookingService/internal/domain"
)

func TestMapGatewayStatus(t *testing.T) {
	completed := []string{"SUCCESS", "COMPLETED", "APPROVED", "PAID", "CONFIRMED"}
	pending := []string{"PENDING", "PROCESSING", "INITIATED", "CREATED", "AWAITING"}
	refunded := []string{"REFUNDED", "REVERSED"}
	failed := []string{"FAILED", "DECLINED", "REJECTED", "CANCELLED", "ERROR"}

	for _, s := range completed {
		assert.Equal(t, domain.PaymentCompleted, mapGatewayStatus(s), s)
	}
	for _, s := range pending {
		assert.Equal(t, domain.PaymentPending, mapGatewayStatus(s), s)
	}
	for _, s := range refunded {
		assert.Equal(t, domain.PaymentRefunded, mapGatewayStatus(s), s)
	}
	for _, s := range failed {
		assert.Equal(t, domain.PaymentFailed, mapGatewayStatus(s), s)
	}
}

func TestMapGatewayStatus_CaseInsensitive(t *testing.T) {
	assert.Equal(t, domain.PaymentCompleted, mapGatewayStatus("success"))
	assert.Equal(t, domain.PaymentCompleted, mapGatewayStatus("Success"))
	assert.Equal(t, domain.PaymentPending, mapGatewayStatus("created"))
	assert.Equal(t, domain.PaymentFailed, mapGatewayStatus("declined"))
	assert.Equal(t, domain.PaymentCompleted, mapGatewayStatus("  PAID  "))
}

func TestMapGatewayStatus_UnknownFailsClosed(t *testing.T) {
	assert.Equal(t, domain.PaymentFailed, mapGatewayStatus("SOMETHING_NEW"))
	assert.Equal(t, domain.PaymentFailed, mapGatewayStatus(""))
	assert.Equal(t, domain.PaymentFailed, mapGatewayStatus("ОПЛАЧЕНО"))
}
