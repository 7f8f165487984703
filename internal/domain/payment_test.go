package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayment_IsTerminal(t *testing.T) {
	assert.False(t, (&Payment{Status: PaymentPending}).IsTerminal())
	assert.False(t, (&Payment{Status: PaymentCompleted}).IsTerminal())
	assert.True(t, (&Payment{Status: PaymentFailed}).IsTerminal())
	assert.True(t, (&Payment{Status: PaymentRefunded}).IsTerminal())
}

func TestPayment_CanBeRefunded(t *testing.T) {
	assert.True(t, (&Payment{Status: PaymentCompleted}).CanBeRefunded())
	assert.False(t, (&Payment{Status: PaymentPending}).CanBeRefunded())
	assert.False(t, (&Payment{Status: PaymentFailed}).CanBeRefunded())
	assert.False(t, (&Payment{Status: PaymentRefunded}).CanBeRefunded())
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(200000), ToMinorUnits(2000.00))
	assert.Equal(t, int64(199999), ToMinorUnits(1999.99))
	assert.Equal(t, int64(1), ToMinorUnits(0.01))
	assert.Equal(t, int64(0), ToMinorUnits(0))

	p := Payment{Amount: 1234.56}
	assert.Equal(t, int64(123456), p.AmountMinorUnits())
}
