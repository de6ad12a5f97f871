package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PaymentStatus
		want     bool
	}{
		{PaymentStatusPending, PaymentStatusCompleted, true},
		{PaymentStatusPending, PaymentStatusFailed, true},
		{PaymentStatusFailed, PaymentStatusCompleted, true},
		{PaymentStatusCompleted, PaymentStatusFailed, false},
		{PaymentStatusCompleted, PaymentStatusPending, false},
		{PaymentStatusFailed, PaymentStatusPending, false},
		{PaymentStatusCompleted, PaymentStatusCompleted, true},
		{PaymentStatusFailed, PaymentStatusFailed, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestCreatePaymentRequest_Validate(t *testing.T) {
	req := CreatePaymentRequest{
		PayrollID:     "p1",
		Amount:        decimal.RequireFromString("100.50"),
		PaymentDate:   "2024-03-31",
		PaymentMethod: "bank_transfer",
	}
	require.NoError(t, req.Validate())
	assert.Equal(t, "2024-03-31", req.Date().Format("2006-01-02"))

	bad := CreatePaymentRequest{Amount: decimal.Zero, PaymentDate: "31/03/2024", PaymentMethod: "crypto"}
	err := bad.Validate()
	require.Error(t, err)
	for _, field := range []string{"payroll_id", "amount", "payment_date", "payment_method"} {
		assert.Contains(t, err.Error(), field)
	}
}

func TestUpdatePaymentRequest_ApplyRejectsCompleted(t *testing.T) {
	amount := decimal.RequireFromString("10")
	_, err := (&UpdatePaymentRequest{Amount: &amount}).Apply(Payment{Status: PaymentStatusCompleted})
	assert.ErrorIs(t, err, ErrPaymentCompleted)

	updated, err := (&UpdatePaymentRequest{Amount: &amount}).Apply(Payment{Status: PaymentStatusFailed})
	require.NoError(t, err)
	assert.Equal(t, "10.00", updated.Amount.StringFixed(2))
}
