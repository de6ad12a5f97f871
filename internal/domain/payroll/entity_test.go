package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayrollStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to PayrollStatus
		want     bool
	}{
		{PayrollStatusPending, PayrollStatusApproved, true},
		{PayrollStatusPending, PayrollStatusCalculated, true},
		{PayrollStatusApproved, PayrollStatusCalculated, true},
		{PayrollStatusApproved, PayrollStatusPending, false},
		{PayrollStatusPending, PayrollStatusPaid, false},
		{PayrollStatusPaid, PayrollStatusApproved, false},
		{PayrollStatusPending, "archived", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPayrollStatus_IsSettleable(t *testing.T) {
	assert.True(t, PayrollStatusApproved.IsSettleable())
	assert.True(t, PayrollStatusCalculated.IsSettleable())
	assert.False(t, PayrollStatusPending.IsSettleable())
	assert.False(t, PayrollStatusPaid.IsSettleable())
}

func TestUpdatePayrollRecordRequest_Apply(t *testing.T) {
	record := PayrollRecord{
		BasicSalary: decimal.RequireFromString("1000"),
		Allowance:   decimal.RequireFromString("100"),
		TotalSalary: decimal.RequireFromString("1100"),
		Status:      PayrollStatusPending,
	}

	bonus := decimal.RequireFromString("50.555")
	updated, err := (&UpdatePayrollRecordRequest{Bonus: &bonus}).Apply(record)
	require.NoError(t, err)
	assert.Equal(t, "50.56", updated.Bonus.StringFixed(2))
	assert.Equal(t, "1150.56", updated.TotalSalary.StringFixed(2))

	total := decimal.RequireFromString("999")
	updated, err = (&UpdatePayrollRecordRequest{Bonus: &bonus, TotalSalary: &total}).Apply(record)
	require.NoError(t, err)
	assert.Equal(t, "999.00", updated.TotalSalary.StringFixed(2))

	pending := string(PayrollStatusPending)
	approved := PayrollRecord{Status: PayrollStatusApproved}
	_, err = (&UpdatePayrollRecordRequest{Status: &pending}).Apply(approved)
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = (&UpdatePayrollRecordRequest{Bonus: &bonus}).Apply(PayrollRecord{Status: PayrollStatusPaid})
	assert.ErrorIs(t, err, ErrPayrollRecordAlreadyPaid)
}

func TestGenerateBatchRequest_Validate(t *testing.T) {
	req := GenerateBatchRequest{PeriodMonth: 12, PeriodYear: 2024}
	assert.NoError(t, req.Validate())

	req = GenerateBatchRequest{PeriodMonth: 0, PeriodYear: 2024, EmployeeIDs: []string{"a", " "}}
	err := req.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee_ids[1]")
}

func TestBatchResult_Counts(t *testing.T) {
	r := NewBatchResult("b1", 3)
	r.Success("a", "rec-a", "generated")
	r.Warn("b", "already exists")
	r.Fail("c", "boom")

	assert.Equal(t, 1, r.SuccessCount)
	assert.Equal(t, 1, r.WarningCount)
	assert.Equal(t, 1, r.ErrorCount)
	require.Len(t, r.Items, 3)
	require.NotNil(t, r.Items[0].RecordID)
	assert.Equal(t, "rec-a", *r.Items[0].RecordID)
	assert.Equal(t, BatchOutcomeError, r.Items[2].Outcome)
}
