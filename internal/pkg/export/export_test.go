package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int { return &i }

func TestPayrollWorkbook(t *testing.T) {
	records := []payroll.PayrollRecord{
		{
			EmployeeCode: strPtr("EMP001"),
			EmployeeName: strPtr("Budi Santoso"),
			BasicSalary:  decimal.RequireFromString("18181818.18"),
			Allowance:    decimal.RequireFromString("2000000"),
			OvertimePay:  decimal.RequireFromString("681818.18"),
			TotalSalary:  decimal.RequireFromString("20863636.36"),
			WorkingDays:  20,
			Status:       payroll.PayrollStatusPending,
		},
		{
			EmployeeCode: strPtr("EMP002"),
			EmployeeName: strPtr("Siti Aminah"),
			BasicSalary:  decimal.RequireFromString("1000"),
			TotalSalary:  decimal.RequireFromString("1000"),
			Status:       payroll.PayrollStatusPaid,
		},
	}

	data, err := PayrollWorkbook(1, 2024, records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(PayrollSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "Employee Code", rows[0][0])
	assert.Equal(t, "EMP001", rows[1][0])
	assert.Equal(t, "2024-01", rows[1][2])
	assert.Equal(t, "paid", rows[2][12])
	assert.Equal(t, "TOTAL", rows[3][0])

	raw, err := f.GetCellValue(PayrollSheet, "I4", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "20864636.36", raw)
}

func TestPaymentsCSV(t *testing.T) {
	payments := []payment.Payment{
		{
			EmployeeCode:    strPtr("EMP001"),
			EmployeeName:    strPtr("Budi Santoso"),
			PeriodMonth:     intPtr(12),
			PeriodYear:      intPtr(2023),
			Amount:          decimal.RequireFromString("20863636.36"),
			PaymentDate:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			PaymentMethod:   payment.PaymentMethodBankTransfer,
			ReferenceNumber: strPtr("BULK-1"),
			Status:          payment.PaymentStatusCompleted,
		},
	}

	data, err := PaymentsCSV(payments)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "employee_code,employee_name,period,amount,payment_date,payment_method,reference_number,status", lines[0])
	assert.Equal(t, "EMP001,Budi Santoso,2023-12,20863636.36,2024-01-05,bank_transfer,BULK-1,completed", lines[1])
}

func TestPaymentsWorkbook_Empty(t *testing.T) {
	data, err := PaymentsWorkbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(PaymentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Reference", rows[0][6])
}
