package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int, status attendance.AttendanceStatus, overtime string) attendance.Attendance {
	return attendance.Attendance{
		Date:          time.Date(year, month, d, 0, 0, 0, 0, time.UTC),
		Status:        status,
		TotalHours:    decimal.NewFromInt(8).Add(decimal.RequireFromString(overtime)),
		OvertimeHours: decimal.RequireFromString(overtime),
	}
}

func TestCalculate_ReferenceFigures(t *testing.T) {
	emp := employee.Employee{
		ID:        "emp-1",
		Salary:    decimal.RequireFromString("20000000"),
		Allowance: decimal.RequireFromString("2000000"),
	}

	var records []attendance.Attendance
	for d := 1; d <= 20; d++ {
		overtime := "0"
		if d == 1 {
			overtime = "4"
		}
		records = append(records, day(2024, time.March, d, attendance.StatusPresent, overtime))
	}

	b, err := Calculate(emp, records, 3, 2024)
	require.NoError(t, err)

	assert.Equal(t, 20, b.WorkingDays)
	assert.Equal(t, 0, b.AbsentDays)
	assert.Equal(t, "909090.91", b.DailySalary.StringFixed(2))
	assert.Equal(t, "18181818.18", b.BasicSalary.StringFixed(2))
	assert.Equal(t, "681818.18", b.OvertimePay.StringFixed(2))
	assert.Equal(t, "0.00", b.Deductions.StringFixed(2))
	assert.Equal(t, "20863636.36", b.TotalSalary.StringFixed(2))
	assert.Equal(t, "4.00", b.OvertimeHours.StringFixed(2))
}

func TestCalculate_IgnoresRecordsOutsidePeriod(t *testing.T) {
	emp := employee.Employee{Salary: decimal.RequireFromString("2200")}
	records := []attendance.Attendance{
		day(2024, time.February, 29, attendance.StatusPresent, "0"),
		day(2024, time.March, 1, attendance.StatusPresent, "0"),
		day(2024, time.April, 1, attendance.StatusPresent, "0"),
	}

	b, err := Calculate(emp, records, 3, 2024)
	require.NoError(t, err)
	assert.Equal(t, 1, b.WorkingDays)
	assert.Equal(t, "100.00", b.TotalSalary.StringFixed(2))
}

func TestCalculate_LateAndHalfDayAreNeitherWorkedNorAbsent(t *testing.T) {
	emp := employee.Employee{Salary: decimal.RequireFromString("2200")}
	records := []attendance.Attendance{
		day(2024, time.May, 2, attendance.StatusLate, "0"),
		day(2024, time.May, 3, attendance.StatusHalfDay, "0"),
	}

	b, err := Calculate(emp, records, 5, 2024)
	require.NoError(t, err)
	assert.Zero(t, b.WorkingDays)
	assert.Zero(t, b.AbsentDays)
	assert.Equal(t, "16.00", b.TotalHours.StringFixed(2))
}

func TestCalculate_NegativeTotalIsKept(t *testing.T) {
	emp := employee.Employee{Salary: decimal.RequireFromString("2200")}
	var records []attendance.Attendance
	for d := 1; d <= 3; d++ {
		records = append(records, day(2024, time.June, d, attendance.StatusAbsent, "0"))
	}

	b, err := Calculate(emp, records, 6, 2024)
	require.NoError(t, err)
	assert.Equal(t, "300.00", b.Deductions.StringFixed(2))
	assert.Equal(t, "-300.00", b.TotalSalary.StringFixed(2))
}

func TestCalculate_InvalidPeriod(t *testing.T) {
	_, err := Calculate(employee.Employee{}, nil, 13, 2024)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	_, err = Calculate(employee.Employee{}, nil, 0, 2024)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestPeriodRange(t *testing.T) {
	tests := []struct {
		month, year int
		wantEnd     string
	}{
		{12, 2024, "2024-12-31"},
		{2, 2024, "2024-02-29"},
		{2, 2023, "2023-02-28"},
		{4, 2025, "2025-04-30"},
	}
	for _, tt := range tests {
		start, end, err := PeriodRange(tt.month, tt.year)
		require.NoError(t, err)
		assert.Equal(t, 1, start.Day())
		assert.Equal(t, tt.wantEnd, end.Format("2006-01-02"))
	}
}

func TestBreakdown_ToRecordIsPending(t *testing.T) {
	b := Breakdown{EmployeeID: "emp-1", PeriodMonth: 1, PeriodYear: 2025, TotalSalary: decimal.NewFromInt(10)}

	r := b.ToRecord()
	assert.Equal(t, PayrollStatusPending, r.Status)
	assert.Equal(t, "emp-1", r.EmployeeID)
	assert.True(t, r.TotalSalary.Equal(decimal.NewFromInt(10)))
}
