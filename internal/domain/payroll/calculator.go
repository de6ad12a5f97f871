package payroll

import (
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const (
	// WorkingDaysPerMonth is the fixed divisor used to derive the daily rate.
	WorkingDaysPerMonth = 22
	HoursPerDay         = 8
)

var overtimeMultiplier = decimal.NewFromFloat(1.5)

// Breakdown is the result of one payroll calculation.
type Breakdown struct {
	EmployeeID    string
	PeriodMonth   int
	PeriodYear    int
	PeriodStart   time.Time
	PeriodEnd     time.Time
	WorkingDays   int
	AbsentDays    int
	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	DailySalary   decimal.Decimal
	BasicSalary   decimal.Decimal
	Allowance     decimal.Decimal
	OvertimePay   decimal.Decimal
	Bonus         decimal.Decimal
	Deductions    decimal.Decimal
	TotalSalary   decimal.Decimal
}

// PeriodRange returns the first and last calendar day of the month.
func PeriodRange(month, year int) (start, end time.Time, err error) {
	if !validator.IsValidPeriod(month, year) {
		return time.Time{}, time.Time{}, ErrInvalidPeriod
	}

	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	nextYear, nextMonth := year, month+1
	if month == 12 {
		nextYear, nextMonth = year+1, 1
	}
	end = time.Date(nextYear, time.Month(nextMonth), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return start, end, nil
}

// Calculate derives the salary breakdown for emp from the attendance records of
// the given month. Records outside the period are ignored. Amounts are kept at
// full precision internally and rounded to two places on output; a total may
// be negative when deductions exceed earnings.
func Calculate(emp employee.Employee, records []attendance.Attendance, month, year int) (Breakdown, error) {
	start, end, err := PeriodRange(month, year)
	if err != nil {
		return Breakdown{}, err
	}

	var workingDays, absentDays int
	totalHours := decimal.Zero
	overtimeHours := decimal.Zero
	for _, r := range records {
		if r.Date.Before(start) || r.Date.After(end) {
			continue
		}
		switch r.Status {
		case attendance.StatusPresent:
			workingDays++
		case attendance.StatusAbsent:
			absentDays++
		}
		totalHours = totalHours.Add(r.TotalHours)
		overtimeHours = overtimeHours.Add(r.OvertimeHours)
	}

	daily := emp.Salary.Div(decimal.NewFromInt(WorkingDaysPerMonth))
	basic := daily.Mul(decimal.NewFromInt(int64(workingDays)))
	hourly := daily.Div(decimal.NewFromInt(HoursPerDay))
	overtimePay := overtimeHours.Mul(hourly).Mul(overtimeMultiplier)
	bonus := decimal.Zero
	deductions := daily.Mul(decimal.NewFromInt(int64(absentDays)))
	total := basic.Add(emp.Allowance).Add(overtimePay).Add(bonus).Sub(deductions)

	return Breakdown{
		EmployeeID:    emp.ID,
		PeriodMonth:   month,
		PeriodYear:    year,
		PeriodStart:   start,
		PeriodEnd:     end,
		WorkingDays:   workingDays,
		AbsentDays:    absentDays,
		TotalHours:    totalHours.Round(2),
		OvertimeHours: overtimeHours.Round(2),
		DailySalary:   daily.Round(2),
		BasicSalary:   basic.Round(2),
		Allowance:     emp.Allowance.Round(2),
		OvertimePay:   overtimePay.Round(2),
		Bonus:         bonus,
		Deductions:    deductions.Round(2),
		TotalSalary:   total.Round(2),
	}, nil
}

// ToRecord converts a breakdown into a new pending payroll record.
func (b Breakdown) ToRecord() PayrollRecord {
	return PayrollRecord{
		EmployeeID:    b.EmployeeID,
		PeriodMonth:   b.PeriodMonth,
		PeriodYear:    b.PeriodYear,
		BasicSalary:   b.BasicSalary,
		Allowance:     b.Allowance,
		OvertimePay:   b.OvertimePay,
		Bonus:         b.Bonus,
		Deductions:    b.Deductions,
		TotalSalary:   b.TotalSalary,
		WorkingDays:   b.WorkingDays,
		AbsentDays:    b.AbsentDays,
		TotalHours:    b.TotalHours,
		OvertimeHours: b.OvertimeHours,
		Status:        PayrollStatusPending,
	}
}
