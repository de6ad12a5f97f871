package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayrollStatus enum
type PayrollStatus string

const (
	PayrollStatusPending    PayrollStatus = "pending"
	PayrollStatusApproved   PayrollStatus = "approved"
	PayrollStatusCalculated PayrollStatus = "calculated"
	PayrollStatusPaid       PayrollStatus = "paid"
)

// rank orders statuses along the lifecycle. Approved and calculated share a rank.
func (s PayrollStatus) rank() int {
	switch s {
	case PayrollStatusPending:
		return 0
	case PayrollStatusApproved, PayrollStatusCalculated:
		return 1
	case PayrollStatusPaid:
		return 2
	}
	return -1
}

func (s PayrollStatus) IsValid() bool {
	return s.rank() >= 0
}

// CanTransitionTo reports whether a manual status change from s to next is allowed.
// Status never moves backwards and paid is only reachable through settlement.
func (s PayrollStatus) CanTransitionTo(next PayrollStatus) bool {
	if !next.IsValid() || s == PayrollStatusPaid || next == PayrollStatusPaid {
		return false
	}
	return next.rank() >= s.rank()
}

// IsSettleable reports whether a payroll in this status may be picked for bulk settlement.
func (s PayrollStatus) IsSettleable() bool {
	return s == PayrollStatusApproved || s == PayrollStatusCalculated
}

// PayrollRecord - one computed payroll per employee per period
type PayrollRecord struct {
	ID            string
	EmployeeID    string
	PeriodMonth   int
	PeriodYear    int
	BasicSalary   decimal.Decimal
	Allowance     decimal.Decimal
	OvertimePay   decimal.Decimal
	Bonus         decimal.Decimal
	Deductions    decimal.Decimal
	TotalSalary   decimal.Decimal
	WorkingDays   int
	AbsentDays    int
	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	Status        PayrollStatus
	Notes         *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName  *string
	EmployeeCode  *string
	EmployeeEmail *string
}

// NetFromComponents recomputes total salary from the stored components.
func (r PayrollRecord) NetFromComponents() decimal.Decimal {
	return r.BasicSalary.
		Add(r.Allowance).
		Add(r.OvertimePay).
		Add(r.Bonus).
		Sub(r.Deductions).
		Round(2)
}
