package payroll

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

func validatePeriod(errs validator.ValidationErrors, month, year int) validator.ValidationErrors {
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if year < 1 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be a positive year"})
	}
	return errs
}

// SummaryCacheKey is the cache key for a period summary.
func SummaryCacheKey(month, year int) string {
	return fmt.Sprintf("payroll:summary:%04d-%02d", year, month)
}

// ========== PAYROLL RECORD DTOs ==========

type CalculatePayrollRequest struct {
	EmployeeID  string `json:"employee_id"`
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
}

func (r *CalculatePayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = validatePeriod(errs, r.PeriodMonth, r.PeriodYear)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type GenerateBatchRequest struct {
	PeriodMonth int      `json:"period_month"`
	PeriodYear  int      `json:"period_year"`
	EmployeeIDs []string `json:"employee_ids,omitempty"` // Empty = all active employees
}

func (r *GenerateBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	errs = validatePeriod(errs, r.PeriodMonth, r.PeriodYear)
	for i, id := range r.EmployeeIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("employee_ids[%d]", i), Message: "cannot be empty"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdatePayrollRecordRequest struct {
	ID            string
	BasicSalary   *decimal.Decimal `json:"basic_salary,omitempty"`
	Allowance     *decimal.Decimal `json:"allowance,omitempty"`
	OvertimePay   *decimal.Decimal `json:"overtime_pay,omitempty"`
	Bonus         *decimal.Decimal `json:"bonus,omitempty"`
	Deductions    *decimal.Decimal `json:"deductions,omitempty"`
	TotalSalary   *decimal.Decimal `json:"total_salary,omitempty"`
	WorkingDays   *int             `json:"working_days,omitempty"`
	AbsentDays    *int             `json:"absent_days,omitempty"`
	OvertimeHours *decimal.Decimal `json:"overtime_hours,omitempty"`
	Status        *string          `json:"status,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

func (r *UpdatePayrollRecordRequest) Validate() error {
	var errs validator.ValidationErrors

	amounts := []struct {
		field string
		value *decimal.Decimal
	}{
		{"basic_salary", r.BasicSalary},
		{"allowance", r.Allowance},
		{"overtime_pay", r.OvertimePay},
		{"bonus", r.Bonus},
		{"deductions", r.Deductions},
		{"overtime_hours", r.OvertimeHours},
	}
	for _, a := range amounts {
		if a.value != nil && a.value.IsNegative() {
			errs = append(errs, validator.ValidationError{Field: a.field, Message: "must be non-negative"})
		}
	}
	if r.WorkingDays != nil && *r.WorkingDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "working_days", Message: "must be non-negative"})
	}
	if r.AbsentDays != nil && *r.AbsentDays < 0 {
		errs = append(errs, validator.ValidationError{Field: "absent_days", Message: "must be non-negative"})
	}
	if r.Status != nil && !PayrollStatus(*r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of pending, approved, calculated, paid"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// changesAmounts reports whether the request touches any monetary field.
func (r *UpdatePayrollRecordRequest) changesAmounts() bool {
	return r.BasicSalary != nil || r.Allowance != nil || r.OvertimePay != nil ||
		r.Bonus != nil || r.Deductions != nil || r.TotalSalary != nil
}

// Apply merges the request into record. When amount components change and no
// explicit total is given, the total is recomputed from the components.
func (r *UpdatePayrollRecordRequest) Apply(record PayrollRecord) (PayrollRecord, error) {
	if record.Status == PayrollStatusPaid {
		return record, ErrPayrollRecordAlreadyPaid
	}
	if r.Status != nil {
		next := PayrollStatus(*r.Status)
		if !record.Status.CanTransitionTo(next) {
			return record, fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, record.Status, next)
		}
		record.Status = next
	}

	recompute := r.changesAmounts() && r.TotalSalary == nil
	if r.BasicSalary != nil {
		record.BasicSalary = r.BasicSalary.Round(2)
	}
	if r.Allowance != nil {
		record.Allowance = r.Allowance.Round(2)
	}
	if r.OvertimePay != nil {
		record.OvertimePay = r.OvertimePay.Round(2)
	}
	if r.Bonus != nil {
		record.Bonus = r.Bonus.Round(2)
	}
	if r.Deductions != nil {
		record.Deductions = r.Deductions.Round(2)
	}
	if r.TotalSalary != nil {
		record.TotalSalary = r.TotalSalary.Round(2)
	}
	if recompute {
		record.TotalSalary = record.NetFromComponents()
	}
	if r.WorkingDays != nil {
		record.WorkingDays = *r.WorkingDays
	}
	if r.AbsentDays != nil {
		record.AbsentDays = *r.AbsentDays
	}
	if r.OvertimeHours != nil {
		record.OvertimeHours = r.OvertimeHours.Round(2)
	}
	if r.Notes != nil {
		record.Notes = r.Notes
	}
	return record, nil
}

type BreakdownResponse struct {
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  string          `json:"employee_name"`
	PeriodMonth   int             `json:"period_month"`
	PeriodYear    int             `json:"period_year"`
	PeriodStart   string          `json:"period_start"`
	PeriodEnd     string          `json:"period_end"`
	WorkingDays   int             `json:"working_days"`
	AbsentDays    int             `json:"absent_days"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	DailySalary   decimal.Decimal `json:"daily_salary"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	Allowance     decimal.Decimal `json:"allowance"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	Bonus         decimal.Decimal `json:"bonus"`
	Deductions    decimal.Decimal `json:"deductions"`
	TotalSalary   decimal.Decimal `json:"total_salary"`
}

type PayrollRecordResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	EmployeeCode  *string         `json:"employee_code,omitempty"`
	PeriodMonth   int             `json:"period_month"`
	PeriodYear    int             `json:"period_year"`
	BasicSalary   decimal.Decimal `json:"basic_salary"`
	Allowance     decimal.Decimal `json:"allowance"`
	OvertimePay   decimal.Decimal `json:"overtime_pay"`
	Bonus         decimal.Decimal `json:"bonus"`
	Deductions    decimal.Decimal `json:"deductions"`
	TotalSalary   decimal.Decimal `json:"total_salary"`
	WorkingDays   int             `json:"working_days"`
	AbsentDays    int             `json:"absent_days"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Status        string          `json:"status"`
	Notes         *string         `json:"notes,omitempty"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

// ToResponse maps a record to its API shape.
func (r PayrollRecord) ToResponse() PayrollRecordResponse {
	return PayrollRecordResponse{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		EmployeeCode:  r.EmployeeCode,
		PeriodMonth:   r.PeriodMonth,
		PeriodYear:    r.PeriodYear,
		BasicSalary:   r.BasicSalary,
		Allowance:     r.Allowance,
		OvertimePay:   r.OvertimePay,
		Bonus:         r.Bonus,
		Deductions:    r.Deductions,
		TotalSalary:   r.TotalSalary,
		WorkingDays:   r.WorkingDays,
		AbsentDays:    r.AbsentDays,
		TotalHours:    r.TotalHours,
		OvertimeHours: r.OvertimeHours,
		Status:        string(r.Status),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.Format(time.RFC3339),
	}
}

type PayrollFilter struct {
	PeriodMonth *int    `json:"period_month,omitempty"`
	PeriodYear  *int    `json:"period_year,omitempty"`
	Status      *string `json:"status,omitempty"`
	EmployeeID  *string `json:"employee_id,omitempty"`
	Page        int     `json:"page"`
	Limit       int     `json:"limit"`
	SortBy      string  `json:"sort_by"`
	SortOrder   string  `json:"sort_order"`
}

type ListPayrollRecordResponse struct {
	Data       []PayrollRecordResponse `json:"data"`
	TotalCount int64                   `json:"total_count"`
	Page       int                     `json:"page"`
	Limit      int                     `json:"limit"`
}

type PayrollSummaryResponse struct {
	PeriodMonth     int             `json:"period_month"`
	PeriodYear      int             `json:"period_year"`
	TotalRecords    int             `json:"total_records"`
	TotalBasic      decimal.Decimal `json:"total_basic_salary"`
	TotalAllowance  decimal.Decimal `json:"total_allowance"`
	TotalOvertime   decimal.Decimal `json:"total_overtime_pay"`
	TotalBonus      decimal.Decimal `json:"total_bonus"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalSalary     decimal.Decimal `json:"total_salary"`
	PendingCount    int             `json:"pending_count"`
	ApprovedCount   int             `json:"approved_count"`
	PaidCount       int             `json:"paid_count"`
}
