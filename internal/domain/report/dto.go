package report

import (
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PERIOD
// ========================================

type PeriodRequest struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (r *PeriodRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{
			Field:   "month",
			Message: "month must be between 1 and 12",
		})
	}
	if r.Year < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "year",
			Message: "year must be a positive number",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

func (f ExportFormat) IsValid() bool {
	return f == FormatXLSX || f == FormatCSV
}

// ========================================
// PAYROLL REPORT
// ========================================

type PayrollReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	Summary payroll.PayrollSummaryResponse  `json:"summary"`
	Records []payroll.PayrollRecordResponse `json:"records"`
}

// ========================================
// PAYMENT REPORT
// ========================================

// PaymentBreakdownRow is one (method, status) aggregate over a date range.
type PaymentBreakdownRow struct {
	Method payment.PaymentMethod
	Status payment.PaymentStatus
	Count  int
	Amount decimal.Decimal
}

type MethodBreakdown struct {
	Method string          `json:"method"`
	Count  int             `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

type PaymentReport struct {
	PeriodMonth int    `json:"period_month"`
	PeriodYear  int    `json:"period_year"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	GeneratedAt string `json:"generated_at"`

	TotalPayments  int               `json:"total_payments"`
	TotalAmount    decimal.Decimal   `json:"total_amount"`
	CompletedCount int               `json:"completed_count"`
	PendingCount   int               `json:"pending_count"`
	FailedCount    int               `json:"failed_count"`
	CompletedTotal decimal.Decimal   `json:"completed_amount"`
	ByMethod       []MethodBreakdown `json:"by_method"`
}

// ========================================
// EXPORT
// ========================================

type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
}
