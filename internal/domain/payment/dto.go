package payment

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const methodMessage = "must be one of bank_transfer, cash, check"

type CreatePaymentRequest struct {
	PayrollID       string          `json:"payroll_id"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Notes           *string         `json:"notes,omitempty"`

	parsedDate time.Time
}

func (r *CreatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PayrollID) {
		errs = append(errs, validator.ValidationError{Field: "payroll_id", Message: "is required"})
	}
	if !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}
	if date, ok := validator.IsValidDate(r.PaymentDate); ok {
		r.parsedDate = date
	} else {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
	}
	if !PaymentMethod(r.PaymentMethod).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: methodMessage})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *CreatePaymentRequest) Date() time.Time {
	return r.parsedDate
}

type UpdatePaymentRequest struct {
	ID              string           `json:"-"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	PaymentDate     *string          `json:"payment_date,omitempty"`
	PaymentMethod   *string          `json:"payment_method,omitempty"`
	ReferenceNumber *string          `json:"reference_number,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
}

func (r *UpdatePaymentRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Amount != nil && !r.Amount.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "must be greater than 0"})
	}
	if r.PaymentDate != nil {
		if _, ok := validator.IsValidDate(*r.PaymentDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if r.PaymentMethod != nil && !PaymentMethod(*r.PaymentMethod).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: methodMessage})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply merges the validated request into p.
func (r *UpdatePaymentRequest) Apply(p Payment) (Payment, error) {
	if p.Status == PaymentStatusCompleted {
		return p, ErrPaymentCompleted
	}
	if r.Amount != nil {
		p.Amount = r.Amount.Round(2)
	}
	if r.PaymentDate != nil {
		date, _ := validator.IsValidDate(*r.PaymentDate)
		p.PaymentDate = date
	}
	if r.PaymentMethod != nil {
		p.PaymentMethod = PaymentMethod(*r.PaymentMethod)
	}
	if r.ReferenceNumber != nil {
		p.ReferenceNumber = r.ReferenceNumber
	}
	if r.Notes != nil {
		p.Notes = r.Notes
	}
	return p, nil
}

type SettleBatchRequest struct {
	PayrollIDs    []string `json:"payroll_ids"`
	PaymentDate   string   `json:"payment_date"`
	PaymentMethod string   `json:"payment_method"`
	Notes         *string  `json:"notes,omitempty"`

	parsedDate time.Time
}

func (r *SettleBatchRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.PayrollIDs) == 0 {
		errs = append(errs, validator.ValidationError{Field: "payroll_ids", Message: "at least one payroll is required"})
	}
	for i, id := range r.PayrollIDs {
		if validator.IsEmpty(id) {
			errs = append(errs, validator.ValidationError{Field: fmt.Sprintf("payroll_ids[%d]", i), Message: "cannot be empty"})
		}
	}
	if date, ok := validator.IsValidDate(r.PaymentDate); ok {
		r.parsedDate = date
	} else {
		errs = append(errs, validator.ValidationError{Field: "payment_date", Message: "must be in YYYY-MM-DD format"})
	}
	if !PaymentMethod(r.PaymentMethod).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "payment_method", Message: methodMessage})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (r *SettleBatchRequest) Date() time.Time {
	return r.parsedDate
}

type PaymentResponse struct {
	ID              string          `json:"id"`
	PayrollID       string          `json:"payroll_id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	EmployeeCode    *string         `json:"employee_code,omitempty"`
	PeriodMonth     *int            `json:"period_month,omitempty"`
	PeriodYear      *int            `json:"period_year,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber *string         `json:"reference_number,omitempty"`
	Status          string          `json:"status"`
	Notes           *string         `json:"notes,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

// PaymentResultResponse carries a created or updated payment plus non-fatal
// warnings, such as an amount that differs from the payroll total.
type PaymentResultResponse struct {
	Payment  PaymentResponse `json:"payment"`
	Warnings []string        `json:"warnings,omitempty"`
}

type PaymentFilter struct {
	EmployeeID    *string `json:"employee_id,omitempty"`
	PayrollID     *string `json:"payroll_id,omitempty"`
	Status        *string `json:"status,omitempty"`
	PaymentMethod *string `json:"payment_method,omitempty"`
	Month         *int    `json:"month,omitempty"`
	Year          *int    `json:"year,omitempty"`
	Page          int     `json:"page"`
	Limit         int     `json:"limit"`
}

type ListPaymentResponse struct {
	Data       []PaymentResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
