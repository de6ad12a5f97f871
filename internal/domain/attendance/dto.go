package attendance

import (
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CheckInRequest struct {
	EmployeeID string  `json:"employee_id"`
	Notes      *string `json:"notes,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ManualEntryRequest records attendance entered by HR. CheckIn and CheckOut are RFC3339 timestamps.
type ManualEntryRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	CheckIn    *string `json:"check_in,omitempty"`
	CheckOut   *string `json:"check_out,omitempty"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes,omitempty"`

	parsedDate     time.Time
	parsedCheckIn  *time.Time
	parsedCheckOut *time.Time
}

func (r *ManualEntryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if date, ok := validator.IsValidDate(r.Date); ok {
		r.parsedDate = date
	} else {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be in YYYY-MM-DD format"})
	}
	if !AttendanceStatus(r.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of present, absent, late, half-day"})
	}
	if r.CheckIn != nil {
		if t, ok := validator.IsValidDateTime(*r.CheckIn); ok {
			r.parsedCheckIn = &t
		} else {
			errs = append(errs, validator.ValidationError{Field: "check_in", Message: "must be an RFC3339 timestamp"})
		}
	}
	if r.CheckOut != nil {
		if t, ok := validator.IsValidDateTime(*r.CheckOut); ok {
			r.parsedCheckOut = &t
		} else {
			errs = append(errs, validator.ValidationError{Field: "check_out", Message: "must be an RFC3339 timestamp"})
		}
	}
	if r.parsedCheckOut != nil && r.parsedCheckIn == nil {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "requires check_in"})
	}
	if r.parsedCheckIn != nil && r.parsedCheckOut != nil && !r.parsedCheckOut.After(*r.parsedCheckIn) {
		errs = append(errs, validator.ValidationError{Field: "check_out", Message: "must be after check_in"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToAttendance builds the record described by a validated request.
func (r *ManualEntryRequest) ToAttendance() Attendance {
	a := Attendance{
		EmployeeID: r.EmployeeID,
		Date:       r.parsedDate,
		CheckIn:    r.parsedCheckIn,
		Status:     AttendanceStatus(r.Status),
		Notes:      r.Notes,
	}
	if r.parsedCheckOut != nil {
		a.ApplyCheckOut(*r.parsedCheckOut)
	}
	return a
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`
	Status     *string `json:"status,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var okStart, okEnd bool
	if f.StartDate != nil {
		if start, okStart = validator.IsValidDate(*f.StartDate); !okStart {
			errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if f.EndDate != nil {
		if end, okEnd = validator.IsValidDate(*f.EndDate); !okEnd {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must not be before start_date"})
	}
	if f.Status != nil && !AttendanceStatus(*f.Status).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be one of present, absent, late, half-day"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	EmployeeName  *string         `json:"employee_name,omitempty"`
	EmployeeCode  *string         `json:"employee_code,omitempty"`
	Date          string          `json:"date"`
	CheckIn       *string         `json:"check_in,omitempty"`
	CheckOut      *string         `json:"check_out,omitempty"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
	Status        string          `json:"status"`
	Notes         *string         `json:"notes,omitempty"`
}

type ListAttendanceResponse struct {
	Data       []AttendanceResponse `json:"data"`
	TotalCount int64                `json:"total_count"`
	Page       int                  `json:"page"`
	Limit      int                  `json:"limit"`
}

type MonthlySummaryRequest struct {
	EmployeeID string `json:"employee_id"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
}

func (r *MonthlySummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if r.Month < 1 || r.Month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	if r.Year < 1 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a positive year"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type MonthlySummaryResponse struct {
	EmployeeID    string          `json:"employee_id"`
	Month         int             `json:"month"`
	Year          int             `json:"year"`
	PresentDays   int             `json:"present_days"`
	AbsentDays    int             `json:"absent_days"`
	LateDays      int             `json:"late_days"`
	HalfDays      int             `json:"half_days"`
	TotalHours    decimal.Decimal `json:"total_hours"`
	OvertimeHours decimal.Decimal `json:"overtime_hours"`
}
