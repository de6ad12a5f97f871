package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusLate    AttendanceStatus = "late"
	StatusHalfDay AttendanceStatus = "half-day"
)

func (s AttendanceStatus) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusHalfDay:
		return true
	}
	return false
}

// StandardWorkHours is the daily threshold above which hours count as overtime.
const StandardWorkHours = 8

type Attendance struct {
	ID            string
	EmployeeID    string
	Date          time.Time
	CheckIn       *time.Time
	CheckOut      *time.Time
	TotalHours    decimal.Decimal
	OvertimeHours decimal.Decimal
	Status        AttendanceStatus
	Notes         *string
	CreatedAt     time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}

// ComputeHours derives worked and overtime hours from a check-in/check-out pair.
// Total is rounded to two places before overtime is taken from it.
func ComputeHours(checkIn, checkOut time.Time) (total, overtime decimal.Decimal) {
	millis := decimal.NewFromInt(checkOut.Sub(checkIn).Milliseconds())
	total = millis.Div(decimal.NewFromInt(3_600_000)).Round(2)

	standard := decimal.NewFromInt(StandardWorkHours)
	if total.GreaterThan(standard) {
		return total, total.Sub(standard)
	}
	return total, decimal.Zero
}

// ApplyCheckOut records the check-out instant and the derived hours.
func (a *Attendance) ApplyCheckOut(at time.Time) {
	a.CheckOut = &at
	if a.CheckIn != nil {
		a.TotalHours, a.OvertimeHours = ComputeHours(*a.CheckIn, at)
	}
}

// DateOf returns the calendar date of t, as seen in t's location, at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
