package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, employee.ErrEmployeeInactive),
		errors.Is(err, employee.ErrEmployeeAlreadyInactive):
		UnprocessableEntity(w, err.Error())

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceAlreadyExists),
		errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrCheckOutBeforeIn):
		UnprocessableEntity(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRecordNotFound):
		NotFound(w, "Payroll record not found")
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrPayrollRecordAlreadyPaid),
		errors.Is(err, payroll.ErrInvalidStatusTransition),
		errors.Is(err, payroll.ErrCannotDeletePaidRecord),
		errors.Is(err, payroll.ErrPayrollHasPayment),
		errors.Is(err, payroll.ErrNoEligibleEmployees):
		UnprocessableEntity(w, err.Error())

	// Payment domain errors
	case errors.Is(err, payment.ErrPaymentNotFound):
		NotFound(w, "Payment not found")
	case errors.Is(err, payment.ErrPaymentAlreadyExists):
		Conflict(w, err.Error())
	case errors.Is(err, payment.ErrInvalidPaymentTransition),
		errors.Is(err, payment.ErrPaymentCompleted),
		errors.Is(err, payment.ErrPayrollNotSettleable):
		UnprocessableEntity(w, err.Error())

	// Report domain errors
	case errors.Is(err, report.ErrUnsupportedFormat):
		BadRequest(w, "format must be xlsx or csv", nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
