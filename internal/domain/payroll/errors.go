package payroll

import "errors"

var (
	ErrPayrollRecordNotFound      = errors.New("payroll record not found")
	ErrPayrollRecordAlreadyExists = errors.New("payroll record already exists for this period")
	ErrPayrollRecordAlreadyPaid   = errors.New("payroll record already paid, cannot modify")
	ErrInvalidPeriod              = errors.New("invalid payroll period")
	ErrInvalidStatusTransition    = errors.New("invalid payroll status transition")
	ErrCannotDeletePaidRecord     = errors.New("cannot delete paid payroll record")
	ErrPayrollHasPayment          = errors.New("payroll record has a payment, delete the payment first")
	ErrNoEligibleEmployees        = errors.New("no active employees to generate payroll for")
)
