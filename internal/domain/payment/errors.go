package payment

import "errors"

var (
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrPaymentAlreadyExists     = errors.New("payment already exists for this payroll")
	ErrInvalidPaymentTransition = errors.New("invalid payment status transition")
	ErrPaymentCompleted         = errors.New("completed payment cannot be modified")
	ErrPayrollNotSettleable     = errors.New("payroll must be approved or calculated before settlement")
)
