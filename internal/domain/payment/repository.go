package payment

import (
	"context"
	"time"
)

type PaymentRepository interface {
	// Create inserts a payment. A second payment for the same payroll yields
	// ErrPaymentAlreadyExists.
	Create(ctx context.Context, payment Payment) (Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	ExistsForPayroll(ctx context.Context, payrollID string) (bool, error)
	List(ctx context.Context, filter PaymentFilter) ([]Payment, int64, error)
	// ListByDateRange returns payments with start <= payment_date <= end.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]Payment, error)
	Update(ctx context.Context, payment Payment) error
	UpdateStatus(ctx context.Context, id string, status PaymentStatus) error
	Delete(ctx context.Context, id string) error
}
