package payroll

import "context"

// PayrollRepository defines data access methods for payroll records.
type PayrollRepository interface {
	// Create inserts a record. A record for the same employee and period
	// yields ErrPayrollRecordAlreadyExists and leaves the stored one untouched.
	Create(ctx context.Context, record PayrollRecord) (PayrollRecord, error)
	GetByID(ctx context.Context, id string) (PayrollRecord, error)
	// GetByIDForUpdate locks the row for the rest of the surrounding transaction.
	GetByIDForUpdate(ctx context.Context, id string) (PayrollRecord, error)
	GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (PayrollRecord, error)
	List(ctx context.Context, filter PayrollFilter) ([]PayrollRecord, int64, error)
	ListByPeriod(ctx context.Context, month, year int) ([]PayrollRecord, error)
	Update(ctx context.Context, record PayrollRecord) error
	UpdateStatus(ctx context.Context, id string, status PayrollStatus) error
	HasPayment(ctx context.Context, id string) (bool, error)
	Delete(ctx context.Context, id string) error

	// Aggregations
	GetSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
