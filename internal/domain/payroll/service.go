package payroll

import "context"

type PayrollService interface {
	// Calculate previews a breakdown without persisting it.
	Calculate(ctx context.Context, req CalculatePayrollRequest) (BreakdownResponse, error)
	Generate(ctx context.Context, req CalculatePayrollRequest) (PayrollRecordResponse, error)
	GenerateBatch(ctx context.Context, req GenerateBatchRequest) (BatchResult, error)

	GetByID(ctx context.Context, id string) (PayrollRecordResponse, error)
	List(ctx context.Context, filter PayrollFilter) (ListPayrollRecordResponse, error)
	Update(ctx context.Context, req UpdatePayrollRecordRequest) (PayrollRecordResponse, error)
	Approve(ctx context.Context, id string) (PayrollRecordResponse, error)
	Delete(ctx context.Context, id string) error

	GetSummary(ctx context.Context, month, year int) (PayrollSummaryResponse, error)
}
