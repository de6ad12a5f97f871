package report

import "context"

// ReportService defines the interface for report generation
type ReportService interface {
	GeneratePayrollReport(ctx context.Context, req PeriodRequest) (PayrollReport, error)
	GeneratePaymentReport(ctx context.Context, req PeriodRequest) (PaymentReport, error)

	ExportPayroll(ctx context.Context, req PeriodRequest) (ExportFile, error)
	ExportPayments(ctx context.Context, req PeriodRequest, format ExportFormat) (ExportFile, error)
}
