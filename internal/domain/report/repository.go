package report

import (
	"context"
	"time"
)

// ReportRepository defines the interface for report data access
type ReportRepository interface {
	// Payment breakdown by method and status for payment dates in [start, end]
	GetPaymentBreakdown(ctx context.Context, start, end time.Time) ([]PaymentBreakdownRow, error)
}
