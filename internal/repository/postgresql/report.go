package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
)

type reportRepositoryImpl struct {
	db *database.DB
}

func NewReportRepository(db *database.DB) report.ReportRepository {
	return &reportRepositoryImpl{db: db}
}

// GetPaymentBreakdown groups payments dated within [start, end] by method and status
func (r *reportRepositoryImpl) GetPaymentBreakdown(ctx context.Context, start, end time.Time) ([]report.PaymentBreakdownRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT payment_method, status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		WHERE payment_date BETWEEN $1 AND $2
		GROUP BY payment_method, status
		ORDER BY payment_method, status
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get payment breakdown: %w", err)
	}
	defer rows.Close()

	result := []report.PaymentBreakdownRow{}
	for rows.Next() {
		var row report.PaymentBreakdownRow
		if err := rows.Scan(&row.Method, &row.Status, &row.Count, &row.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan payment breakdown: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payment breakdown: %w", err)
	}

	return result, nil
}
