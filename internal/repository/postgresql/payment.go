package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type paymentRepository struct {
	db *database.DB
}

func NewPaymentRepository(db *database.DB) payment.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentSelect = `
	SELECT p.id, p.payroll_id, p.employee_id, p.amount, p.payment_date, p.payment_method,
		   p.reference_number, p.status, p.notes, p.created_at, p.updated_at,
		   e.first_name || ' ' || e.last_name AS employee_name, e.employee_code, e.email,
		   pr.period_month::int, pr.period_year
	FROM payments p
	JOIN employees e ON p.employee_id = e.id
	LEFT JOIN payroll_records pr ON p.payroll_id = pr.id
`

func scanPayment(row pgx.Row) (payment.Payment, error) {
	var p payment.Payment
	err := row.Scan(
		&p.ID, &p.PayrollID, &p.EmployeeID, &p.Amount, &p.PaymentDate, &p.PaymentMethod,
		&p.ReferenceNumber, &p.Status, &p.Notes, &p.CreatedAt, &p.UpdatedAt,
		&p.EmployeeName, &p.EmployeeCode, &p.EmployeeEmail,
		&p.PeriodMonth, &p.PeriodYear,
	)
	return p, err
}

func (r *paymentRepository) Create(ctx context.Context, newPayment payment.Payment) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payment.Payment{}, fmt.Errorf("failed to generate payment id: %w", err)
	}
	newPayment.ID = id.String()
	if newPayment.Status == "" {
		newPayment.Status = payment.PaymentStatusPending
	}

	query := `
		INSERT INTO payments (
			id, payroll_id, employee_id, amount, payment_date, payment_method,
			reference_number, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		newPayment.ID, newPayment.PayrollID, newPayment.EmployeeID, newPayment.Amount, newPayment.PaymentDate,
		newPayment.PaymentMethod, newPayment.ReferenceNumber, newPayment.Status, newPayment.Notes,
	).Scan(&newPayment.CreatedAt, &newPayment.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_payment_payroll") {
			return payment.Payment{}, payment.ErrPaymentAlreadyExists
		}
		return payment.Payment{}, fmt.Errorf("failed to create payment: %w", err)
	}

	return newPayment, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	p, err := scanPayment(q.QueryRow(ctx, paymentSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return payment.Payment{}, payment.ErrPaymentNotFound
		}
		return payment.Payment{}, fmt.Errorf("failed to get payment: %w", err)
	}

	return p, nil
}

func (r *paymentRepository) ExistsForPayroll(ctx context.Context, payrollID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE payroll_id = $1)`, payrollID).Scan(&exists)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check payment existence: %w", err)
	}

	return exists, nil
}

func (r *paymentRepository) List(ctx context.Context, filter payment.PaymentFilter) ([]payment.Payment, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND p.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.PayrollID != nil {
		where += fmt.Sprintf(" AND p.payroll_id = $%d", argIdx)
		args = append(args, *filter.PayrollID)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND p.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.PaymentMethod != nil {
		where += fmt.Sprintf(" AND p.payment_method = $%d", argIdx)
		args = append(args, *filter.PaymentMethod)
		argIdx++
	}
	if filter.Month != nil {
		where += fmt.Sprintf(" AND EXTRACT(MONTH FROM p.payment_date) = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		where += fmt.Sprintf(" AND EXTRACT(YEAR FROM p.payment_date) = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}

	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM payments p` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`%s%s ORDER BY p.payment_date DESC, p.created_at DESC LIMIT $%d OFFSET $%d`,
		paymentSelect, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []payment.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, totalCount, nil
}

func (r *paymentRepository) ListByDateRange(ctx context.Context, start, end time.Time) ([]payment.Payment, error) {
	q := GetQuerier(ctx, r.db)

	query := paymentSelect + `
		WHERE p.payment_date BETWEEN $1 AND $2
		ORDER BY p.payment_date, e.employee_code
	`

	rows, err := q.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments by date range: %w", err)
	}
	defer rows.Close()

	payments := []payment.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}

	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, p payment.Payment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payments SET
			amount = $2, payment_date = $3, payment_method = $4, reference_number = $5,
			status = $6, notes = $7, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		p.ID, p.Amount, p.PaymentDate, p.PaymentMethod, p.ReferenceNumber, p.Status, p.Notes,
	)
	if err != nil {
		if isNotFound(err) {
			return payment.ErrPaymentNotFound
		}
		return fmt.Errorf("failed to update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrPaymentNotFound
	}

	return nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status payment.PaymentStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payments SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		if isNotFound(err) {
			return payment.ErrPaymentNotFound
		}
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrPaymentNotFound
	}

	return nil
}

func (r *paymentRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx, `DELETE FROM payments WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
	if err != nil {
		if isNotFound(err) {
			return payment.ErrPaymentNotFound
		}
		return fmt.Errorf("failed to delete payment: %w", err)
	}

	return nil
}
