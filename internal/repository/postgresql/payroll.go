package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

const payrollSelect = `
	SELECT pr.id, pr.employee_id, pr.period_month, pr.period_year,
		   pr.basic_salary, pr.allowance, pr.overtime_pay, pr.bonus, pr.deductions, pr.total_salary,
		   pr.working_days, pr.absent_days, pr.total_hours, pr.overtime_hours,
		   pr.status, pr.notes, pr.created_at, pr.updated_at,
		   e.first_name || ' ' || e.last_name AS employee_name, e.employee_code, e.email
	FROM payroll_records pr
	JOIN employees e ON pr.employee_id = e.id
`

func scanPayrollRecord(row pgx.Row) (payroll.PayrollRecord, error) {
	var rec payroll.PayrollRecord
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.PeriodMonth, &rec.PeriodYear,
		&rec.BasicSalary, &rec.Allowance, &rec.OvertimePay, &rec.Bonus, &rec.Deductions, &rec.TotalSalary,
		&rec.WorkingDays, &rec.AbsentDays, &rec.TotalHours, &rec.OvertimeHours,
		&rec.Status, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.EmployeeName, &rec.EmployeeCode, &rec.EmployeeEmail,
	)
	return rec, err
}

func (r *payrollRepository) Create(ctx context.Context, record payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to generate payroll record id: %w", err)
	}
	record.ID = id.String()
	if record.Status == "" {
		record.Status = payroll.PayrollStatusPending
	}

	query := `
		INSERT INTO payroll_records (
			id, employee_id, period_month, period_year,
			basic_salary, allowance, overtime_pay, bonus, deductions, total_salary,
			working_days, absent_days, total_hours, overtime_hours, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at
	`

	err = q.QueryRow(ctx, query,
		record.ID, record.EmployeeID, record.PeriodMonth, record.PeriodYear,
		record.BasicSalary, record.Allowance, record.OvertimePay, record.Bonus, record.Deductions, record.TotalSalary,
		record.WorkingDays, record.AbsentDays, record.TotalHours, record.OvertimeHours, record.Status, record.Notes,
	).Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_employee_period") {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordAlreadyExists
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return record, nil
}

func (r *payrollRepository) GetByID(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, payrollSelect+` WHERE pr.id = $1`, id))
	if err != nil {
		if isNotFound(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	rec, err := scanPayrollRecord(q.QueryRow(ctx, payrollSelect+` WHERE pr.id = $1 FOR UPDATE OF pr`, id))
	if err != nil {
		if isNotFound(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to lock payroll record: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := payrollSelect + ` WHERE pr.employee_id = $1 AND pr.period_month = $2 AND pr.period_year = $3`

	rec, err := scanPayrollRecord(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if isNotFound(err) {
			return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
		}
		return payroll.PayrollRecord{}, fmt.Errorf("failed to get payroll record by employee period: %w", err)
	}

	return rec, nil
}

func (r *payrollRepository) List(ctx context.Context, filter payroll.PayrollFilter) ([]payroll.PayrollRecord, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := ` WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.PeriodMonth != nil {
		where += fmt.Sprintf(" AND pr.period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		where += fmt.Sprintf(" AND pr.period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND pr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.EmployeeID != nil {
		where += fmt.Sprintf(" AND pr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := `SELECT COUNT(*) FROM payroll_records pr` + where
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll records: %w", err)
	}

	// Sort
	sortColumn := "pr.created_at"
	if filter.SortBy != "" {
		allowedColumns := map[string]string{
			"created_at":    "pr.created_at",
			"period":        "pr.period_year, pr.period_month",
			"employee_name": "e.first_name, e.last_name",
			"total_salary":  "pr.total_salary",
			"status":        "pr.status",
		}
		if col, ok := allowedColumns[filter.SortBy]; ok {
			sortColumn = col
		}
	}
	sortOrder := "DESC"
	if filter.SortOrder == "asc" {
		sortOrder = "ASC"
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`%s%s ORDER BY %s, pr.id LIMIT $%d OFFSET $%d`,
		payrollSelect, where, orderBy(sortColumn, sortOrder), argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll records: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, totalCount, nil
}

func (r *payrollRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := payrollSelect + `
		WHERE pr.period_month = $1 AND pr.period_year = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll records by period: %w", err)
	}
	defer rows.Close()

	records := []payroll.PayrollRecord{}
	for rows.Next() {
		rec, err := scanPayrollRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, nil
}

func (r *payrollRepository) Update(ctx context.Context, record payroll.PayrollRecord) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_records SET
			basic_salary = $2, allowance = $3, overtime_pay = $4, bonus = $5, deductions = $6,
			total_salary = $7, working_days = $8, absent_days = $9, total_hours = $10,
			overtime_hours = $11, status = $12, notes = $13, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		record.ID, record.BasicSalary, record.Allowance, record.OvertimePay, record.Bonus, record.Deductions,
		record.TotalSalary, record.WorkingDays, record.AbsentDays, record.TotalHours,
		record.OvertimeHours, record.Status, record.Notes,
	)
	if err != nil {
		if isNotFound(err) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to update payroll record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}

func (r *payrollRepository) UpdateStatus(ctx context.Context, id string, status payroll.PayrollStatus) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE payroll_records SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		if isNotFound(err) {
			return payroll.ErrPayrollRecordNotFound
		}
		return fmt.Errorf("failed to update payroll status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollRecordNotFound
	}

	return nil
}

func (r *payrollRepository) HasPayment(ctx context.Context, id string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payments WHERE payroll_id = $1)`, id).Scan(&exists)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check payroll payment: %w", err)
	}

	return exists, nil
}

func (r *payrollRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	var deletedID string
	err := q.QueryRow(ctx, `DELETE FROM payroll_records WHERE id = $1 RETURNING id`, id).Scan(&deletedID)
	if err != nil {
		if isNotFound(err) {
			return payroll.ErrPayrollRecordNotFound
		}
		if isForeignKeyViolation(err) {
			return payroll.ErrPayrollHasPayment
		}
		return fmt.Errorf("failed to delete payroll record: %w", err)
	}

	return nil
}

// ========== AGGREGATIONS ==========

func (r *payrollRepository) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) AS total_records,
			COALESCE(SUM(basic_salary), 0) AS total_basic_salary,
			COALESCE(SUM(allowance), 0) AS total_allowance,
			COALESCE(SUM(overtime_pay), 0) AS total_overtime_pay,
			COALESCE(SUM(bonus), 0) AS total_bonus,
			COALESCE(SUM(deductions), 0) AS total_deductions,
			COALESCE(SUM(total_salary), 0) AS total_salary,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_count,
			COUNT(*) FILTER (WHERE status IN ('approved', 'calculated')) AS approved_count,
			COUNT(*) FILTER (WHERE status = 'paid') AS paid_count
		FROM payroll_records
		WHERE period_month = $1 AND period_year = $2
	`

	var summary payroll.PayrollSummaryResponse
	err := q.QueryRow(ctx, query, month, year).Scan(
		&summary.TotalRecords, &summary.TotalBasic, &summary.TotalAllowance,
		&summary.TotalOvertime, &summary.TotalBonus, &summary.TotalDeductions,
		&summary.TotalSalary, &summary.PendingCount, &summary.ApprovedCount, &summary.PaidCount,
	)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}

	summary.PeriodMonth = month
	summary.PeriodYear = year

	return summary, nil
}
