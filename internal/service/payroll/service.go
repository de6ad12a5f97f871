package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type PayrollServiceImpl struct {
	transactor     database.Transactor
	payrollRepo    payroll.PayrollRepository
	employeeRepo   employee.EmployeeRepository
	attendanceRepo attendance.AttendanceRepository
	summaryCache   cache.Cache
	cacheTTL       time.Duration
	publisher      notification.Publisher
}

func NewPayrollService(
	transactor database.Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	summaryCache cache.Cache,
	cacheTTL time.Duration,
	publisher notification.Publisher,
) payroll.PayrollService {
	if summaryCache == nil {
		summaryCache = cache.NoopCache{}
	}
	return &PayrollServiceImpl{
		transactor:     transactor,
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		summaryCache:   summaryCache,
		cacheTTL:       cacheTTL,
		publisher:      publisher,
	}
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) breakdown(ctx context.Context, emp employee.Employee, month, year int) (payroll.Breakdown, error) {
	start, end, err := payroll.PeriodRange(month, year)
	if err != nil {
		return payroll.Breakdown{}, err
	}

	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, emp.ID, start, end)
	if err != nil {
		return payroll.Breakdown{}, fmt.Errorf("failed to load attendance: %w", err)
	}

	return payroll.Calculate(emp, records, month, year)
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.BreakdownResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BreakdownResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}

	b, err := s.breakdown(ctx, emp, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.BreakdownResponse{}, err
	}

	return payroll.BreakdownResponse{
		EmployeeID:    b.EmployeeID,
		EmployeeName:  emp.FullName(),
		PeriodMonth:   b.PeriodMonth,
		PeriodYear:    b.PeriodYear,
		PeriodStart:   b.PeriodStart.Format("2006-01-02"),
		PeriodEnd:     b.PeriodEnd.Format("2006-01-02"),
		WorkingDays:   b.WorkingDays,
		AbsentDays:    b.AbsentDays,
		TotalHours:    b.TotalHours,
		OvertimeHours: b.OvertimeHours,
		DailySalary:   b.DailySalary,
		BasicSalary:   b.BasicSalary,
		Allowance:     b.Allowance,
		OvertimePay:   b.OvertimePay,
		Bonus:         b.Bonus,
		Deductions:    b.Deductions,
		TotalSalary:   b.TotalSalary,
	}, nil
}

// generateOne computes and stores the record for one employee in its own transaction.
func (s *PayrollServiceImpl) generateOne(ctx context.Context, employeeID string, month, year int) (payroll.PayrollRecord, error) {
	var created payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, employeeID)
		if err != nil {
			return err
		}
		if !emp.IsActive {
			return employee.ErrEmployeeInactive
		}

		b, err := s.breakdown(txCtx, emp, month, year)
		if err != nil {
			return err
		}

		created, err = s.payrollRepo.Create(txCtx, b.ToRecord())
		if err != nil {
			return err
		}

		name := emp.FullName()
		created.EmployeeName = &name
		created.EmployeeCode = &emp.EmployeeCode
		created.EmployeeEmail = &emp.Email
		return nil
	})
	return created, err
}

// Generate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Generate(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	record, err := s.generateOne(ctx, req.EmployeeID, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	s.evictSummary(ctx, req.PeriodMonth, req.PeriodYear)
	slog.InfoContext(ctx, "payroll generated",
		"record_id", record.ID, "employee_id", record.EmployeeID,
		"period_month", record.PeriodMonth, "period_year", record.PeriodYear)

	return record.ToResponse(), nil
}

// GenerateBatch implements payroll.PayrollService. Every employee is
// processed in its own transaction so one failure never undoes another.
func (s *PayrollServiceImpl) GenerateBatch(ctx context.Context, req payroll.GenerateBatchRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}

	employeeIDs := req.EmployeeIDs
	if len(employeeIDs) == 0 {
		ids, err := s.employeeRepo.ListActiveIDs(ctx)
		if err != nil {
			return payroll.BatchResult{}, fmt.Errorf("failed to list active employees: %w", err)
		}
		if len(ids) == 0 {
			return payroll.BatchResult{}, payroll.ErrNoEligibleEmployees
		}
		employeeIDs = ids
	}

	result := payroll.NewBatchResult(uuid.NewString(), len(employeeIDs))
	seen := make(map[string]struct{}, len(employeeIDs))

	for _, id := range employeeIDs {
		if _, dup := seen[id]; dup {
			result.Warn(id, "duplicate employee id in request, skipped")
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			result.Fail(id, fmt.Sprintf("not attempted: %v", err))
			continue
		}

		record, err := s.generateOne(ctx, id, req.PeriodMonth, req.PeriodYear)
		switch {
		case err == nil:
			result.Success(id, record.ID, "payroll generated")
		case errors.Is(err, payroll.ErrPayrollRecordAlreadyExists):
			result.Warn(id, err.Error())
		default:
			slog.WarnContext(ctx, "batch payroll generation failed",
				"batch_id", result.BatchID, "employee_id", id, "error", err)
			result.Fail(id, err.Error())
		}
	}

	if result.SuccessCount > 0 {
		s.evictSummary(ctx, req.PeriodMonth, req.PeriodYear)
	}

	slog.InfoContext(ctx, "payroll batch finished",
		"batch_id", result.BatchID,
		"period_month", req.PeriodMonth, "period_year", req.PeriodYear,
		"success", result.SuccessCount, "warnings", result.WarningCount, "errors", result.ErrorCount)

	if s.publisher != nil {
		s.publisher.Publish(ctx, notification.Event{
			Type:    notification.EventPayrollGenerated,
			Title:   "Payroll generated",
			Message: fmt.Sprintf("%02d/%d: %d generated, %d skipped, %d failed", req.PeriodMonth, req.PeriodYear, result.SuccessCount, result.WarningCount, result.ErrorCount),
			Data:    result,
		})
	}

	return *result, nil
}

// ========== QUERIES ==========

// GetByID implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetByID(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	record, err := s.payrollRepo.GetByID(ctx, id)
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}
	return record.ToResponse(), nil
}

// List implements payroll.PayrollService.
func (s *PayrollServiceImpl) List(ctx context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	records, total, err := s.payrollRepo.List(ctx, filter)
	if err != nil {
		return payroll.ListPayrollRecordResponse{}, err
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, r.ToResponse())
	}

	return payroll.ListPayrollRecordResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// GetSummary implements payroll.PayrollService. Summaries are cached per period.
func (s *PayrollServiceImpl) GetSummary(ctx context.Context, month, year int) (payroll.PayrollSummaryResponse, error) {
	if _, _, err := payroll.PeriodRange(month, year); err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	key := payroll.SummaryCacheKey(month, year)
	var summary payroll.PayrollSummaryResponse
	if hit, err := s.summaryCache.Get(ctx, key, &summary); err != nil {
		slog.WarnContext(ctx, "payroll summary cache read failed", "key", key, "error", err)
	} else if hit {
		return summary, nil
	}

	summary, err := s.payrollRepo.GetSummary(ctx, month, year)
	if err != nil {
		return payroll.PayrollSummaryResponse{}, err
	}

	if err := s.summaryCache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		slog.WarnContext(ctx, "payroll summary cache write failed", "key", key, "error", err)
	}
	return summary, nil
}

// ========== LIFECYCLE ==========

// Update implements payroll.PayrollService.
func (s *PayrollServiceImpl) Update(ctx context.Context, req payroll.UpdatePayrollRecordRequest) (payroll.PayrollRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	var updated payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		record, err := s.payrollRepo.GetByIDForUpdate(txCtx, req.ID)
		if err != nil {
			return err
		}

		updated, err = req.Apply(record)
		if err != nil {
			return err
		}
		return s.payrollRepo.Update(txCtx, updated)
	})
	if err != nil {
		return payroll.PayrollRecordResponse{}, err
	}

	s.evictSummary(ctx, updated.PeriodMonth, updated.PeriodYear)
	return updated.ToResponse(), nil
}

// Approve implements payroll.PayrollService.
func (s *PayrollServiceImpl) Approve(ctx context.Context, id string) (payroll.PayrollRecordResponse, error) {
	status := string(payroll.PayrollStatusApproved)
	return s.Update(ctx, payroll.UpdatePayrollRecordRequest{ID: id, Status: &status})
}

// Delete implements payroll.PayrollService.
func (s *PayrollServiceImpl) Delete(ctx context.Context, id string) error {
	var record payroll.PayrollRecord
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		record, err = s.payrollRepo.GetByIDForUpdate(txCtx, id)
		if err != nil {
			return err
		}
		if record.Status == payroll.PayrollStatusPaid {
			return payroll.ErrCannotDeletePaidRecord
		}

		hasPayment, err := s.payrollRepo.HasPayment(txCtx, id)
		if err != nil {
			return err
		}
		if hasPayment {
			return payroll.ErrPayrollHasPayment
		}

		return s.payrollRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.evictSummary(ctx, record.PeriodMonth, record.PeriodYear)
	return nil
}

func (s *PayrollServiceImpl) evictSummary(ctx context.Context, month, year int) {
	key := payroll.SummaryCacheKey(month, year)
	if err := s.summaryCache.Delete(ctx, key); err != nil {
		slog.WarnContext(ctx, "payroll summary cache eviction failed", "key", key, "error", err)
	}
}
