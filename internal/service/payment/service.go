package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

// BulkReferencePrefix prefixes the reference number of every payment created by a settlement batch.
const BulkReferencePrefix = "BULK-"

type PaymentServiceImpl struct {
	transactor   database.Transactor
	paymentRepo  payment.PaymentRepository
	payrollRepo  payroll.PayrollRepository
	summaryCache cache.Cache
	notifier     notification.Notifier
}

func NewPaymentService(
	transactor database.Transactor,
	paymentRepo payment.PaymentRepository,
	payrollRepo payroll.PayrollRepository,
	summaryCache cache.Cache,
	notifier notification.Notifier,
) payment.PaymentService {
	if summaryCache == nil {
		summaryCache = cache.NoopCache{}
	}
	return &PaymentServiceImpl{
		transactor:   transactor,
		paymentRepo:  paymentRepo,
		payrollRepo:  payrollRepo,
		summaryCache: summaryCache,
		notifier:     notifier,
	}
}

// Create implements payment.PaymentService.
func (s *PaymentServiceImpl) Create(ctx context.Context, req payment.CreatePaymentRequest) (payment.PaymentResultResponse, error) {
	if err := req.Validate(); err != nil {
		return payment.PaymentResultResponse{}, err
	}

	var (
		created payment.Payment
		record  payroll.PayrollRecord
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		record, err = s.payrollRepo.GetByID(txCtx, req.PayrollID)
		if err != nil {
			return err
		}

		exists, err := s.paymentRepo.ExistsForPayroll(txCtx, record.ID)
		if err != nil {
			return err
		}
		if exists {
			return payment.ErrPaymentAlreadyExists
		}

		created, err = s.paymentRepo.Create(txCtx, payment.Payment{
			PayrollID:       record.ID,
			EmployeeID:      record.EmployeeID,
			Amount:          req.Amount.Round(2),
			PaymentDate:     req.Date(),
			PaymentMethod:   payment.PaymentMethod(req.PaymentMethod),
			ReferenceNumber: req.ReferenceNumber,
			Status:          payment.PaymentStatusPending,
			Notes:           req.Notes,
		})
		return err
	})
	if err != nil {
		return payment.PaymentResultResponse{}, err
	}

	withPayroll(&created, record)
	return payment.PaymentResultResponse{
		Payment:  toPaymentResponse(created),
		Warnings: amountWarnings(ctx, created, record),
	}, nil
}

// amountWarnings flags a payment whose amount differs from its payroll total.
func amountWarnings(ctx context.Context, p payment.Payment, record payroll.PayrollRecord) []string {
	if p.Amount.Equal(record.TotalSalary) {
		return nil
	}

	slog.WarnContext(ctx, "payment amount mismatch",
		"payment_id", p.ID, "payroll_id", record.ID,
		"amount", p.Amount.String(), "total_salary", record.TotalSalary.String())
	return []string{fmt.Sprintf("payment amount %s differs from payroll total %s", p.Amount.StringFixed(2), record.TotalSalary.StringFixed(2))}
}

// SettleBatch implements payment.PaymentService. Each payroll is locked,
// paid and flipped to paid inside its own transaction.
func (s *PaymentServiceImpl) SettleBatch(ctx context.Context, req payment.SettleBatchRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}

	result := payroll.NewBatchResult(uuid.NewString(), len(req.PayrollIDs))
	reference := BulkReferencePrefix + result.BatchID
	method := payment.PaymentMethod(req.PaymentMethod)

	seen := make(map[string]struct{}, len(req.PayrollIDs))
	periods := make(map[[2]int]struct{})
	var notices []notification.PaymentNotice

	for _, id := range req.PayrollIDs {
		if _, dup := seen[id]; dup {
			result.Warn(id, "duplicate payroll id in request, skipped")
			continue
		}
		seen[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			result.Fail(id, fmt.Sprintf("not attempted: %v", err))
			continue
		}

		var (
			record  payroll.PayrollRecord
			created payment.Payment
		)
		err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
			var err error
			record, err = s.payrollRepo.GetByIDForUpdate(txCtx, id)
			if err != nil {
				return err
			}

			exists, err := s.paymentRepo.ExistsForPayroll(txCtx, id)
			if err != nil {
				return err
			}
			if exists {
				return payment.ErrPaymentAlreadyExists
			}
			if !record.Status.IsSettleable() {
				return fmt.Errorf("%w: status is %s", payment.ErrPayrollNotSettleable, record.Status)
			}

			created, err = s.paymentRepo.Create(txCtx, payment.Payment{
				PayrollID:       record.ID,
				EmployeeID:      record.EmployeeID,
				Amount:          record.TotalSalary,
				PaymentDate:     req.Date(),
				PaymentMethod:   method,
				ReferenceNumber: &reference,
				Status:          payment.PaymentStatusCompleted,
				Notes:           req.Notes,
			})
			if err != nil {
				return err
			}

			return s.payrollRepo.UpdateStatus(txCtx, record.ID, payroll.PayrollStatusPaid)
		})

		switch {
		case err == nil:
			result.Success(id, created.ID, "payment completed")
			periods[[2]int{record.PeriodMonth, record.PeriodYear}] = struct{}{}
			withPayroll(&created, record)
			if notice, ok := noticeFor(created); ok {
				notices = append(notices, notice)
			}
		case errors.Is(err, payment.ErrPaymentAlreadyExists):
			result.Warn(id, err.Error())
		default:
			slog.WarnContext(ctx, "batch settlement failed",
				"batch_id", result.BatchID, "payroll_id", id, "error", err)
			result.Fail(id, err.Error())
		}
	}

	for period := range periods {
		key := payroll.SummaryCacheKey(period[0], period[1])
		if err := s.summaryCache.Delete(ctx, key); err != nil {
			slog.WarnContext(ctx, "payroll summary cache eviction failed", "key", key, "error", err)
		}
	}

	slog.InfoContext(ctx, "settlement batch finished",
		"batch_id", result.BatchID, "reference", reference,
		"success", result.SuccessCount, "warnings", result.WarningCount, "errors", result.ErrorCount)

	if s.notifier != nil {
		s.notifier.Publish(ctx, notification.Event{
			Type:    notification.EventPaymentSettled,
			Title:   "Payments settled",
			Message: fmt.Sprintf("%d settled, %d skipped, %d failed", result.SuccessCount, result.WarningCount, result.ErrorCount),
			Data:    result,
		})
		for _, notice := range notices {
			s.notifier.NotifyPaymentCompleted(ctx, notice)
		}
	}

	return *result, nil
}

// GetByID implements payment.PaymentService.
func (s *PaymentServiceImpl) GetByID(ctx context.Context, id string) (payment.PaymentResponse, error) {
	p, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return payment.PaymentResponse{}, err
	}
	return toPaymentResponse(p), nil
}

// List implements payment.PaymentService.
func (s *PaymentServiceImpl) List(ctx context.Context, filter payment.PaymentFilter) (payment.ListPaymentResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	payments, total, err := s.paymentRepo.List(ctx, filter)
	if err != nil {
		return payment.ListPaymentResponse{}, err
	}

	data := make([]payment.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		data = append(data, toPaymentResponse(p))
	}

	return payment.ListPaymentResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update implements payment.PaymentService. A changed amount is checked
// against the payroll total the same way Create does.
func (s *PaymentServiceImpl) Update(ctx context.Context, req payment.UpdatePaymentRequest) (payment.PaymentResultResponse, error) {
	if err := req.Validate(); err != nil {
		return payment.PaymentResultResponse{}, err
	}

	var (
		updated payment.Payment
		record  *payroll.PayrollRecord
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.paymentRepo.GetByID(txCtx, req.ID)
		if err != nil {
			return err
		}
		updated, err = req.Apply(current)
		if err != nil {
			return err
		}
		if req.Amount != nil {
			rec, err := s.payrollRepo.GetByID(txCtx, updated.PayrollID)
			if err != nil {
				return err
			}
			record = &rec
		}
		return s.paymentRepo.Update(txCtx, updated)
	})
	if err != nil {
		return payment.PaymentResultResponse{}, err
	}

	resp := payment.PaymentResultResponse{Payment: toPaymentResponse(updated)}
	if record != nil {
		resp.Warnings = amountWarnings(ctx, updated, *record)
	}
	return resp, nil
}

// MarkCompleted implements payment.PaymentService.
func (s *PaymentServiceImpl) MarkCompleted(ctx context.Context, id string) (payment.PaymentResponse, error) {
	p, changed, err := s.transition(ctx, id, payment.PaymentStatusCompleted)
	if err != nil {
		return payment.PaymentResponse{}, err
	}

	if changed && s.notifier != nil {
		if notice, ok := noticeFor(p); ok {
			s.notifier.NotifyPaymentCompleted(ctx, notice)
		}
		s.notifier.Publish(ctx, notification.Event{
			Type:    notification.EventPaymentCompleted,
			Title:   "Payment completed",
			Message: fmt.Sprintf("payment %s completed", p.ID),
			Data:    map[string]string{"payment_id": p.ID, "payroll_id": p.PayrollID},
		})
	}

	return toPaymentResponse(p), nil
}

// MarkFailed implements payment.PaymentService.
func (s *PaymentServiceImpl) MarkFailed(ctx context.Context, id string) (payment.PaymentResponse, error) {
	p, _, err := s.transition(ctx, id, payment.PaymentStatusFailed)
	if err != nil {
		return payment.PaymentResponse{}, err
	}
	return toPaymentResponse(p), nil
}

// transition moves a payment to next and reports whether the status changed.
func (s *PaymentServiceImpl) transition(ctx context.Context, id string, next payment.PaymentStatus) (payment.Payment, bool, error) {
	var (
		p       payment.Payment
		changed bool
	)
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		p, err = s.paymentRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !p.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", payment.ErrInvalidPaymentTransition, p.Status, next)
		}
		if p.Status == next {
			return nil
		}

		if err := s.paymentRepo.UpdateStatus(txCtx, id, next); err != nil {
			return err
		}
		p.Status = next
		changed = true
		return nil
	})
	if err != nil {
		return payment.Payment{}, false, err
	}

	if changed {
		slog.InfoContext(ctx, "payment status changed", "payment_id", id, "status", next)
	}
	return p, changed, nil
}

// Delete implements payment.PaymentService.
func (s *PaymentServiceImpl) Delete(ctx context.Context, id string) error {
	return s.paymentRepo.Delete(ctx, id)
}

func withPayroll(p *payment.Payment, record payroll.PayrollRecord) {
	p.EmployeeName = record.EmployeeName
	p.EmployeeCode = record.EmployeeCode
	p.EmployeeEmail = record.EmployeeEmail
	month, year := record.PeriodMonth, record.PeriodYear
	p.PeriodMonth = &month
	p.PeriodYear = &year
}

// noticeFor builds the e-mail notice for p. Payments without a known
// employee address yield no notice.
func noticeFor(p payment.Payment) (notification.PaymentNotice, bool) {
	if p.EmployeeEmail == nil || *p.EmployeeEmail == "" {
		return notification.PaymentNotice{}, false
	}

	notice := notification.PaymentNotice{
		Email:           *p.EmployeeEmail,
		Amount:          p.Amount,
		PaymentMethod:   string(p.PaymentMethod),
		PaymentDate:     p.PaymentDate,
		ReferenceNumber: p.ReferenceNumber,
	}
	if p.EmployeeName != nil {
		notice.EmployeeName = *p.EmployeeName
	}
	if p.PeriodMonth != nil {
		notice.PeriodMonth = *p.PeriodMonth
	}
	if p.PeriodYear != nil {
		notice.PeriodYear = *p.PeriodYear
	}
	return notice, true
}

func toPaymentResponse(p payment.Payment) payment.PaymentResponse {
	return payment.PaymentResponse{
		ID:              p.ID,
		PayrollID:       p.PayrollID,
		EmployeeID:      p.EmployeeID,
		EmployeeName:    p.EmployeeName,
		EmployeeCode:    p.EmployeeCode,
		PeriodMonth:     p.PeriodMonth,
		PeriodYear:      p.PeriodYear,
		Amount:          p.Amount,
		PaymentDate:     p.PaymentDate.Format("2006-01-02"),
		PaymentMethod:   string(p.PaymentMethod),
		ReferenceNumber: p.ReferenceNumber,
		Status:          string(p.Status),
		Notes:           p.Notes,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}
