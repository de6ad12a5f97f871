package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/export"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	reportRepo  report.ReportRepository
	payrollRepo payroll.PayrollRepository
	paymentRepo payment.PaymentRepository
	now         func() time.Time
}

func NewReportService(reportRepo report.ReportRepository, payrollRepo payroll.PayrollRepository, paymentRepo payment.PaymentRepository) report.ReportService {
	return &ReportServiceImpl{
		reportRepo:  reportRepo,
		payrollRepo: payrollRepo,
		paymentRepo: paymentRepo,
		now:         time.Now,
	}
}

// GeneratePayrollReport returns the period summary together with every record of the period
func (s *ReportServiceImpl) GeneratePayrollReport(ctx context.Context, req report.PeriodRequest) (report.PayrollReport, error) {
	if err := req.Validate(); err != nil {
		return report.PayrollReport{}, err
	}
	start, end, err := payroll.PeriodRange(req.Month, req.Year)
	if err != nil {
		return report.PayrollReport{}, err
	}

	summary, err := s.payrollRepo.GetSummary(ctx, req.Month, req.Year)
	if err != nil {
		return report.PayrollReport{}, fmt.Errorf("failed to get payroll summary: %w", err)
	}
	records, err := s.payrollRepo.ListByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return report.PayrollReport{}, fmt.Errorf("failed to get payroll records: %w", err)
	}

	data := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, r.ToResponse())
	}

	return report.PayrollReport{
		PeriodMonth: req.Month,
		PeriodYear:  req.Year,
		PeriodStart: start.Format("2006-01-02"),
		PeriodEnd:   end.Format("2006-01-02"),
		GeneratedAt: s.now().Format(time.RFC3339),
		Summary:     summary,
		Records:     data,
	}, nil
}

// GeneratePaymentReport aggregates payments dated inside the period by status and method
func (s *ReportServiceImpl) GeneratePaymentReport(ctx context.Context, req report.PeriodRequest) (report.PaymentReport, error) {
	if err := req.Validate(); err != nil {
		return report.PaymentReport{}, err
	}
	start, end, err := payroll.PeriodRange(req.Month, req.Year)
	if err != nil {
		return report.PaymentReport{}, err
	}

	rows, err := s.reportRepo.GetPaymentBreakdown(ctx, start, end)
	if err != nil {
		return report.PaymentReport{}, fmt.Errorf("failed to get payment breakdown: %w", err)
	}

	result := report.PaymentReport{
		PeriodMonth:    req.Month,
		PeriodYear:     req.Year,
		PeriodStart:    start.Format("2006-01-02"),
		PeriodEnd:      end.Format("2006-01-02"),
		GeneratedAt:    s.now().Format(time.RFC3339),
		TotalAmount:    decimal.Zero,
		CompletedTotal: decimal.Zero,
		ByMethod:       []report.MethodBreakdown{},
	}

	byMethod := map[string]*report.MethodBreakdown{}
	for _, row := range rows {
		result.TotalPayments += row.Count
		result.TotalAmount = result.TotalAmount.Add(row.Amount)

		switch row.Status {
		case payment.PaymentStatusCompleted:
			result.CompletedCount += row.Count
			result.CompletedTotal = result.CompletedTotal.Add(row.Amount)
		case payment.PaymentStatusPending:
			result.PendingCount += row.Count
		case payment.PaymentStatusFailed:
			result.FailedCount += row.Count
		}

		m, ok := byMethod[string(row.Method)]
		if !ok {
			m = &report.MethodBreakdown{Method: string(row.Method), Amount: decimal.Zero}
			byMethod[string(row.Method)] = m
		}
		m.Count += row.Count
		m.Amount = m.Amount.Add(row.Amount)
	}

	for _, m := range byMethod {
		result.ByMethod = append(result.ByMethod, *m)
	}
	sort.Slice(result.ByMethod, func(i, j int) bool {
		return result.ByMethod[i].Method < result.ByMethod[j].Method
	})

	return result, nil
}

// ExportPayroll renders the period's payroll records as a workbook
func (s *ReportServiceImpl) ExportPayroll(ctx context.Context, req report.PeriodRequest) (report.ExportFile, error) {
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}

	records, err := s.payrollRepo.ListByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to get payroll records: %w", err)
	}

	content, err := export.PayrollWorkbook(req.Month, req.Year, records)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to build payroll workbook: %w", err)
	}

	return report.ExportFile{
		Filename:    fmt.Sprintf("payroll-%04d-%02d.xlsx", req.Year, req.Month),
		ContentType: export.ContentTypeXLSX,
		Content:     content,
	}, nil
}

// ExportPayments renders payments dated inside the period as xlsx or csv
func (s *ReportServiceImpl) ExportPayments(ctx context.Context, req report.PeriodRequest, format report.ExportFormat) (report.ExportFile, error) {
	if format == "" {
		format = report.FormatXLSX
	}
	if !format.IsValid() {
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}
	if err := req.Validate(); err != nil {
		return report.ExportFile{}, err
	}
	start, end, err := payroll.PeriodRange(req.Month, req.Year)
	if err != nil {
		return report.ExportFile{}, err
	}

	payments, err := s.paymentRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to get payments: %w", err)
	}

	file := report.ExportFile{
		Filename: fmt.Sprintf("payments-%04d-%02d.%s", req.Year, req.Month, format),
	}
	switch format {
	case report.FormatCSV:
		file.ContentType = export.ContentTypeCSV
		file.Content, err = export.PaymentsCSV(payments)
	default:
		file.ContentType = export.ContentTypeXLSX
		file.Content, err = export.PaymentsWorkbook(payments)
	}
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to export payments: %w", err)
	}
	return file, nil
}
