package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/handler/http/response"
)

type ReportHandler interface {
	GetPayrollReport(w http.ResponseWriter, r *http.Request)
	GetPaymentReport(w http.ResponseWriter, r *http.Request)
	ExportPayroll(w http.ResponseWriter, r *http.Request)
	ExportPayments(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

func periodFromQuery(r *http.Request) report.PeriodRequest {
	return report.PeriodRequest{
		Month: getIntQueryParam(r, "month", 0),
		Year:  getIntQueryParam(r, "year", 0),
	}
}

// GetPayrollReport handles GET /reports/payroll
func (h *reportHandlerImpl) GetPayrollReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GeneratePayrollReport(r.Context(), periodFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetPaymentReport handles GET /reports/payments
func (h *reportHandlerImpl) GetPaymentReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GeneratePaymentReport(r.Context(), periodFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportPayroll handles GET /reports/payroll/export
func (h *reportHandlerImpl) ExportPayroll(w http.ResponseWriter, r *http.Request) {
	file, err := h.reportService.ExportPayroll(r.Context(), periodFromQuery(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, file)
}

// ExportPayments handles GET /reports/payments/export?format=xlsx|csv
func (h *reportHandlerImpl) ExportPayments(w http.ResponseWriter, r *http.Request) {
	format := report.ExportFormat(r.URL.Query().Get("format"))

	file, err := h.reportService.ExportPayments(r.Context(), periodFromQuery(r), format)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, file)
}

func writeFile(w http.ResponseWriter, file report.ExportFile) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(file.Content)
}
