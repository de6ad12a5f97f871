package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePayrollService struct {
	payroll.PayrollService
	batches []payroll.GenerateBatchRequest
}

func (s *fakePayrollService) GenerateBatch(_ context.Context, req payroll.GenerateBatchRequest) (payroll.BatchResult, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchResult{}, err
	}
	s.batches = append(s.batches, req)
	result := payroll.NewBatchResult("batch-1", 1)
	result.Success("emp-1", "rec-1", "generated")
	return *result, nil
}

func (s *fakePayrollService) GetByID(_ context.Context, id string) (payroll.PayrollRecordResponse, error) {
	return payroll.PayrollRecordResponse{}, payroll.ErrPayrollRecordNotFound
}

func (s *fakePayrollService) List(_ context.Context, filter payroll.PayrollFilter) (payroll.ListPayrollRecordResponse, error) {
	return payroll.ListPayrollRecordResponse{
		Data:       []payroll.PayrollRecordResponse{{ID: "rec-1", Status: "pending"}},
		TotalCount: 45,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

type fakeReportService struct {
	report.ReportService
}

func (fakeReportService) ExportPayments(_ context.Context, req report.PeriodRequest, format report.ExportFormat) (report.ExportFile, error) {
	if format != report.FormatCSV {
		return report.ExportFile{}, report.ErrUnsupportedFormat
	}
	return report.ExportFile{Filename: "payments-2024-02.csv", ContentType: "text/csv", Content: []byte("employee_code\nEMP001\n")}, nil
}

func newTestRouter(t *testing.T) (http.Handler, jwt.Service, *fakePayrollService) {
	t.Helper()

	jwtService, err := jwt.NewJWTService("router-test-secret", "1h")
	require.NoError(t, err)

	payrollSvc := &fakePayrollService{}
	cfg := &config.Config{App: config.AppConfig{Env: "test"}}
	router := NewRouter(cfg, jwtService, Handlers{
		Auth:       NewAuthHandler(nil),
		Employee:   NewEmployeeHandler(nil),
		Attendance: NewAttendanceHandler(nil),
		Payroll:    NewPayrollHandler(payrollSvc),
		Payment:    NewPaymentHandler(nil),
		Report:     NewReportHandler(fakeReportService{}),
		Event:      NewEventHandler(nil),
	})
	return router, jwtService, payrollSvc
}

func bearer(t *testing.T, svc jwt.Service, role user.Role) string {
	t.Helper()
	token, _, err := svc.GenerateAccessToken("user-1", "tester", role)
	require.NoError(t, err)
	return "Bearer " + token
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Response {
	t.Helper()
	var body response.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestRouter_Health(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeEnvelope(t, rec).Success)
}

func TestRouter_RequiresToken(t *testing.T) {
	router, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payroll/abc", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ManagerCannotGenerate(t *testing.T) {
	router, jwtService, payrollSvc := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate/batch", strings.NewReader(`{"period_month":1,"period_year":2025}`))
	req.Header.Set("Authorization", bearer(t, jwtService, user.RoleManager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, payrollSvc.batches)
}

func TestRouter_GenerateBatch(t *testing.T) {
	router, jwtService, payrollSvc := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate/batch", strings.NewReader(`{"period_month":1,"period_year":2025}`))
	req.Header.Set("Authorization", bearer(t, jwtService, user.RoleHR))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, payrollSvc.batches, 1)

	body := decodeEnvelope(t, rec)
	data := body.Data.(map[string]interface{})
	assert.Equal(t, float64(1), data["success_count"])
}

func TestRouter_ErrorMapping(t *testing.T) {
	router, jwtService, _ := newTestRouter(t)
	token := bearer(t, jwtService, user.RoleAdmin)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate/batch", strings.NewReader(`{"period_month":13,"period_year":2025}`))
	req.Header.Set("Authorization", token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Details, "period_month")

	req = httptest.NewRequest(http.MethodGet, "/api/v1/payroll/missing", nil)
	req.Header.Set("Authorization", token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ExportWithQueryToken(t *testing.T) {
	router, jwtService, _ := newTestRouter(t)
	token := strings.TrimPrefix(bearer(t, jwtService, user.RoleManager), "Bearer ")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/payments/export?month=2&year=2024&format=csv&jwt="+token, nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "payments-2024-02.csv")
	assert.Contains(t, rec.Body.String(), "EMP001")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/payments/export?month=2&year=2024&format=pdf&jwt="+token, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_QueryTokenRejectedOutsideDownloads(t *testing.T) {
	router, jwtService, payrollSvc := newTestRouter(t)
	token := strings.TrimPrefix(bearer(t, jwtService, user.RoleHR), "Bearer ")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate/batch?jwt="+token, strings.NewReader(`{"period_month":3,"period_year":2024}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, payrollSvc.batches)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/payroll/missing?jwt="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ListPayrollRecordsMeta(t *testing.T) {
	router, jwtService, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/payroll?page=2&limit=20", nil)
	req.Header.Set("Authorization", bearer(t, jwtService, user.RoleManager))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	require.NotNil(t, body.Meta)
	assert.Equal(t, 2, body.Meta.Page)
	assert.Equal(t, 20, body.Meta.Limit)
	assert.Equal(t, int64(45), body.Meta.TotalItems)
	assert.Equal(t, 3, body.Meta.TotalPages)
	assert.Len(t, body.Data.([]interface{}), 1)
}

func TestLogRequestBody(t *testing.T) {
	dev := logRequestBody(&config.Config{App: config.AppConfig{Env: "development"}})
	prod := logRequestBody(&config.Config{App: config.AppConfig{Env: "production"}})

	login := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"username":"hr","password":"secret"}`))
	batch := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/generate/batch", nil)

	assert.False(t, dev(login))
	assert.True(t, dev(batch))
	assert.False(t, prod(batch))
}
