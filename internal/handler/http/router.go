package http

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Payroll    PayrollHandler
	Payment    PaymentHandler
	Report     ReportHandler
	Event      EventHandler
}

func NewRouter(cfg *config.Config, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "hr-payroll"),
		slog.String("version", "v1.0.0"),
		slog.String("env", cfg.App.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:          slog.LevelInfo,
		Schema:         httplog.SchemaECS,
		RecoverPanics:  true,
		LogRequestBody: logRequestBody(cfg),
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			response.Success(w, map[string]string{"status": "ok"})
		})

		r.Post("/auth/login", h.Auth.Login)

		// Requires authentication, bearer header only
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader))
			r.Use(middleware.AuthRequired)

			r.Get("/auth/me", h.Auth.Me)

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.ListEmployees)
				r.Get("/{id}", h.Employee.GetEmployee)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManagePayroll)
					r.Post("/", h.Employee.CreateEmployee)
					r.Put("/{id}", h.Employee.UpdateEmployee)
					r.Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
				})
			})

			r.Route("/attendance", func(r chi.Router) {
				r.Get("/", h.Attendance.List)
				r.Get("/summary", h.Attendance.MonthlySummary)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManagePayroll)
					r.Post("/", h.Attendance.ManualEntry)
					r.Post("/check-in", h.Attendance.CheckIn)
					r.Post("/check-out", h.Attendance.CheckOut)
				})
			})

			r.Route("/payroll", func(r chi.Router) {
				r.Get("/", h.Payroll.ListPayrollRecords)
				r.Get("/summary", h.Payroll.GetPayrollSummary)
				r.Get("/{id}", h.Payroll.GetPayrollRecord)
				r.Post("/calculate", h.Payroll.CalculatePayroll)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManagePayroll)
					r.Post("/generate", h.Payroll.GeneratePayroll)
					r.Post("/generate/batch", h.Payroll.GeneratePayrollBatch)
					r.Put("/{id}", h.Payroll.UpdatePayrollRecord)
					r.Post("/{id}/approve", h.Payroll.ApprovePayrollRecord)
					r.Delete("/{id}", h.Payroll.DeletePayrollRecord)
				})
			})

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.Payment.ListPayments)
				r.Get("/{id}", h.Payment.GetPayment)

				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireManagePayroll)
					r.Post("/", h.Payment.CreatePayment)
					r.Post("/settle", h.Payment.SettlePayments)
					r.Put("/{id}", h.Payment.UpdatePayment)
					r.Post("/{id}/complete", h.Payment.CompletePayment)
					r.Post("/{id}/fail", h.Payment.FailPayment)
					r.Delete("/{id}", h.Payment.DeletePayment)
				})
			})

			r.Get("/reports/payroll", h.Report.GetPayrollReport)
			r.Get("/reports/payments", h.Report.GetPaymentReport)
		})

		// Read-only streams and downloads opened by the browser also accept ?jwt=
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verify(JWTService.JWTAuth(), jwtauth.TokenFromHeader, jwtauth.TokenFromQuery))
			r.Use(middleware.StripQueryToken)
			r.Use(middleware.AuthRequired)

			r.Get("/events/stream", h.Event.Stream)
			r.Get("/reports/payroll/export", h.Report.ExportPayroll)
			r.Get("/reports/payments/export", h.Report.ExportPayments)
		})
	})
	return r
}

// logRequestBody enables body logging outside production, except for
// routes that carry credentials.
func logRequestBody(cfg *config.Config) func(*http.Request) bool {
	return func(req *http.Request) bool {
		if cfg.IsProduction() {
			return false
		}
		return !strings.HasPrefix(req.URL.Path, "/api/v1/auth/")
	}
}
