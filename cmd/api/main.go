package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/config"
	appHTTP "github.com/cmlabs-hris/hr-payroll-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/cache"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/sse"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/repository/postgresql"
	attendanceService "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/attendance"
	serviceAuth "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/employee"
	notificationService "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/notification"
	paymentService "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/payment"
	payrollService "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/payroll"
	reportService "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/report"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.App.LogLevel),
	})))

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := cache.ConnectRedis(context.Background(), cfg.Redis)
	if err != nil {
		slog.Warn("Redis unavailable, payroll summaries will not be cached", "error", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	summaryCache := cache.New(redisClient)

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	paymentRepo := postgresql.NewPaymentRepository(db)
	reportRepo := postgresql.NewReportRepository(db)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		slog.Error("Failed to initialize JWT service", "error", err)
		os.Exit(1)
	}
	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		slog.Error("Failed to initialize email service", "error", err)
		os.Exit(1)
	}

	hub := sse.NewHub()
	notifSvc := notificationService.NewNotificationService(hub, emailService, notificationService.Config{})
	defer notifSvc.Stop()

	authSvc := serviceAuth.NewAuthService(userRepo, JWTService)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo)
	payrollSvc := payrollService.NewPayrollService(transactor, payrollRepo, employeeRepo, attendanceRepo, summaryCache, cfg.Redis.TTL, notifSvc)
	paymentSvc := paymentService.NewPaymentService(transactor, paymentRepo, payrollRepo, summaryCache, notifSvc)
	reportSvc := reportService.NewReportService(reportRepo, payrollRepo, paymentRepo)

	router := appHTTP.NewRouter(cfg, JWTService, appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authSvc),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Payroll:    appHTTP.NewPayrollHandler(payrollSvc),
		Payment:    appHTTP.NewPaymentHandler(paymentSvc),
		Report:     appHTTP.NewReportHandler(reportSvc),
		Event:      appHTTP.NewEventHandler(notifSvc),
	})

	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		scheduler = cron.NewScheduler()
		if err := cron.NewPayrollJobs(payrollSvc).RegisterJobs(scheduler, cfg.Cron.AutoGenerateSchedule); err != nil {
			slog.Error("Failed to register cron jobs", "error", err)
			os.Exit(1)
		}
		scheduler.Start()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("Server running", "addr", srv.Addr, "env", cfg.App.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
