package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
)

type PayrollJobs struct {
	payrollService payroll.PayrollService
	now            func() time.Time
}

func NewPayrollJobs(payrollService payroll.PayrollService) *PayrollJobs {
	return &PayrollJobs{
		payrollService: payrollService,
		now:            time.Now,
	}
}

func (j *PayrollJobs) RegisterJobs(scheduler *Scheduler, spec string) error {
	return scheduler.AddJob("auto_generate_payroll", spec, j.AutoGeneratePreviousMonth)
}

// AutoGeneratePreviousMonth generates pending payroll for every active
// employee for the month before now. Employees that already have a record
// for that month are reported as warnings and left untouched.
func (j *PayrollJobs) AutoGeneratePreviousMonth(ctx context.Context) error {
	month, year := previousPeriod(j.now())

	result, err := j.payrollService.GenerateBatch(ctx, payroll.GenerateBatchRequest{
		PeriodMonth: month,
		PeriodYear:  year,
	})
	if err != nil {
		return fmt.Errorf("auto generate payroll %04d-%02d: %w", year, month, err)
	}

	slog.Info("Auto payroll generation finished",
		"period_month", month,
		"period_year", year,
		"success", result.SuccessCount,
		"warnings", result.WarningCount,
		"errors", result.ErrorCount,
	)
	return nil
}

func previousPeriod(now time.Time) (month, year int) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	prev := firstOfMonth.AddDate(0, -1, 0)
	return int(prev.Month()), prev.Year()
}
