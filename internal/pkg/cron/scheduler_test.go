package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_AddJobRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler()
	err := s.AddJob("broken", "not a cron spec", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunOnce(t *testing.T) {
	s := NewScheduler()
	var calls int32

	require.NoError(t, s.AddJob("first", "0 2 1 * *", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	require.NoError(t, s.AddJob("failing", "@daily", func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}))

	s.RunOnce(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestScheduler_StartRunsOnSchedule(t *testing.T) {
	s := NewScheduler()
	ran := make(chan struct{}, 10)

	require.NoError(t, s.AddJob("ticker", "@every 1s", func(ctx context.Context) error {
		ran <- struct{}{}
		return nil
	}))

	s.Start()
	defer s.Stop()

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

type fakePayrollService struct {
	payroll.PayrollService
	got payroll.GenerateBatchRequest
}

func (f *fakePayrollService) GenerateBatch(ctx context.Context, req payroll.GenerateBatchRequest) (payroll.BatchResult, error) {
	f.got = req
	return payroll.BatchResult{SuccessCount: 3}, nil
}

func TestPayrollJobs_AutoGeneratePreviousMonth(t *testing.T) {
	cases := []struct {
		now       time.Time
		wantMonth int
		wantYear  int
	}{
		{time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC), 2, 2024},
		{time.Date(2024, 1, 1, 2, 0, 0, 0, time.UTC), 12, 2023},
		{time.Date(2024, 3, 31, 23, 0, 0, 0, time.UTC), 2, 2024},
	}

	for _, c := range cases {
		svc := &fakePayrollService{}
		jobs := NewPayrollJobs(svc)
		jobs.now = func() time.Time { return c.now }

		require.NoError(t, jobs.AutoGeneratePreviousMonth(context.Background()))
		assert.Equal(t, c.wantMonth, svc.got.PeriodMonth)
		assert.Equal(t, c.wantYear, svc.got.PeriodYear)
		assert.Empty(t, svc.got.EmployeeIDs)
	}
}

func TestPayrollJobs_RegisterJobs(t *testing.T) {
	s := NewScheduler()
	jobs := NewPayrollJobs(&fakePayrollService{})

	require.NoError(t, jobs.RegisterJobs(s, "0 2 1 * *"))
	assert.Len(t, s.jobs, 1)
	assert.Error(t, jobs.RegisterJobs(s, "61 * * * *"))
}
