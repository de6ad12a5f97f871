package payment

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payment"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// store backs both fake repositories so the transactor can roll them back together.
type store struct {
	payrolls      map[string]payroll.PayrollRecord
	payments      map[string]payment.Payment
	seq           int
	failStatusFor string
}

func newStore() *store {
	return &store{payrolls: map[string]payroll.PayrollRecord{}, payments: map[string]payment.Payment{}}
}

type rollbackTransactor struct{ s *store }

func (t rollbackTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	payrolls := maps.Clone(t.s.payrolls)
	payments := maps.Clone(t.s.payments)
	if err := fn(ctx); err != nil {
		t.s.payrolls, t.s.payments = payrolls, payments
		return err
	}
	return nil
}

type fakePayrollRepo struct {
	payroll.PayrollRepository
	s *store
}

func (r fakePayrollRepo) GetByID(_ context.Context, id string) (payroll.PayrollRecord, error) {
	rec, ok := r.s.payrolls[id]
	if !ok {
		return payroll.PayrollRecord{}, payroll.ErrPayrollRecordNotFound
	}
	return rec, nil
}

func (r fakePayrollRepo) GetByIDForUpdate(ctx context.Context, id string) (payroll.PayrollRecord, error) {
	return r.GetByID(ctx, id)
}

func (r fakePayrollRepo) UpdateStatus(_ context.Context, id string, status payroll.PayrollStatus) error {
	if id == r.s.failStatusFor {
		return errors.New("connection lost")
	}
	rec := r.s.payrolls[id]
	rec.Status = status
	r.s.payrolls[id] = rec
	return nil
}

type fakePaymentRepo struct {
	payment.PaymentRepository
	s *store
}

func (r fakePaymentRepo) Create(_ context.Context, p payment.Payment) (payment.Payment, error) {
	for _, existing := range r.s.payments {
		if existing.PayrollID == p.PayrollID {
			return payment.Payment{}, payment.ErrPaymentAlreadyExists
		}
	}
	r.s.seq++
	p.ID = fmt.Sprintf("pay-%d", r.s.seq)
	r.s.payments[p.ID] = p
	return p, nil
}

func (r fakePaymentRepo) GetByID(_ context.Context, id string) (payment.Payment, error) {
	p, ok := r.s.payments[id]
	if !ok {
		return payment.Payment{}, payment.ErrPaymentNotFound
	}
	if rec, ok := r.s.payrolls[p.PayrollID]; ok {
		p.EmployeeName = rec.EmployeeName
		p.EmployeeEmail = rec.EmployeeEmail
	}
	return p, nil
}

func (r fakePaymentRepo) ExistsForPayroll(_ context.Context, payrollID string) (bool, error) {
	for _, p := range r.s.payments {
		if p.PayrollID == payrollID {
			return true, nil
		}
	}
	return false, nil
}

func (r fakePaymentRepo) Update(_ context.Context, p payment.Payment) error {
	r.s.payments[p.ID] = p
	return nil
}

func (r fakePaymentRepo) UpdateStatus(_ context.Context, id string, status payment.PaymentStatus) error {
	p := r.s.payments[id]
	p.Status = status
	r.s.payments[id] = p
	return nil
}

type recordingNotifier struct {
	events  []notification.Event
	notices []notification.PaymentNotice
}

func (n *recordingNotifier) Publish(_ context.Context, e notification.Event) {
	n.events = append(n.events, e)
}

func (n *recordingNotifier) NotifyPaymentCompleted(_ context.Context, notice notification.PaymentNotice) {
	n.notices = append(n.notices, notice)
}

type fixture struct {
	svc      payment.PaymentService
	store    *store
	notifier *recordingNotifier
}

func newFixture() fixture {
	s := newStore()
	n := &recordingNotifier{}
	svc := NewPaymentService(rollbackTransactor{s}, fakePaymentRepo{s: s}, fakePayrollRepo{s: s}, nil, n)
	return fixture{svc: svc, store: s, notifier: n}
}

func (f fixture) addPayroll(id string, status payroll.PayrollStatus, total string) {
	name, email := "Emp "+id, id+"@example.com"
	f.store.payrolls[id] = payroll.PayrollRecord{
		ID:            id,
		EmployeeID:    "emp-" + id,
		PeriodMonth:   3,
		PeriodYear:    2024,
		TotalSalary:   decimal.RequireFromString(total),
		Status:        status,
		EmployeeName:  &name,
		EmployeeEmail: &email,
	}
}

func (f fixture) paymentsFor(payrollID string) int {
	n := 0
	for _, p := range f.store.payments {
		if p.PayrollID == payrollID {
			n++
		}
	}
	return n
}

// ===== TESTS =====

func TestPaymentService_Create_AmountMismatchWarns(t *testing.T) {
	f := newFixture()
	f.addPayroll("p1", payroll.PayrollStatusApproved, "1000.00")

	resp, err := f.svc.Create(context.Background(), payment.CreatePaymentRequest{
		PayrollID:     "p1",
		Amount:        decimal.NewFromInt(900),
		PaymentDate:   "2024-04-01",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Payment.Status)
	assert.Equal(t, "emp-p1", resp.Payment.EmployeeID)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0], "900.00")

	_, err = f.svc.Create(context.Background(), payment.CreatePaymentRequest{
		PayrollID:     "p1",
		Amount:        decimal.NewFromInt(1000),
		PaymentDate:   "2024-04-01",
		PaymentMethod: "cash",
	})
	assert.ErrorIs(t, err, payment.ErrPaymentAlreadyExists)
	assert.Equal(t, 1, f.paymentsFor("p1"))
}

func TestPaymentService_Create_UnknownPayroll(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), payment.CreatePaymentRequest{
		PayrollID:     "missing",
		Amount:        decimal.NewFromInt(1),
		PaymentDate:   "2024-04-01",
		PaymentMethod: "check",
	})
	assert.ErrorIs(t, err, payroll.ErrPayrollRecordNotFound)
}

func TestPaymentService_SettleBatch(t *testing.T) {
	f := newFixture()
	f.addPayroll("approved", payroll.PayrollStatusApproved, "1500.50")
	f.addPayroll("calculated", payroll.PayrollStatusCalculated, "-20.00")
	f.addPayroll("pending", payroll.PayrollStatusPending, "700.00")
	f.addPayroll("already", payroll.PayrollStatusApproved, "10.00")
	f.store.payments["existing"] = payment.Payment{ID: "existing", PayrollID: "already", Status: payment.PaymentStatusPending}

	result, err := f.svc.SettleBatch(context.Background(), payment.SettleBatchRequest{
		PayrollIDs:    []string{"approved", "approved", "calculated", "pending", "already", "missing"},
		PaymentDate:   "2024-04-01",
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 2, result.WarningCount)
	assert.Equal(t, 2, result.ErrorCount)

	assert.Equal(t, 1, f.paymentsFor("approved"))
	assert.Equal(t, payroll.PayrollStatusPaid, f.store.payrolls["approved"].Status)
	assert.Equal(t, payroll.PayrollStatusPaid, f.store.payrolls["calculated"].Status)

	assert.Equal(t, 0, f.paymentsFor("pending"))
	assert.Equal(t, payroll.PayrollStatusPending, f.store.payrolls["pending"].Status)
	assert.Equal(t, payroll.PayrollStatusApproved, f.store.payrolls["already"].Status)

	for _, p := range f.store.payments {
		if p.ID == "existing" {
			continue
		}
		assert.Equal(t, payment.PaymentStatusCompleted, p.Status)
		require.NotNil(t, p.ReferenceNumber)
		assert.True(t, strings.HasPrefix(*p.ReferenceNumber, BulkReferencePrefix+result.BatchID))
		if p.PayrollID == "approved" {
			assert.Equal(t, "1500.5", p.Amount.String())
		}
	}

	assert.Len(t, f.notifier.notices, 2)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, notification.EventPaymentSettled, f.notifier.events[0].Type)
}

func TestPaymentService_SettleBatch_FailureRollsBackOnlyThatItem(t *testing.T) {
	f := newFixture()
	f.addPayroll("p1", payroll.PayrollStatusApproved, "100.00")
	f.addPayroll("p2", payroll.PayrollStatusApproved, "200.00")
	f.store.failStatusFor = "p1"

	result, err := f.svc.SettleBatch(context.Background(), payment.SettleBatchRequest{
		PayrollIDs:    []string{"p1", "p2"},
		PaymentDate:   "2024-04-01",
		PaymentMethod: "cash",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, 0, f.paymentsFor("p1"))
	assert.Equal(t, payroll.PayrollStatusApproved, f.store.payrolls["p1"].Status)
	assert.Equal(t, 1, f.paymentsFor("p2"))
	assert.Equal(t, payroll.PayrollStatusPaid, f.store.payrolls["p2"].Status)
}

func TestPaymentService_Transitions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addPayroll("p1", payroll.PayrollStatusApproved, "100.00")

	created, err := f.svc.Create(ctx, payment.CreatePaymentRequest{
		PayrollID: "p1", Amount: decimal.NewFromInt(100), PaymentDate: "2024-04-01", PaymentMethod: "cash",
	})
	require.NoError(t, err)
	id := created.Payment.ID

	failed, err := f.svc.MarkFailed(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "failed", failed.Status)

	_, err = f.svc.MarkFailed(ctx, id)
	require.NoError(t, err)

	completed, err := f.svc.MarkCompleted(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "completed", completed.Status)
	assert.Len(t, f.notifier.notices, 1)

	_, err = f.svc.MarkCompleted(ctx, id)
	require.NoError(t, err)
	assert.Len(t, f.notifier.notices, 1)

	_, err = f.svc.MarkFailed(ctx, id)
	assert.ErrorIs(t, err, payment.ErrInvalidPaymentTransition)

	// single-payment marks never touch the payroll
	assert.Equal(t, payroll.PayrollStatusApproved, f.store.payrolls["p1"].Status)
}

func TestPaymentService_Update_CompletedIsImmutable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addPayroll("p1", payroll.PayrollStatusApproved, "20.00")
	f.store.payments["pay-x"] = payment.Payment{
		ID:          "pay-x",
		PayrollID:   "p1",
		Amount:      decimal.NewFromInt(10),
		PaymentDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		Status:      payment.PaymentStatusPending,
	}

	amount := decimal.NewFromInt(20)
	updated, err := f.svc.Update(ctx, payment.UpdatePaymentRequest{ID: "pay-x", Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "20", updated.Payment.Amount.String())
	assert.Empty(t, updated.Warnings)

	_, err = f.svc.MarkCompleted(ctx, "pay-x")
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, payment.UpdatePaymentRequest{ID: "pay-x", Amount: &amount})
	assert.ErrorIs(t, err, payment.ErrPaymentCompleted)
}

func TestPaymentService_Update_AmountMismatchWarns(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.addPayroll("p1", payroll.PayrollStatusApproved, "1000.00")

	created, err := f.svc.Create(ctx, payment.CreatePaymentRequest{
		PayrollID:     "p1",
		Amount:        decimal.RequireFromString("1000.00"),
		PaymentDate:   "2024-04-01",
		PaymentMethod: string(payment.PaymentMethodBankTransfer),
	})
	require.NoError(t, err)
	require.Empty(t, created.Warnings)

	amount := decimal.RequireFromString("900.5")
	updated, err := f.svc.Update(ctx, payment.UpdatePaymentRequest{ID: created.Payment.ID, Amount: &amount})
	require.NoError(t, err)
	assert.Equal(t, "900.5", updated.Payment.Amount.String())
	require.Len(t, updated.Warnings, 1)
	assert.Contains(t, updated.Warnings[0], "900.50")
	assert.Contains(t, updated.Warnings[0], "1000.00")

	notes := "adjusted"
	updated, err = f.svc.Update(ctx, payment.UpdatePaymentRequest{ID: created.Payment.ID, Notes: &notes})
	require.NoError(t, err)
	assert.Empty(t, updated.Warnings)
}
