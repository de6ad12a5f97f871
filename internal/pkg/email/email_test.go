package email

import (
	"errors"
	"net/smtp"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/notification"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, cfg config.SMTPConfig, send sendFunc) *emailServiceImpl {
	t.Helper()
	svc, err := NewEmailService(cfg)
	require.NoError(t, err)

	impl := svc.(*emailServiceImpl)
	impl.send = send
	impl.backoff = time.Millisecond
	return impl
}

func testNotice() notification.PaymentNotice {
	ref := "BULK-42"
	return notification.PaymentNotice{
		EmployeeName:    "Budi Santoso",
		Email:           "budi@example.com",
		PeriodMonth:     12,
		PeriodYear:      2023,
		Amount:          decimal.RequireFromString("20863636.36"),
		PaymentMethod:   "bank_transfer",
		PaymentDate:     time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		ReferenceNumber: &ref,
	}
}

func TestSendPaymentCompleted(t *testing.T) {
	var gotAddr string
	var gotTo []string
	var gotMsg string

	svc := newTestService(t, config.SMTPConfig{Host: "smtp.test", Port: 2525, From: "payroll@test", FromName: "Payroll"},
		func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
			gotAddr, gotTo, gotMsg = addr, to, string(msg)
			return nil
		})

	require.NoError(t, svc.SendPaymentCompleted(testNotice()))

	assert.Equal(t, "smtp.test:2525", gotAddr)
	assert.Equal(t, []string{"budi@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "Subject: Salary payment for December 2023")
	assert.Contains(t, gotMsg, "20863636.36")
	assert.Contains(t, gotMsg, "BULK-42")
	assert.Contains(t, gotMsg, "Dear Budi Santoso")
}

func TestSendPaymentCompleted_SkipsWithoutHost(t *testing.T) {
	called := false
	svc := newTestService(t, config.SMTPConfig{}, func(string, smtp.Auth, string, []string, []byte) error {
		called = true
		return nil
	})

	require.NoError(t, svc.SendPaymentCompleted(testNotice()))
	assert.False(t, called)
}

func TestSendPaymentCompleted_RetriesThenFails(t *testing.T) {
	attempts := 0
	svc := newTestService(t, config.SMTPConfig{Host: "smtp.test", Port: 25}, func(string, smtp.Auth, string, []string, []byte) error {
		attempts++
		return errors.New("connection refused")
	})

	err := svc.SendPaymentCompleted(testNotice())
	require.Error(t, err)
	assert.Equal(t, maxRetries, attempts)
}
