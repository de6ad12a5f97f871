package notification

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventType names an event pushed to stream subscribers
type EventType string

const (
	EventPayrollGenerated EventType = "payroll.generated"
	EventPaymentSettled   EventType = "payment.settled"
	EventPaymentCompleted EventType = "payment.completed"
)

// Event is broadcast to every connected staff stream.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// PaymentNotice is mailed to an employee once their payment completes.
type PaymentNotice struct {
	EmployeeName    string
	Email           string
	PeriodMonth     int
	PeriodYear      int
	Amount          decimal.Decimal
	PaymentMethod   string
	PaymentDate     time.Time
	ReferenceNumber *string
}

// Publisher queues events for stream subscribers.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// Notifier publishes events and mails payment notices.
type Notifier interface {
	Publisher
	NotifyPaymentCompleted(ctx context.Context, notice PaymentNotice)
}

type Service interface {
	Notifier
	Subscribe(ctx context.Context) (<-chan Event, func())
	Stop()
}
