package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/notification"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/sse"
	"github.com/google/uuid"
)

// StaffTopic is the hub topic every HR/admin stream subscribes to.
const StaffTopic = "staff"

// Config holds notification service configuration
type Config struct {
	WorkerCount int // default: 2
	QueueSize   int // default: 1000
}

type job struct {
	event  *notification.Event
	notice *notification.PaymentNotice
}

type service struct {
	hub    *sse.Hub
	mailer email.EmailService
	config Config

	queue  chan job
	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once
}

// NewNotificationService creates a new notification service with background workers.
// A nil mailer disables payment e-mails.
func NewNotificationService(hub *sse.Hub, mailer email.EmailService, cfg Config) notification.Service {
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		hub:    hub,
		mailer: mailer,
		config: cfg,
		queue:  make(chan job, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification service started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	return s
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case j := <-s.queue:
			s.handle(id, j)
		case <-s.stopCh:
			// drain what is already queued
			for {
				select {
				case j := <-s.queue:
					s.handle(id, j)
				default:
					return
				}
			}
		}
	}
}

func (s *service) handle(worker int, j job) {
	if j.event != nil {
		s.hub.Publish(StaffTopic, sse.Event{Event: string(j.event.Type), Data: *j.event})
	}
	if j.notice != nil && s.mailer != nil {
		if err := s.mailer.SendPaymentCompleted(*j.notice); err != nil {
			slog.Error("failed to send payment notice", "worker", worker, "to", j.notice.Email, "error", err)
		}
	}
}

func (s *service) enqueue(ctx context.Context, j job) {
	select {
	case <-s.stopCh:
		slog.WarnContext(ctx, "notification service stopped, dropping job")
		return
	default:
	}

	select {
	case s.queue <- j:
	default:
		// Queue full, handle inline
		s.handle(-1, j)
	}
}

// Publish implements notification.Publisher.
func (s *service) Publish(ctx context.Context, event notification.Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	s.enqueue(ctx, job{event: &event})
}

// NotifyPaymentCompleted implements notification.Notifier.
func (s *service) NotifyPaymentCompleted(ctx context.Context, notice notification.PaymentNotice) {
	if notice.Email == "" {
		return
	}
	s.enqueue(ctx, job{notice: &notice})
}

// Subscribe creates a stream subscription for staff events
func (s *service) Subscribe(ctx context.Context) (<-chan notification.Event, func()) {
	ch, cleanup := s.hub.Subscribe(StaffTopic)

	out := make(chan notification.Event, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				if e, ok := event.Data.(notification.Event); ok {
					select {
					case out <- e:
					case <-ctx.Done():
						return
					}
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop drains the queue and waits for workers to exit
func (s *service) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("notification service stopped")
	})
}
