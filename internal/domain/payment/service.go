package payment

import (
	"context"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/payroll"
)

type PaymentService interface {
	Create(ctx context.Context, req CreatePaymentRequest) (PaymentResultResponse, error)
	SettleBatch(ctx context.Context, req SettleBatchRequest) (payroll.BatchResult, error)

	GetByID(ctx context.Context, id string) (PaymentResponse, error)
	List(ctx context.Context, filter PaymentFilter) (ListPaymentResponse, error)
	Update(ctx context.Context, req UpdatePaymentRequest) (PaymentResultResponse, error)
	MarkCompleted(ctx context.Context, id string) (PaymentResponse, error)
	MarkFailed(ctx context.Context, id string) (PaymentResponse, error)
	Delete(ctx context.Context, id string) error
}
