package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type PaymentView struct {
	ID            uuid.UUID  `json:"id"`
	PaymentNo     string     `json:"payment_no"`
	OrderID       uuid.UUID  `json:"order_id"`
	OrderNo       string     `json:"order_no"`
	AmountCents   int64      `json:"amount_cents"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transaction_id,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	PaidAt        *time.Time `json:"paid_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type PaymentQueries interface {
	GetByPaymentNo(ctx context.Context, paymentNo string) (*PaymentView, error)
}

type PaymentViewRepo interface {
	FindByPaymentNo(ctx context.Context, paymentNo string) (*PaymentView, error)
}

type paymentQueriesImpl struct {
	repo PaymentViewRepo
}

func NewPaymentQueries(repo PaymentViewRepo) PaymentQueries {
	return &paymentQueriesImpl{repo: repo}
}

func (q *paymentQueriesImpl) GetByPaymentNo(ctx context.Context, paymentNo string) (*PaymentView, error) {
	return q.repo.FindByPaymentNo(ctx, paymentNo)
}
