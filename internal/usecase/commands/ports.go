package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// GuardLock is a best-effort distributed lock over a voyage's ledger rows.
// It narrows the window of conditional-UPDATE contention; the row-level
// guards remain the source of truth, so a no-op implementation stays safe.
type GuardLock interface {
	// Lock blocks with backoff until the key is acquired or ctx is done,
	// returning an unlock func. A degraded implementation may return a no-op.
	Lock(ctx context.Context, key string, ttl time.Duration) (func(ctx context.Context) error, error)
}

// EventPublisher emits lifecycle events after a transaction commits.
// Publishing failures are logged, never propagated to the caller.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, payload any) error
}

const (
	TopicOrderCreated     = "order.created"
	TopicOrderPaid        = "order.paid"
	TopicOrderCancelled   = "order.cancelled"
	TopicOrderRefunded    = "order.refunded"
	TopicPaymentSucceeded = "payment.succeeded"
	TopicPaymentFailed    = "payment.failed"
)

type OrderEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	OrderNo    string    `json:"order_no"`
	VoyageID   uuid.UUID `json:"voyage_id"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}

type PaymentEvent struct {
	PaymentNo   string    `json:"payment_no"`
	OrderNo     string    `json:"order_no"`
	AmountCents int64     `json:"amount_cents"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// GatewayStatus is the provider's answer to a status poll.
type GatewayStatus struct {
	PaymentNo     string
	Status        string
	TransactionID string
	AmountCents   int64
}

const (
	GatewayStatusPending = "pending"
	GatewayStatusSuccess = "success"
	GatewayStatusFailed  = "failed"
)

// PaymentGateway fronts the upstream payment provider.
type PaymentGateway interface {
	CreatePayment(ctx context.Context, paymentNo, orderNo string, amountCents int64, method string) (string, error)
	QueryStatus(ctx context.Context, paymentNo string) (*GatewayStatus, error)
}

// Metrics is the thin counter surface the commands and the sweeper report
// through; the prometheus-backed implementation lives in infra.
type Metrics interface {
	HoldGranted(lines int)
	HoldRejected()
	OrdersExpired(n int)
	HoldsReclaimed(n int)
	PassengersOverdue(n int)
	PaymentSettled()
	PaymentDuplicate()
	LowInventory(cabinTypeID uuid.UUID, available int)
}
