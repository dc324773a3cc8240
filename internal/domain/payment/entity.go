package payment

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount  = errors.New("payment amount must be positive")
	ErrTerminalState  = errors.New("payment already in a terminal state")
	ErrInvalidMethod  = errors.New("unknown payment method")
	ErrAmountMismatch = errors.New("settled amount does not match payment amount")
	ErrNotRefundable  = errors.New("only a successful payment can be refunded")
)

// Payment tracks one settlement attempt against an order, keyed by the
// provider-visible paymentNo. Terminal payments never change again; a
// duplicate callback is detected by the caller via IsTerminal.
type Payment struct {
	id            uuid.UUID
	paymentNo     string
	orderID       uuid.UUID
	orderNo       string
	amountCents   int64
	method        Method
	status        Status
	transactionID string
	failureReason string
	paidAt        *time.Time
	refundedAt    *time.Time
	createdAt     time.Time
	updatedAt     time.Time
}

func NewPayment(orderID uuid.UUID, orderNo string, amountCents int64, method Method, now time.Time) (*Payment, error) {
	if amountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if !method.IsValid() {
		return nil, ErrInvalidMethod
	}
	return &Payment{
		id:          uuid.New(),
		paymentNo:   generatePaymentNo(now),
		orderID:     orderID,
		orderNo:     orderNo,
		amountCents: amountCents,
		method:      method,
		status:      StatusPending,
		createdAt:   now,
	}, nil
}

func ReconstructPayment(
	id uuid.UUID,
	paymentNo string,
	orderID uuid.UUID,
	orderNo string,
	amountCents int64,
	method Method,
	status Status,
	transactionID, failureReason string,
	paidAt, refundedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:            id,
		paymentNo:     paymentNo,
		orderID:       orderID,
		orderNo:       orderNo,
		amountCents:   amountCents,
		method:        method,
		status:        status,
		transactionID: transactionID,
		failureReason: failureReason,
		paidAt:        paidAt,
		refundedAt:    refundedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// MarkProcessing records that the provider accepted the request.
func (p *Payment) MarkProcessing() error {
	if p.status.IsTerminal() {
		return ErrTerminalState
	}
	p.status = StatusProcessing
	return nil
}

// Succeed settles the payment. The provider-reported amount must equal the
// recorded amount exactly.
func (p *Payment) Succeed(amountCents int64, transactionID string, now time.Time) error {
	if p.status.IsTerminal() {
		return ErrTerminalState
	}
	if amountCents != p.amountCents {
		return ErrAmountMismatch
	}
	p.status = StatusSuccess
	p.transactionID = transactionID
	p.paidAt = &now
	return nil
}

func (p *Payment) Fail(reason string) error {
	if p.status.IsTerminal() {
		return ErrTerminalState
	}
	p.status = StatusFailed
	p.failureReason = reason
	return nil
}

func (p *Payment) Refund(now time.Time) error {
	if p.status != StatusSuccess {
		return ErrNotRefundable
	}
	p.status = StatusRefunded
	p.refundedAt = &now
	return nil
}

func (p *Payment) ID() uuid.UUID          { return p.id }
func (p *Payment) PaymentNo() string      { return p.paymentNo }
func (p *Payment) OrderID() uuid.UUID     { return p.orderID }
func (p *Payment) OrderNo() string        { return p.orderNo }
func (p *Payment) AmountCents() int64     { return p.amountCents }
func (p *Payment) Method() Method         { return p.method }
func (p *Payment) Status() Status         { return p.status }
func (p *Payment) TransactionID() string  { return p.transactionID }
func (p *Payment) FailureReason() string  { return p.failureReason }
func (p *Payment) PaidAt() *time.Time     { return p.paidAt }
func (p *Payment) RefundedAt() *time.Time { return p.refundedAt }
func (p *Payment) CreatedAt() time.Time   { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time   { return p.updatedAt }

func generatePaymentNo(now time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("PAY%s%08d", now.Format("20060102"), now.UnixNano()%100000000)
	}
	return fmt.Sprintf("PAY%s%s", now.Format("20060102"), hex.EncodeToString(buf))
}
