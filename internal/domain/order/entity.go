package order

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrMissingContact    = errors.New("contact name and phone are required")
	ErrNoItems           = errors.New("order must contain at least one item")
	ErrAmountMismatch    = errors.New("paid amount does not match amount due")
	ErrNotExpired        = errors.New("order has not expired yet")
	ErrAlreadyDeparted   = errors.New("voyage already departed")
)

type Contact struct {
	Name  string
	Phone string
	Email string
}

func (c Contact) Validate() error {
	if c.Name == "" || c.Phone == "" {
		return ErrMissingContact
	}
	return nil
}

// Order is the aggregate root for a booking. Status moves only through the
// transition table in types.go; every mutation below re-checks it so a
// stale caller gets ErrInvalidTransition instead of a silent overwrite.
type Order struct {
	id             uuid.UUID
	orderNo        string
	userID         *uuid.UUID
	cruiseID       uuid.UUID
	voyageID       uuid.UUID
	holdSetID      uuid.UUID
	status         Status
	totalCents     int64
	discountCents  int64
	paidCents      int64
	contact        Contact
	items          []Item
	passengers     []Passenger
	expireAt       time.Time
	paidAt         *time.Time
	confirmedAt    *time.Time
	cancelReason   string
	refundReason   string
	refundedAt     *time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

func NewOrder(
	userID *uuid.UUID,
	cruiseID, voyageID, holdSetID uuid.UUID,
	items []Item,
	passengers []Passenger,
	contact Contact,
	totalCents, discountCents int64,
	now time.Time,
	holdTTL time.Duration,
) (*Order, error) {
	if err := contact.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:            uuid.New(),
		orderNo:       generateOrderNo(now),
		userID:        userID,
		cruiseID:      cruiseID,
		voyageID:      voyageID,
		holdSetID:     holdSetID,
		status:        StatusPendingPayment,
		totalCents:    totalCents,
		discountCents: discountCents,
		contact:       contact,
		items:         items,
		passengers:    passengers,
		expireAt:      now.Add(holdTTL),
		createdAt:     now,
	}, nil
}

func ReconstructOrder(
	id uuid.UUID,
	orderNo string,
	userID *uuid.UUID,
	cruiseID, voyageID, holdSetID uuid.UUID,
	status Status,
	totalCents, discountCents, paidCents int64,
	contact Contact,
	items []Item,
	passengers []Passenger,
	expireAt time.Time,
	paidAt, confirmedAt *time.Time,
	cancelReason, refundReason string,
	refundedAt *time.Time,
	createdAt, updatedAt time.Time,
) *Order {
	return &Order{
		id:            id,
		orderNo:       orderNo,
		userID:        userID,
		cruiseID:      cruiseID,
		voyageID:      voyageID,
		holdSetID:     holdSetID,
		status:        status,
		totalCents:    totalCents,
		discountCents: discountCents,
		paidCents:     paidCents,
		contact:       contact,
		items:         items,
		passengers:    passengers,
		expireAt:      expireAt,
		paidAt:        paidAt,
		confirmedAt:   confirmedAt,
		cancelReason:  cancelReason,
		refundReason:  refundReason,
		refundedAt:    refundedAt,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// AmountDue is what a payment must settle exactly. Partial and overpaid
// amounts are rejected.
func (o *Order) AmountDue() int64 {
	return o.totalCents - o.discountCents
}

// PassengersComplete reports whether every passenger slot declared by the
// items is filled with a complete record.
func (o *Order) PassengersComplete() bool {
	slots := 0
	for _, it := range o.items {
		slots += it.PassengerSlots()
	}
	if len(o.passengers) < slots {
		return false
	}
	for _, p := range o.passengers {
		if !p.IsComplete() {
			return false
		}
	}
	return true
}

// MarkPaid records a settled payment. Valid only from pending_payment with
// an exact amount; the caller consumes the hold in the same unit of work.
func (o *Order) MarkPaid(amountCents int64, now time.Time) error {
	if !o.status.CanTransition(StatusPaid) || o.status != StatusPendingPayment {
		return transitionError(o.status, StatusPaid)
	}
	if amountCents != o.AmountDue() {
		return ErrAmountMismatch
	}
	o.status = StatusPaid
	o.paidCents = amountCents
	o.paidAt = &now
	return nil
}

// Confirm advances paid -> confirmed once passenger data is complete. An
// order with missing passengers stays paid until the records arrive.
func (o *Order) Confirm(now time.Time) error {
	if !o.status.CanTransition(StatusConfirmed) {
		return transitionError(o.status, StatusConfirmed)
	}
	if !o.PassengersComplete() {
		return ErrIncompletePassenger
	}
	o.status = StatusConfirmed
	o.confirmedAt = &now
	return nil
}

// Expire cancels an unpaid order whose deadline passed. Only created and
// pending_payment orders expire; anything later is untouched.
func (o *Order) Expire(now time.Time) error {
	if o.status != StatusCreated && o.status != StatusPendingPayment {
		return transitionError(o.status, StatusCancelled)
	}
	if !now.After(o.expireAt) {
		return ErrNotExpired
	}
	o.status = StatusCancelled
	o.cancelReason = "expired"
	return nil
}

// Cancel is the user/operator path out of any pre-confirmation state.
func (o *Order) Cancel(reason string) error {
	if !o.status.CanTransition(StatusCancelled) {
		return transitionError(o.status, StatusCancelled)
	}
	o.status = StatusCancelled
	o.cancelReason = reason
	return nil
}

// RequestRefund opens the refund chain from paid/confirmed before departure.
// Sold inventory is deliberately not restored.
func (o *Order) RequestRefund(reason string, departureAt time.Time, now time.Time) error {
	if !o.status.CanTransition(StatusRefundRequested) {
		return transitionError(o.status, StatusRefundRequested)
	}
	if !departureAt.IsZero() && now.After(departureAt) {
		return ErrAlreadyDeparted
	}
	o.status = StatusRefundRequested
	o.refundReason = reason
	return nil
}

func (o *Order) ProcessRefund() error {
	if !o.status.CanTransition(StatusRefundProcessing) {
		return transitionError(o.status, StatusRefundProcessing)
	}
	o.status = StatusRefundProcessing
	return nil
}

func (o *Order) CompleteRefund(now time.Time) error {
	if !o.status.CanTransition(StatusRefunded) {
		return transitionError(o.status, StatusRefunded)
	}
	o.status = StatusRefunded
	o.refundedAt = &now
	return nil
}

// AttachHold links the inventory claim granted for this order. Set once
// during creation, before the order is persisted.
func (o *Order) AttachHold(holdSetID uuid.UUID) {
	o.holdSetID = holdSetID
}

func (o *Order) AttachPassengers(passengers []Passenger) {
	o.passengers = passengers
}

func (o *Order) HasExpired(now time.Time) bool {
	return now.After(o.expireAt)
}

func (o *Order) ID() uuid.UUID           { return o.id }
func (o *Order) OrderNo() string         { return o.orderNo }
func (o *Order) UserID() *uuid.UUID      { return o.userID }
func (o *Order) CruiseID() uuid.UUID     { return o.cruiseID }
func (o *Order) VoyageID() uuid.UUID     { return o.voyageID }
func (o *Order) HoldSetID() uuid.UUID    { return o.holdSetID }
func (o *Order) Status() Status          { return o.status }
func (o *Order) TotalCents() int64       { return o.totalCents }
func (o *Order) DiscountCents() int64    { return o.discountCents }
func (o *Order) PaidCents() int64        { return o.paidCents }
func (o *Order) Contact() Contact        { return o.contact }
func (o *Order) Items() []Item           { return o.items }
func (o *Order) Passengers() []Passenger { return o.passengers }
func (o *Order) ExpireAt() time.Time     { return o.expireAt }
func (o *Order) PaidAt() *time.Time      { return o.paidAt }
func (o *Order) ConfirmedAt() *time.Time { return o.confirmedAt }
func (o *Order) CancelReason() string    { return o.cancelReason }
func (o *Order) RefundReason() string    { return o.refundReason }
func (o *Order) RefundedAt() *time.Time  { return o.refundedAt }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) UpdatedAt() time.Time    { return o.updatedAt }

func transitionError(from, to Status) error {
	return fmt.Errorf("cannot transition from %s to %s: %w", from, to, ErrInvalidTransition)
}

func generateOrderNo(now time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("ORD%s%08d", now.Format("20060102"), now.UnixNano()%100000000)
	}
	return fmt.Sprintf("ORD%s%s", now.Format("20060102"), hex.EncodeToString(buf))
}
