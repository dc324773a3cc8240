package shared

import (
	"context"
	"time"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/internal/domain/order"
	"cruise-booking/internal/domain/payment"

	"github.com/google/uuid"
)

// UnitOfWork scopes a group of repository calls to one database transaction.
// Returning an error from fn rolls everything back, including ledger rows
// already decremented earlier in the same call.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	Reads() CommandReads
}

type Tx interface {
	Ledger() LedgerRepository
	Holds() HoldRepository
	Orders() OrderRepository
	Payments() PaymentRepository
}

// CommandReads is validation-only catalog access outside transactions.
type CommandReads interface {
	VoyageByID(ctx context.Context, id uuid.UUID) (*VoyageSnapshot, error)
	PriceBy(ctx context.Context, cabinTypeID, voyageID uuid.UUID) (*CabinPriceSnapshot, error)
	LedgerRow(ctx context.Context, cabinTypeID, voyageID uuid.UUID) (*LedgerSnapshot, error)
}

// LedgerRepository mutates the per-(cabinType, voyage) counter row. Each
// method is a single conditional UPDATE; Reserve fails with KindConflict
// when availability is short instead of ever letting a counter go negative.
type LedgerRepository interface {
	Reserve(ctx context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error
	Commit(ctx context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error
	Release(ctx context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error
}

type HoldRepository interface {
	Create(ctx context.Context, hold *inventory.HoldSet) error
	FindByID(ctx context.Context, id uuid.UUID) (*inventory.HoldSet, error)
	// UpdateStatus is a compare-and-set on the hold row; false means the row
	// was not in the expected status and nothing changed.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to inventory.HoldStatus) (bool, error)
	UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*inventory.HoldSet, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *order.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error)
	// The Mark* methods are compare-and-set on status; false means another
	// writer moved the order first and nothing changed.
	MarkPaid(ctx context.Context, id uuid.UUID, paidCents int64, paidAt time.Time) (bool, error)
	MarkConfirmed(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (bool, error)
	MarkCancelled(ctx context.Context, id uuid.UUID, from order.Status, reason string) (bool, error)
	SetRefundStatus(ctx context.Context, id uuid.UUID, from, to order.Status, reason string, refundedAt *time.Time) (bool, error)
	ReplacePassengers(ctx context.Context, orderID uuid.UUID, passengers []order.Passenger) error
	FindExpiredUnpaid(ctx context.Context, now time.Time, limit int) ([]*order.Order, error)
	// FindPassengerOverdue returns paid orders whose passenger manifest is
	// still incomplete past the cutoff.
	FindPassengerOverdue(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByPaymentNo(ctx context.Context, paymentNo string) (*payment.Payment, error)
	FindLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error)
	// Settle moves a non-terminal payment to success; false means the row
	// was already terminal.
	Settle(ctx context.Context, paymentNo, transactionID string, paidAt time.Time) (bool, error)
	MarkFailed(ctx context.Context, paymentNo, reason string) (bool, error)
	MarkRefunded(ctx context.Context, paymentNo string, refundedAt time.Time) (bool, error)
}
