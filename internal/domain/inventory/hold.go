package inventory

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHoldNotActive = errors.New("hold is not active")
	ErrHoldExpired   = errors.New("hold expired")
	ErrEmptyHold     = errors.New("hold must contain at least one line")
)

// HoldLine is one (cabinType, voyage, quantity) claim inside a HoldSet.
type HoldLine struct {
	CabinTypeID uuid.UUID
	VoyageID    uuid.UUID
	Quantity    int
}

// SortLines orders lines by cabinTypeID then voyageID. Every multi-line
// acquisition walks rows in this order so concurrent holders never wait on
// each other in a cycle.
func SortLines(lines []HoldLine) []HoldLine {
	sorted := make([]HoldLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(a, b int) bool {
		ca, cb := sorted[a].CabinTypeID.String(), sorted[b].CabinTypeID.String()
		if ca != cb {
			return ca < cb
		}
		return sorted[a].VoyageID.String() < sorted[b].VoyageID.String()
	})
	return sorted
}

// HoldSet is an all-or-nothing, TTL-bounded claim across one or more ledger
// rows, granted for a single draft order.
type HoldSet struct {
	id        uuid.UUID
	orderID   uuid.UUID
	lines     []HoldLine
	status    HoldStatus
	expiresAt time.Time
	createdAt time.Time
}

func NewHoldSet(orderID uuid.UUID, lines []HoldLine, now time.Time, ttl time.Duration) (*HoldSet, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyHold
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
	}
	return &HoldSet{
		id:        uuid.New(),
		orderID:   orderID,
		lines:     SortLines(lines),
		status:    HoldStatusActive,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}, nil
}

func ReconstructHoldSet(id, orderID uuid.UUID, lines []HoldLine, status HoldStatus, expiresAt, createdAt time.Time) *HoldSet {
	return &HoldSet{
		id:        id,
		orderID:   orderID,
		lines:     lines,
		status:    status,
		expiresAt: expiresAt,
		createdAt: createdAt,
	}
}

// Consume marks the hold settled on behalf of a direct caller, refusing a
// hold whose TTL has lapsed. Consuming twice is a no-op so retries stay
// idempotent; consuming an abandoned hold is an error.
func (h *HoldSet) Consume(now time.Time) error {
	switch h.status {
	case HoldStatusConsumed:
		return nil
	case HoldStatusAbandoned:
		return ErrHoldNotActive
	}
	if h.HasExpired(now) {
		return ErrHoldExpired
	}
	h.status = HoldStatusConsumed
	return nil
}

// Settle consumes the hold on behalf of a completed payment. The order
// status transition has already arbitrated the expiry race by the time a
// settlement reaches the hold, so an active hold follows the order even
// past its TTL. Settling twice is a no-op; an abandoned hold is an error.
func (h *HoldSet) Settle() error {
	switch h.status {
	case HoldStatusConsumed:
		return nil
	case HoldStatusAbandoned:
		return ErrHoldNotActive
	}
	h.status = HoldStatusConsumed
	return nil
}

// Abandon releases the hold. Abandoning twice is a no-op; a consumed hold
// cannot be abandoned.
func (h *HoldSet) Abandon() error {
	switch h.status {
	case HoldStatusAbandoned:
		return nil
	case HoldStatusConsumed:
		return ErrHoldNotActive
	}
	h.status = HoldStatusAbandoned
	return nil
}

// Extend refreshes the TTL of a live hold.
func (h *HoldSet) Extend(now time.Time, ttl time.Duration) error {
	if h.status != HoldStatusActive {
		return ErrHoldNotActive
	}
	if h.HasExpired(now) {
		return ErrHoldExpired
	}
	h.expiresAt = now.Add(ttl)
	return nil
}

func (h *HoldSet) HasExpired(now time.Time) bool {
	return now.After(h.expiresAt)
}

func (h *HoldSet) IsActive() bool {
	return h.status == HoldStatusActive
}

func (h *HoldSet) ID() uuid.UUID        { return h.id }
func (h *HoldSet) OrderID() uuid.UUID   { return h.orderID }
func (h *HoldSet) Lines() []HoldLine    { return h.lines }
func (h *HoldSet) Status() HoldStatus   { return h.status }
func (h *HoldSet) ExpiresAt() time.Time { return h.expiresAt }
func (h *HoldSet) CreatedAt() time.Time { return h.createdAt }
