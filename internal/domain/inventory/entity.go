package inventory

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInsufficientCapacity = errors.New("insufficient capacity")
	ErrCounterUnderflow     = errors.New("inventory counter underflow")
	ErrBrokenInvariant      = errors.New("inventory counters violate invariant")
)

// CabinInventory is the per-(cabinType, voyage) ledger row. The invariant
// available = total - sold - locked holds after every mutation; all four
// counters stay non-negative.
type CabinInventory struct {
	cabinTypeID    uuid.UUID
	voyageID       uuid.UUID
	total          int
	sold           int
	locked         int
	available      int
	alertThreshold int
}

func NewCabinInventory(cabinTypeID, voyageID uuid.UUID, total, alertThreshold int) (*CabinInventory, error) {
	if total < 0 {
		return nil, ErrInvalidQuantity
	}
	return &CabinInventory{
		cabinTypeID:    cabinTypeID,
		voyageID:       voyageID,
		total:          total,
		available:      total,
		alertThreshold: alertThreshold,
	}, nil
}

func ReconstructCabinInventory(cabinTypeID, voyageID uuid.UUID, total, sold, locked, available, alertThreshold int) (*CabinInventory, error) {
	inv := &CabinInventory{
		cabinTypeID:    cabinTypeID,
		voyageID:       voyageID,
		total:          total,
		sold:           sold,
		locked:         locked,
		available:      available,
		alertThreshold: alertThreshold,
	}
	if err := inv.CheckInvariant(); err != nil {
		return nil, err
	}
	return inv, nil
}

// Hold moves quantity from available to locked.
func (i *CabinInventory) Hold(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.available < quantity {
		return ErrInsufficientCapacity
	}
	i.available -= quantity
	i.locked += quantity
	return nil
}

// CommitHold settles a locked quantity as sold.
func (i *CabinInventory) CommitHold(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.locked < quantity {
		return ErrCounterUnderflow
	}
	i.locked -= quantity
	i.sold += quantity
	return nil
}

// ReleaseHold returns a locked quantity to available.
func (i *CabinInventory) ReleaseHold(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.locked < quantity {
		return ErrCounterUnderflow
	}
	i.locked -= quantity
	i.available += quantity
	return nil
}

func (i *CabinInventory) CheckInvariant() error {
	if i.total < 0 || i.sold < 0 || i.locked < 0 || i.available < 0 {
		return ErrBrokenInvariant
	}
	if i.available != i.total-i.sold-i.locked {
		return ErrBrokenInvariant
	}
	return nil
}

func (i *CabinInventory) BelowAlertThreshold() bool {
	return i.alertThreshold > 0 && i.available <= i.alertThreshold
}

func (i *CabinInventory) CabinTypeID() uuid.UUID { return i.cabinTypeID }
func (i *CabinInventory) VoyageID() uuid.UUID    { return i.voyageID }
func (i *CabinInventory) Total() int             { return i.total }
func (i *CabinInventory) Sold() int              { return i.sold }
func (i *CabinInventory) Locked() int            { return i.locked }
func (i *CabinInventory) Available() int         { return i.available }
func (i *CabinInventory) AlertThreshold() int    { return i.alertThreshold }
