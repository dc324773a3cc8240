package order

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrInvalidItemQuantity = errors.New("item quantity must be positive")
	ErrNoAdultOnItem       = errors.New("item must include at least one adult")
)

// Item is one cabin line on an order. Quantity is the number of cabins of
// the type; passenger counts are per line. Immutable after confirmation.
type Item struct {
	ID            uuid.UUID
	CabinTypeID   uuid.UUID
	CabinID       *uuid.UUID
	VoyageID      uuid.UUID
	Quantity      int
	AdultCount    int
	ChildCount    int
	InfantCount   int
	SubtotalCents int64
}

func (it Item) Validate() error {
	if it.Quantity <= 0 {
		return ErrInvalidItemQuantity
	}
	if it.AdultCount <= 0 {
		return ErrNoAdultOnItem
	}
	if it.ChildCount < 0 || it.InfantCount < 0 {
		return ErrInvalidItemQuantity
	}
	return nil
}

// PassengerSlots is the number of passenger records the line requires.
func (it Item) PassengerSlots() int {
	return it.AdultCount + it.ChildCount + it.InfantCount
}
