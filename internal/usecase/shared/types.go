package shared

import (
	"time"

	"cruise-booking/internal/domain/pricing"

	"github.com/google/uuid"
)

// Snapshots are the minimal read models command handlers validate against.
// They come from the catalog tables, never from the write aggregates.

type VoyageSnapshot struct {
	ID            uuid.UUID
	CruiseID      uuid.UUID
	Name          string
	BookingStatus string
	DepartureAt   time.Time
	ReturnAt      time.Time
}

const (
	VoyageBookingOpen    = "open"
	VoyageBookingClosed  = "closed"
	VoyageBookingSoldOut = "sold_out"
)

func (v *VoyageSnapshot) IsOpen() bool {
	return v.BookingStatus == VoyageBookingOpen
}

type CabinPriceSnapshot struct {
	CabinTypeID uuid.UUID
	VoyageID    uuid.UUID
	Price       pricing.Price
	MarkupBps   int64
	DiscountBps int64
}

func (c *CabinPriceSnapshot) Adjustment() pricing.Adjustment {
	return pricing.Adjustment{MarkupBps: c.MarkupBps, DiscountBps: c.DiscountBps}
}

type LedgerSnapshot struct {
	CabinTypeID    uuid.UUID
	VoyageID       uuid.UUID
	Total          int
	Sold           int
	Locked         int
	Available      int
	AlertThreshold int
}
