//go:build unit || e2e

package builder

import (
	"time"

	dominv "cruise-booking/internal/domain/inventory"

	"github.com/google/uuid"
)

type InventoryBuilder struct {
	CabinTypeID    uuid.UUID
	VoyageID       uuid.UUID
	Total          int
	Sold           int
	Locked         int
	AlertThreshold int
}

func NewInventoryBuilder() *InventoryBuilder {
	return &InventoryBuilder{
		CabinTypeID:    uuid.New(),
		VoyageID:       uuid.New(),
		Total:          10,
		Sold:           0,
		Locked:         0,
		AlertThreshold: 2,
	}
}

func (b *InventoryBuilder) With(mutate func(*InventoryBuilder)) *InventoryBuilder {
	mutate(b)
	return b
}

func (b *InventoryBuilder) BuildDomain() (*dominv.CabinInventory, error) {
	return dominv.ReconstructCabinInventory(
		b.CabinTypeID,
		b.VoyageID,
		b.Total,
		b.Sold,
		b.Locked,
		b.Total-b.Sold-b.Locked,
		b.AlertThreshold,
	)
}

type HoldBuilder struct {
	OrderID uuid.UUID
	Lines   []dominv.HoldLine
	Now     time.Time
	TTL     time.Duration
}

func NewHoldBuilder() *HoldBuilder {
	return &HoldBuilder{
		OrderID: uuid.New(),
		Lines: []dominv.HoldLine{
			{CabinTypeID: uuid.New(), VoyageID: uuid.New(), Quantity: 2},
		},
		Now: time.Now(),
		TTL: 15 * time.Minute,
	}
}

func (b *HoldBuilder) With(mutate func(*HoldBuilder)) *HoldBuilder {
	mutate(b)
	return b
}

func (b *HoldBuilder) BuildDomain() (*dominv.HoldSet, error) {
	return dominv.NewHoldSet(b.OrderID, b.Lines, b.Now, b.TTL)
}
