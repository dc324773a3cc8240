package queries

import (
	"context"

	"github.com/google/uuid"
)

const MaxListLimit = 200

type InventoryRowView struct {
	CabinTypeID   uuid.UUID `json:"cabin_type_id"`
	CabinTypeName string    `json:"cabin_type_name"`
	VoyageID      uuid.UUID `json:"voyage_id"`
	Total         int       `json:"total"`
	Sold          int       `json:"sold"`
	Locked        int       `json:"locked"`
	Available     int       `json:"available"`
	LowInventory  bool      `json:"low_inventory"`
}

type VoyageInventoryView struct {
	VoyageID      uuid.UUID          `json:"voyage_id"`
	BookingStatus string             `json:"booking_status"`
	Rows          []InventoryRowView `json:"rows"`
}

type InventoryQueries interface {
	GetByVoyage(ctx context.Context, voyageID uuid.UUID) (*VoyageInventoryView, error)
}

type InventoryViewRepo interface {
	FindByVoyage(ctx context.Context, voyageID uuid.UUID) (*VoyageInventoryView, error)
}

type inventoryQueriesImpl struct {
	repo InventoryViewRepo
}

func NewInventoryQueries(repo InventoryViewRepo) InventoryQueries {
	return &inventoryQueriesImpl{repo: repo}
}

func (q *inventoryQueriesImpl) GetByVoyage(ctx context.Context, voyageID uuid.UUID) (*VoyageInventoryView, error) {
	return q.repo.FindByVoyage(ctx, voyageID)
}
