package readstore

import (
	"context"

	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"
	"cruise-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type InventoryReadStore struct {
	db db.DBTX
}

func NewInventoryReadStore(dbtx db.DBTX) *InventoryReadStore {
	return &InventoryReadStore{db: dbtx}
}

func (r *InventoryReadStore) FindByVoyage(ctx context.Context, voyageID uuid.UUID) (*queries.VoyageInventoryView, error) {
	var bookingStatus string
	err := r.db.QueryRow(ctx,
		`SELECT booking_status FROM voyages WHERE id = $1`, voyageID,
	).Scan(&bookingStatus)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("voyage not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find voyage", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT ci.cabin_type_id, COALESCE(ct.name, ''), ci.voyage_id,
		        ci.total, ci.sold, ci.locked, ci.available,
		        (ci.alert_threshold > 0 AND ci.available <= ci.alert_threshold) AS low_inventory
		 FROM cabin_inventory ci
		 LEFT JOIN cabin_types ct ON ct.id = ci.cabin_type_id
		 WHERE ci.voyage_id = $1
		 ORDER BY ct.name`,
		voyageID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list inventory rows", err)
	}
	defer rows.Close()

	view := &queries.VoyageInventoryView{
		VoyageID:      voyageID,
		BookingStatus: bookingStatus,
	}
	for rows.Next() {
		var row queries.InventoryRowView
		if err := rows.Scan(
			&row.CabinTypeID, &row.CabinTypeName, &row.VoyageID,
			&row.Total, &row.Sold, &row.Locked, &row.Available, &row.LowInventory,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan inventory row", err)
		}
		view.Rows = append(view.Rows, row)
	}
	return view, rows.Err()
}
