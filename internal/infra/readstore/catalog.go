package readstore

import (
	"context"

	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"
	"cruise-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// CatalogReads serves the write side's validation lookups against the
// catalog tables (voyages, prices, inventory counters).
type CatalogReads struct {
	db db.DBTX
}

func NewCatalogReads(dbtx db.DBTX) *CatalogReads {
	return &CatalogReads{db: dbtx}
}

func (r *CatalogReads) VoyageByID(ctx context.Context, id uuid.UUID) (*shared.VoyageSnapshot, error) {
	var v shared.VoyageSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT id, cruise_id, name, booking_status, departure_at, return_at
		 FROM voyages WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.CruiseID, &v.Name, &v.BookingStatus, &v.DepartureAt, &v.ReturnAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("voyage not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find voyage", err)
	}
	return &v, nil
}

func (r *CatalogReads) PriceBy(ctx context.Context, cabinTypeID, voyageID uuid.UUID) (*shared.CabinPriceSnapshot, error) {
	var p shared.CabinPriceSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT cabin_type_id, voyage_id,
		        adult_fare_cents, child_fare_cents, infant_fare_cents,
		        port_fee_cents, service_fee_cents, markup_bps, discount_bps
		 FROM cabin_prices WHERE cabin_type_id = $1 AND voyage_id = $2`,
		cabinTypeID, voyageID,
	).Scan(
		&p.CabinTypeID, &p.VoyageID,
		&p.Price.AdultFareCents, &p.Price.ChildFareCents, &p.Price.InfantFareCents,
		&p.Price.PortFeeCents, &p.Price.ServiceFeeCents, &p.MarkupBps, &p.DiscountBps,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("cabin price not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find cabin price", err)
	}
	return &p, nil
}

func (r *CatalogReads) LedgerRow(ctx context.Context, cabinTypeID, voyageID uuid.UUID) (*shared.LedgerSnapshot, error) {
	var l shared.LedgerSnapshot
	err := r.db.QueryRow(ctx,
		`SELECT cabin_type_id, voyage_id, total, sold, locked, available, alert_threshold
		 FROM cabin_inventory WHERE cabin_type_id = $1 AND voyage_id = $2`,
		cabinTypeID, voyageID,
	).Scan(&l.CabinTypeID, &l.VoyageID, &l.Total, &l.Sold, &l.Locked, &l.Available, &l.AlertThreshold)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("inventory row not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find inventory row", err)
	}
	return &l, nil
}
