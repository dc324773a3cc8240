package repo_impl

import (
	"context"

	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"

	"github.com/google/uuid"
)

// LedgerRepository mutates cabin_inventory counter rows. Every mutation is
// one conditional UPDATE: the WHERE clause carries the business guard, so a
// zero-row result means the guard failed, never that data was lost.
type LedgerRepository struct {
	db db.DBTX
}

func NewLedgerRepository(dbtx db.DBTX) *LedgerRepository {
	return &LedgerRepository{db: dbtx}
}

const reserveSQL = `
UPDATE cabin_inventory
SET locked = locked + $3,
    available = available - $3,
    updated_at = now()
WHERE cabin_type_id = $1 AND voyage_id = $2 AND available >= $3`

func (r *LedgerRepository) Reserve(ctx context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error {
	tag, err := r.db.Exec(ctx, reserveSQL, cabinTypeID, voyageID, quantity)
	if err != nil {
		return classifyExecErr("failed to reserve inventory", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, cabinTypeID, voyageID)
	}
	return nil
}

const commitSQL = `
UPDATE cabin_inventory
SET locked = locked - $3,
    sold = sold + $3,
    updated_at = now()
WHERE cabin_type_id = $1 AND voyage_id = $2 AND locked >= $3`

func (r *LedgerRepository) Commit(ctx context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error {
	tag, err := r.db.Exec(ctx, commitSQL, cabinTypeID, voyageID, quantity)
	if err != nil {
		return classifyExecErr("failed to commit inventory", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, cabinTypeID, voyageID)
	}
	return nil
}

const releaseSQL = `
UPDATE cabin_inventory
SET locked = locked - $3,
    available = available + $3,
    updated_at = now()
WHERE cabin_type_id = $1 AND voyage_id = $2 AND locked >= $3`

func (r *LedgerRepository) Release(ctx context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error {
	tag, err := r.db.Exec(ctx, releaseSQL, cabinTypeID, voyageID, quantity)
	if err != nil {
		return classifyExecErr("failed to release inventory", err)
	}
	if tag.RowsAffected() == 0 {
		return r.classifyMiss(ctx, cabinTypeID, voyageID)
	}
	return nil
}

// classifyExecErr maps a schema CHECK violation (the counter constraints in
// cabin_inventory backstop the WHERE guards) to the same conflict kind a
// guard miss reports, so callers see one failure mode.
func classifyExecErr(msg string, err error) error {
	if infra.IsCheckViolation(err) {
		return infra.WrapRepoErr("inventory counter guard failed", err, infra.KindConflict)
	}
	return infra.WrapRepoErr(msg, err)
}

// classifyMiss distinguishes a missing row from a failed counter guard.
func (r *LedgerRepository) classifyMiss(ctx context.Context, cabinTypeID, voyageID uuid.UUID) error {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cabin_inventory WHERE cabin_type_id = $1 AND voyage_id = $2)`,
		cabinTypeID, voyageID,
	).Scan(&exists)
	if err != nil {
		return infra.WrapRepoErr("failed to inspect inventory row", err)
	}
	if !exists {
		return infra.WrapRepoErr("inventory row not found", nil, infra.KindNotFound)
	}
	return infra.WrapRepoErr("inventory counter guard failed", nil, infra.KindConflict)
}
