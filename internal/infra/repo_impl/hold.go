package repo_impl

import (
	"context"
	"time"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"

	"github.com/google/uuid"
)

type HoldRepository struct {
	db db.DBTX
}

func NewHoldRepository(dbtx db.DBTX) *HoldRepository {
	return &HoldRepository{db: dbtx}
}

func (r *HoldRepository) Create(ctx context.Context, hold *inventory.HoldSet) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO holds (id, order_id, status, expires_at, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		hold.ID(), hold.OrderID(), hold.Status().String(), hold.ExpiresAt(), hold.CreatedAt(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("hold already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create hold", err)
	}

	for _, l := range hold.Lines() {
		_, err := r.db.Exec(ctx,
			`INSERT INTO hold_lines (hold_id, cabin_type_id, voyage_id, quantity)
			 VALUES ($1, $2, $3, $4)`,
			hold.ID(), l.CabinTypeID, l.VoyageID, l.Quantity,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create hold line", err)
		}
	}
	return nil
}

func (r *HoldRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.HoldSet, error) {
	var (
		orderID   uuid.UUID
		status    string
		expiresAt time.Time
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT order_id, status, expires_at, created_at FROM holds WHERE id = $1`,
		id,
	).Scan(&orderID, &status, &expiresAt, &createdAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("hold not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find hold", err)
	}

	lines, err := r.findLines(ctx, id)
	if err != nil {
		return nil, err
	}

	return inventory.ReconstructHoldSet(id, orderID, lines, inventory.HoldStatus(status), expiresAt, createdAt), nil
}

func (r *HoldRepository) findLines(ctx context.Context, holdID uuid.UUID) ([]inventory.HoldLine, error) {
	rows, err := r.db.Query(ctx,
		`SELECT cabin_type_id, voyage_id, quantity
		 FROM hold_lines
		 WHERE hold_id = $1
		 ORDER BY cabin_type_id, voyage_id`,
		holdID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find hold lines", err)
	}
	defer rows.Close()

	var lines []inventory.HoldLine
	for rows.Next() {
		var l inventory.HoldLine
		if err := rows.Scan(&l.CabinTypeID, &l.VoyageID, &l.Quantity); err != nil {
			return nil, infra.WrapRepoErr("failed to scan hold line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate hold lines", err)
	}
	return lines, nil
}

func (r *HoldRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to inventory.HoldStatus) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE holds SET status = $3 WHERE id = $1 AND status = $2`,
		id, from.String(), to.String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update hold status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *HoldRepository) UpdateExpiry(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE holds SET expires_at = $2 WHERE id = $1 AND status = 'active'`,
		id, expiresAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update hold expiry", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("hold is not active", nil, infra.KindConflict)
	}
	return nil
}

func (r *HoldRepository) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*inventory.HoldSet, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id FROM holds
		 WHERE status = 'active' AND expires_at < $1
		 ORDER BY expires_at
		 LIMIT $2`,
		now, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find expired holds", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan expired hold", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate expired holds", err)
	}

	holds := make([]*inventory.HoldSet, 0, len(ids))
	for _, id := range ids {
		hold, err := r.FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				continue
			}
			return nil, err
		}
		holds = append(holds, hold)
	}
	return holds, nil
}
