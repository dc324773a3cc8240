package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/pkg/clock"
	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const guardLockTTL = 5 * time.Second

// InsufficientInventoryError names the first line that could not be held so
// the API can point the caller at the offending cabin type.
type InsufficientInventoryError struct {
	CabinTypeID uuid.UUID
	VoyageID    uuid.UUID
	Requested   int
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for cabin type %s on voyage %s (requested %d)",
		e.CabinTypeID, e.VoyageID, e.Requested)
}

type ReservationCommands interface {
	// CreateHold claims every line or none. Lines are walked in canonical
	// order so concurrent multi-line holds cannot deadlock each other.
	CreateHold(ctx context.Context, orderID uuid.UUID, lines []inventory.HoldLine) (*inventory.HoldSet, error)
	ExtendHold(ctx context.Context, holdID uuid.UUID) error
	ConsumeHold(ctx context.Context, holdID uuid.UUID) error
	AbandonHold(ctx context.Context, holdID uuid.UUID) error
}

type reservationUseCaseImpl struct {
	uow     shared.UnitOfWork
	lock    GuardLock
	metrics Metrics
	clock   clock.Clock
	cfg     config.BookingConfig
}

func NewReservationUseCase(
	uow shared.UnitOfWork,
	lock GuardLock,
	metrics Metrics,
	clk clock.Clock,
	cfg config.BookingConfig,
) ReservationCommands {
	return &reservationUseCaseImpl{
		uow:     uow,
		lock:    lock,
		metrics: metrics,
		clock:   clk,
		cfg:     cfg,
	}
}

func (r *reservationUseCaseImpl) CreateHold(ctx context.Context, orderID uuid.UUID, lines []inventory.HoldLine) (*inventory.HoldSet, error) {
	now := r.clock.Now()
	hold, err := inventory.NewHoldSet(orderID, lines, now, r.cfg.HoldTTL)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	unlock, err := acquireGuards(ctx, r.lock, hold.Lines())
	if err != nil {
		return nil, err
	}
	defer unlock(ctx)

	err = r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := reserveLines(ctx, tx, hold.Lines()); err != nil {
			return err
		}
		return tx.Holds().Create(ctx, hold)
	})
	if err != nil {
		r.metrics.HoldRejected()
		return nil, err
	}

	r.metrics.HoldGranted(len(hold.Lines()))
	reportLowInventory(ctx, r.uow.Reads(), r.metrics, hold.Lines())
	return hold, nil
}

// reserveLines claims every line inside the surrounding transaction; the
// first shortfall aborts the whole claim via rollback.
func reserveLines(ctx context.Context, tx shared.Tx, lines []inventory.HoldLine) error {
	for _, l := range lines {
		if err := tx.Ledger().Reserve(ctx, l.CabinTypeID, l.VoyageID, l.Quantity); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				return errs.Mark(&InsufficientInventoryError{
					CabinTypeID: l.CabinTypeID,
					VoyageID:    l.VoyageID,
					Requested:   l.Quantity,
				}, errs.ErrInsufficientInventory)
			}
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrInventoryNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return nil
}

func (r *reservationUseCaseImpl) ExtendHold(ctx context.Context, holdID uuid.UUID) error {
	now := r.clock.Now()
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		hold, err := tx.Holds().FindByID(ctx, holdID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrHoldNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := hold.Extend(now, r.cfg.HoldTTL); err != nil {
			return markHoldError(err)
		}
		return tx.Holds().UpdateExpiry(ctx, holdID, hold.ExpiresAt())
	})
}

func (r *reservationUseCaseImpl) ConsumeHold(ctx context.Context, holdID uuid.UUID) error {
	now := r.clock.Now()
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		hold, err := tx.Holds().FindByID(ctx, holdID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrHoldNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		// The wall-clock check lives here, not in settleHold: a direct
		// caller cannot consume a lapsed claim, but a payment that already
		// won the order status race settles its hold regardless.
		if hold.IsActive() && hold.HasExpired(now) {
			return markHoldError(inventory.ErrHoldExpired)
		}
		return settleHold(ctx, tx, holdID)
	})
}

func (r *reservationUseCaseImpl) AbandonHold(ctx context.Context, holdID uuid.UUID) error {
	return r.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return releaseHold(ctx, tx, holdID)
	})
}

// settleHold consumes a hold and commits its lines sold. It does not look
// at the wall clock: whoever calls it has already won the order status CAS,
// so a still-active hold settles even past its TTL. The hold status CAS is
// what makes retries idempotent: only the transition that actually flips
// active to consumed touches the ledger.
func settleHold(ctx context.Context, tx shared.Tx, holdID uuid.UUID) error {
	hold, err := tx.Holds().FindByID(ctx, holdID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrHoldNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if hold.Status() == inventory.HoldStatusConsumed {
		return nil
	}
	if err := hold.Settle(); err != nil {
		return markHoldError(err)
	}

	flipped, err := tx.Holds().UpdateStatus(ctx, holdID, inventory.HoldStatusActive, inventory.HoldStatusConsumed)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !flipped {
		return nil
	}

	for _, l := range hold.Lines() {
		if err := tx.Ledger().Commit(ctx, l.CabinTypeID, l.VoyageID, l.Quantity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return nil
}

// releaseHold abandons a hold and returns its lines to availability, with
// the same CAS idempotency as settleHold.
func releaseHold(ctx context.Context, tx shared.Tx, holdID uuid.UUID) error {
	hold, err := tx.Holds().FindByID(ctx, holdID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.ErrHoldNotFound
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if hold.Status() == inventory.HoldStatusAbandoned {
		return nil
	}
	if err := hold.Abandon(); err != nil {
		return markHoldError(err)
	}

	flipped, err := tx.Holds().UpdateStatus(ctx, holdID, inventory.HoldStatusActive, inventory.HoldStatusAbandoned)
	if err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !flipped {
		return nil
	}

	for _, l := range hold.Lines() {
		if err := tx.Ledger().Release(ctx, l.CabinTypeID, l.VoyageID, l.Quantity); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
	}
	return nil
}

func markHoldError(err error) error {
	switch {
	case errors.Is(err, inventory.ErrHoldExpired):
		return errs.Mark(err, errs.ErrHoldExpired)
	case errors.Is(err, inventory.ErrHoldNotActive):
		return errs.Mark(err, errs.ErrHoldConsumed)
	default:
		return errs.Mark(err, errs.ErrValidation)
	}
}

// acquireGuards takes the per-line redis locks in canonical line order and
// returns a single release covering all of them.
func acquireGuards(ctx context.Context, lock GuardLock, lines []inventory.HoldLine) (func(ctx context.Context), error) {
	unlocks := make([]func(ctx context.Context) error, 0, len(lines))
	release := func(ctx context.Context) {
		for i := len(unlocks) - 1; i >= 0; i-- {
			if err := unlocks[i](ctx); err != nil {
				slog.Warn("failed to release inventory guard lock", "error", err)
			}
		}
	}

	for _, l := range lines {
		key := fmt.Sprintf("inventory:lock:%s:%s", l.VoyageID, l.CabinTypeID)
		unlock, err := lock.Lock(ctx, key, guardLockTTL)
		if err != nil {
			release(ctx)
			return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		unlocks = append(unlocks, unlock)
	}
	return release, nil
}

func reportLowInventory(ctx context.Context, reads shared.CommandReads, metrics Metrics, lines []inventory.HoldLine) {
	for _, l := range lines {
		row, err := reads.LedgerRow(ctx, l.CabinTypeID, l.VoyageID)
		if err != nil {
			continue
		}
		if row.AlertThreshold > 0 && row.Available <= row.AlertThreshold {
			slog.Warn("inventory below alert threshold",
				"cabin_type_id", row.CabinTypeID,
				"voyage_id", row.VoyageID,
				"available", row.Available)
			metrics.LowInventory(row.CabinTypeID, row.Available)
		}
	}
}
