package jobs

import (
	"context"
	"log/slog"
	"time"

	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/usecase/commands"
)

const defaultSweepBatch = 100

// ExpirySweeper periodically reclaims expired holds and cancels unpaid
// orders past their deadline. Each tick delegates to the order commands;
// per-item failures are isolated there, so a bad row never wedges the loop.
type ExpirySweeper struct {
	orders    commands.OrderCommands
	interval  time.Duration
	batchSize int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewExpirySweeper(orders commands.OrderCommands, cfg config.BookingConfig) *ExpirySweeper {
	return &ExpirySweeper{
		orders:    orders,
		interval:  cfg.SweepInterval,
		batchSize: defaultSweepBatch,
	}
}

func (s *ExpirySweeper) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx)
	slog.Info("expiry sweeper started", "interval", s.interval)
}

func (s *ExpirySweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("expiry sweeper stopped")
}

func (s *ExpirySweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	result, err := s.orders.SweepExpired(ctx, s.batchSize)
	if err != nil {
		slog.Error("expiry sweep failed", "error", err)
		return
	}
	if result.OrdersExpired > 0 || result.HoldsReclaimed > 0 || result.PassengersOverdue > 0 {
		slog.Info("expiry sweep reclaimed",
			"orders_expired", result.OrdersExpired,
			"holds_reclaimed", result.HoldsReclaimed,
			"passengers_overdue", result.PassengersOverdue)
	}
}
