package commands

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/internal/domain/order"
	"cruise-booking/internal/domain/pricing"
	reqdto "cruise-booking/internal/handler/dto/request"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/pkg/clock"
	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const sweepWorkers = 4

type SweepResult struct {
	OrdersExpired     int
	HoldsReclaimed    int
	PassengersOverdue int
}

type OrderCommands interface {
	// CreateOrder prices the request, claims inventory and persists the
	// order in one transaction. The order starts in pending_payment with a
	// TTL-bounded hold behind it.
	CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, userID *uuid.UUID) (*order.Order, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error
	SubmitPassengers(ctx context.Context, orderID uuid.UUID, req reqdto.SubmitPassengersRequest) error
	RequestRefund(ctx context.Context, orderID uuid.UUID, reason string) error
	ProcessRefund(ctx context.Context, orderID uuid.UUID) error
	CompleteRefund(ctx context.Context, orderID uuid.UUID) error
	// SweepExpired reclaims expired unpaid orders and orphaned holds. Each
	// item runs in its own transaction so one failure never stalls the rest.
	SweepExpired(ctx context.Context, batchSize int) (*SweepResult, error)
}

type orderUseCaseImpl struct {
	uow       shared.UnitOfWork
	lock      GuardLock
	publisher EventPublisher
	metrics   Metrics
	clock     clock.Clock
	cfg       config.BookingConfig
}

func NewOrderUseCase(
	uow shared.UnitOfWork,
	lock GuardLock,
	publisher EventPublisher,
	metrics Metrics,
	clk clock.Clock,
	cfg config.BookingConfig,
) OrderCommands {
	return &orderUseCaseImpl{
		uow:       uow,
		lock:      lock,
		publisher: publisher,
		metrics:   metrics,
		clock:     clk,
		cfg:       cfg,
	}
}

func (u *orderUseCaseImpl) CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, userID *uuid.UUID) (*order.Order, error) {
	now := u.clock.Now()

	voyage, err := u.uow.Reads().VoyageByID(ctx, req.VoyageID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrVoyageNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !voyage.IsOpen() {
		return nil, errs.ErrVoyageNotOpen
	}

	items, lines, totalCents, err := u.priceItems(ctx, req)
	if err != nil {
		return nil, err
	}

	o, err := order.NewOrder(
		userID, voyage.CruiseID, voyage.ID, uuid.Nil,
		items, nil, req.Contact(),
		totalCents, 0, now, u.cfg.HoldTTL,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	hold, err := inventory.NewHoldSet(o.ID(), lines, now, u.cfg.HoldTTL)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}
	o.AttachHold(hold.ID())

	if len(req.Passengers) > 0 {
		passengers, convErr := assignPassengers(req.Passengers, items)
		if convErr != nil {
			return nil, convErr
		}
		o.AttachPassengers(passengers)
	}

	unlock, err := acquireGuards(ctx, u.lock, hold.Lines())
	if err != nil {
		return nil, err
	}
	defer unlock(ctx)

	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := reserveLines(ctx, tx, hold.Lines()); err != nil {
			return err
		}
		if err := tx.Holds().Create(ctx, hold); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := tx.Orders().Create(ctx, o); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		u.metrics.HoldRejected()
		return nil, err
	}

	u.metrics.HoldGranted(len(hold.Lines()))
	reportLowInventory(ctx, u.uow.Reads(), u.metrics, hold.Lines())
	u.publishOrderEvent(ctx, TopicOrderCreated, o)
	return o, nil
}

func (u *orderUseCaseImpl) priceItems(ctx context.Context, req reqdto.CreateOrderRequest) ([]order.Item, []inventory.HoldLine, int64, error) {
	items := make([]order.Item, 0, len(req.Items))
	lines := make([]inventory.HoldLine, 0, len(req.Items))
	var totalCents int64

	for _, it := range req.Items {
		price, err := u.uow.Reads().PriceBy(ctx, it.CabinTypeID, req.VoyageID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, nil, 0, errs.ErrPriceNotFound
			}
			return nil, nil, 0, errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		subtotal, err := pricing.LineSubtotal(pricing.LineInput{
			Price:    price.Price,
			Adults:   it.AdultCount,
			Children: it.ChildCount,
			Infants:  it.InfantCount,
		}, price.Adjustment())
		if err != nil {
			return nil, nil, 0, errs.Mark(err, errs.ErrValidation)
		}

		items = append(items, order.Item{
			ID:            uuid.New(),
			CabinTypeID:   it.CabinTypeID,
			VoyageID:      req.VoyageID,
			Quantity:      it.Quantity,
			AdultCount:    it.AdultCount,
			ChildCount:    it.ChildCount,
			InfantCount:   it.InfantCount,
			SubtotalCents: subtotal,
		})
		lines = append(lines, inventory.HoldLine{
			CabinTypeID: it.CabinTypeID,
			VoyageID:    req.VoyageID,
			Quantity:    it.Quantity,
		})
		totalCents += subtotal
	}
	return items, lines, totalCents, nil
}

// assignPassengers distributes request passengers over item slots in item
// order. The count must fill every slot exactly.
func assignPassengers(reqs []reqdto.PassengerRequest, items []order.Item) ([]order.Passenger, error) {
	slots := 0
	for _, it := range items {
		slots += it.PassengerSlots()
	}
	if len(reqs) != slots {
		return nil, errs.Mark(
			errs.New("passenger count does not match item slots"),
			errs.ErrValidation,
		)
	}

	passengers := make([]order.Passenger, 0, len(reqs))
	idx := 0
	for _, it := range items {
		for s := 0; s < it.PassengerSlots(); s++ {
			passengers = append(passengers, reqs[idx].ToDomain(it.ID))
			idx++
		}
	}
	return passengers, nil
}

func (u *orderUseCaseImpl) CancelOrder(ctx context.Context, orderID uuid.UUID, reason string) error {
	var cancelled *order.Order
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := findOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		from := o.Status()
		if err := o.Cancel(reason); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		ok, err := tx.Orders().MarkCancelled(ctx, orderID, from, reason)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrInvalidStateTransition
		}

		// Unpaid cancellations free the hold; a paid cancel keeps the
		// cabins sold per refund policy.
		if from == order.StatusCreated || from == order.StatusPendingPayment {
			if err := releaseHold(ctx, tx, o.HoldSetID()); err != nil {
				return err
			}
		}
		cancelled = o
		return nil
	})
	if err != nil {
		return err
	}

	u.publishOrderEvent(ctx, TopicOrderCancelled, cancelled)
	return nil
}

func (u *orderUseCaseImpl) SubmitPassengers(ctx context.Context, orderID uuid.UUID, req reqdto.SubmitPassengersRequest) error {
	now := u.clock.Now()
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := findOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status().IsTerminal() {
			return errs.ErrInvalidStateTransition
		}

		passengers, err := assignPassengers(req.Passengers, o.Items())
		if err != nil {
			return err
		}
		o.AttachPassengers(passengers)

		if err := tx.Orders().ReplacePassengers(ctx, orderID, passengers); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if o.Status() == order.StatusPaid && o.PassengersComplete() {
			if _, err := tx.Orders().MarkConfirmed(ctx, orderID, now); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}
		return nil
	})
}

func (u *orderUseCaseImpl) RequestRefund(ctx context.Context, orderID uuid.UUID, reason string) error {
	now := u.clock.Now()
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := findOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		departure := time.Time{}
		if voyage, vErr := u.uow.Reads().VoyageByID(ctx, o.VoyageID()); vErr == nil {
			departure = voyage.DepartureAt
		}

		from := o.Status()
		if err := o.RequestRefund(reason, departure, now); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		ok, err := tx.Orders().SetRefundStatus(ctx, orderID, from, order.StatusRefundRequested, reason, nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrInvalidStateTransition
		}
		return nil
	})
}

func (u *orderUseCaseImpl) ProcessRefund(ctx context.Context, orderID uuid.UUID) error {
	return u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := findOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := o.ProcessRefund(); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}
		ok, err := tx.Orders().SetRefundStatus(ctx, orderID, order.StatusRefundRequested, order.StatusRefundProcessing, o.RefundReason(), nil)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrInvalidStateTransition
		}
		return nil
	})
}

func (u *orderUseCaseImpl) CompleteRefund(ctx context.Context, orderID uuid.UUID) error {
	now := u.clock.Now()
	var refunded *order.Order
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := findOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if err := o.CompleteRefund(now); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}
		ok, err := tx.Orders().SetRefundStatus(ctx, orderID, order.StatusRefundProcessing, order.StatusRefunded, o.RefundReason(), &now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrInvalidStateTransition
		}

		p, err := tx.Payments().FindLatestByOrderID(ctx, orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				refunded = o
				return nil
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if _, err := tx.Payments().MarkRefunded(ctx, p.PaymentNo(), now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		refunded = o
		return nil
	})
	if err != nil {
		return err
	}

	u.publishOrderEvent(ctx, TopicOrderRefunded, refunded)
	return nil
}

func (u *orderUseCaseImpl) SweepExpired(ctx context.Context, batchSize int) (*SweepResult, error) {
	now := u.clock.Now()
	result := &SweepResult{}

	var expiredOrders []*order.Order
	var expiredHolds []*inventory.HoldSet
	var overdue []*order.Order
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		if expiredOrders, err = tx.Orders().FindExpiredUnpaid(ctx, now, batchSize); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if expiredHolds, err = tx.Holds().FindExpiredActive(ctx, now, batchSize); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		cutoff := now.Add(-u.cfg.PassengerDeadline)
		if overdue, err = tx.Orders().FindPassengerOverdue(ctx, cutoff, batchSize); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Paid orders with a stale incomplete manifest are surfaced, never
	// cancelled: the customer has paid and operations chases the records.
	for _, o := range overdue {
		slog.Warn("paid order past passenger deadline",
			"order_no", o.OrderNo(),
			"order_id", o.ID(),
			"paid_at", o.PaidAt())
	}

	var ordersExpired, holdsReclaimed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sweepWorkers)
	for _, o := range expiredOrders {
		g.Go(func() error {
			if u.expireOne(gctx, o) {
				ordersExpired.Add(1)
				holdsReclaimed.Add(1)
			}
			return nil
		})
	}
	// Holds already covered by an expiring order are settled there; the
	// rest (abandoned drafts) are reclaimed directly.
	covered := make(map[uuid.UUID]struct{}, len(expiredOrders))
	for _, o := range expiredOrders {
		covered[o.HoldSetID()] = struct{}{}
	}
	for _, h := range expiredHolds {
		if _, ok := covered[h.ID()]; ok {
			continue
		}
		g.Go(func() error {
			if u.reclaimOne(gctx, h) {
				holdsReclaimed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	result.OrdersExpired = int(ordersExpired.Load())
	result.HoldsReclaimed = int(holdsReclaimed.Load())
	result.PassengersOverdue = len(overdue)
	u.metrics.OrdersExpired(result.OrdersExpired)
	u.metrics.HoldsReclaimed(result.HoldsReclaimed)
	u.metrics.PassengersOverdue(result.PassengersOverdue)
	return result, nil
}

// expireOne cancels one overdue order and frees its hold. The status CAS is
// the arbiter of the expiry/payment race: if a callback marked the order
// paid first, the CAS fails and the sweep leaves it alone.
func (u *orderUseCaseImpl) expireOne(ctx context.Context, stale *order.Order) bool {
	var expired *order.Order
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := findOrder(ctx, tx, stale.ID())
		if err != nil {
			return err
		}
		if err := o.Expire(u.clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		ok, err := tx.Orders().MarkCancelled(ctx, o.ID(), stale.Status(), "expired")
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrInvalidStateTransition
		}
		if err := releaseHold(ctx, tx, o.HoldSetID()); err != nil {
			return err
		}
		expired = o
		return nil
	})
	if err != nil {
		slog.Warn("failed to expire order", "order_id", stale.ID(), "error", err)
		return false
	}

	u.publishOrderEvent(ctx, TopicOrderCancelled, expired)
	return true
}

func (u *orderUseCaseImpl) reclaimOne(ctx context.Context, hold *inventory.HoldSet) bool {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return releaseHold(ctx, tx, hold.ID())
	})
	if err != nil {
		slog.Warn("failed to reclaim expired hold", "hold_id", hold.ID(), "error", err)
		return false
	}
	return true
}

func findOrder(ctx context.Context, tx shared.Tx, orderID uuid.UUID) (*order.Order, error) {
	o, err := tx.Orders().FindByID(ctx, orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return o, nil
}

func (u *orderUseCaseImpl) publishOrderEvent(ctx context.Context, topic string, o *order.Order) {
	if u.publisher == nil || o == nil {
		return
	}
	event := OrderEvent{
		OrderID:    o.ID(),
		OrderNo:    o.OrderNo(),
		VoyageID:   o.VoyageID(),
		Status:     o.Status().String(),
		TotalCents: o.TotalCents(),
		OccurredAt: u.clock.Now(),
	}
	if err := u.publisher.Publish(ctx, topic, o.OrderNo(), event); err != nil {
		slog.Warn("failed to publish order event", "topic", topic, "order_no", o.OrderNo(), "error", err)
	}
}
