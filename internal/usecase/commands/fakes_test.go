//go:build unit

package commands_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/internal/domain/order"
	"cruise-booking/internal/domain/payment"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/usecase/commands"
	"cruise-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// The fakes model the database as row maps guarded by one mutex. Within
// snapshots the whole store before running fn and restores it when fn
// fails, which reproduces the all-or-nothing transaction semantics the
// commands rely on.

var errNoRows = errors.New("no rows in result set")

type ledgerKey struct {
	cabinTypeID uuid.UUID
	voyageID    uuid.UUID
}

type ledgerRow struct {
	total          int
	sold           int
	locked         int
	available      int
	alertThreshold int
}

type holdRow struct {
	orderID   uuid.UUID
	lines     []inventory.HoldLine
	status    inventory.HoldStatus
	expiresAt time.Time
	createdAt time.Time
}

type orderRow struct {
	orderNo       string
	userID        *uuid.UUID
	cruiseID      uuid.UUID
	voyageID      uuid.UUID
	holdSetID     uuid.UUID
	status        order.Status
	totalCents    int64
	discountCents int64
	paidCents     int64
	contact       order.Contact
	items         []order.Item
	passengers    []order.Passenger
	expireAt      time.Time
	paidAt        *time.Time
	confirmedAt   *time.Time
	cancelReason  string
	refundReason  string
	refundedAt    *time.Time
	createdAt     time.Time
}

type paymentRow struct {
	id            uuid.UUID
	orderID       uuid.UUID
	orderNo       string
	amountCents   int64
	method        payment.Method
	status        payment.Status
	transactionID string
	failureReason string
	paidAt        *time.Time
	refundedAt    *time.Time
	createdAt     time.Time
}

type fakeStore struct {
	mu       sync.Mutex
	ledger   map[ledgerKey]*ledgerRow
	holds    map[uuid.UUID]*holdRow
	orders   map[uuid.UUID]*orderRow
	payments map[string]*paymentRow
	voyages  map[uuid.UUID]shared.VoyageSnapshot
	prices   map[ledgerKey]shared.CabinPriceSnapshot
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		ledger:   make(map[ledgerKey]*ledgerRow),
		holds:    make(map[uuid.UUID]*holdRow),
		orders:   make(map[uuid.UUID]*orderRow),
		payments: make(map[string]*paymentRow),
		voyages:  make(map[uuid.UUID]shared.VoyageSnapshot),
		prices:   make(map[ledgerKey]shared.CabinPriceSnapshot),
	}
}

func (s *fakeStore) seedVoyage(v shared.VoyageSnapshot) {
	s.voyages[v.ID] = v
}

func (s *fakeStore) seedPrice(p shared.CabinPriceSnapshot) {
	s.prices[ledgerKey{p.CabinTypeID, p.VoyageID}] = p
}

func (s *fakeStore) seedLedger(cabinTypeID, voyageID uuid.UUID, total, sold, locked, alertThreshold int) {
	s.ledger[ledgerKey{cabinTypeID, voyageID}] = &ledgerRow{
		total:          total,
		sold:           sold,
		locked:         locked,
		available:      total - sold - locked,
		alertThreshold: alertThreshold,
	}
}

func (s *fakeStore) ledgerRow(cabinTypeID, voyageID uuid.UUID) ledgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.ledger[ledgerKey{cabinTypeID, voyageID}]
}

func (s *fakeStore) holdStatus(id uuid.UUID) inventory.HoldStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holds[id].status
}

func (s *fakeStore) orderStatus(id uuid.UUID) order.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.orders[id].status
}

func (s *fakeStore) paymentStatus(paymentNo string) payment.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.payments[paymentNo].status
}

func (s *fakeStore) snapshot() *fakeStore {
	cp := newFakeStore()
	for k, v := range s.ledger {
		row := *v
		cp.ledger[k] = &row
	}
	for k, v := range s.holds {
		row := *v
		row.lines = append([]inventory.HoldLine(nil), v.lines...)
		cp.holds[k] = &row
	}
	for k, v := range s.orders {
		row := *v
		row.items = append([]order.Item(nil), v.items...)
		row.passengers = append([]order.Passenger(nil), v.passengers...)
		cp.orders[k] = &row
	}
	for k, v := range s.payments {
		row := *v
		cp.payments[k] = &row
	}
	return cp
}

// restore drops everything a failed transaction wrote. The catalog maps
// (voyages, prices) are seed data no transaction mutates, so they are left
// alone.
func (s *fakeStore) restore(snap *fakeStore) {
	s.ledger = snap.ledger
	s.holds = snap.holds
	s.orders = snap.orders
	s.payments = snap.payments
}

// fakeUoW implements shared.UnitOfWork over the store.
type fakeUoW struct {
	store *fakeStore
}

func newFakeUoW(store *fakeStore) *fakeUoW {
	return &fakeUoW{store: store}
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	snap := u.store.snapshot()
	if err := fn(ctx, &fakeTx{store: u.store}); err != nil {
		u.store.restore(snap)
		return err
	}
	return nil
}

func (u *fakeUoW) Reads() shared.CommandReads {
	return &fakeReads{store: u.store}
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Ledger() shared.LedgerRepository    { return &fakeLedgerRepo{store: t.store} }
func (t *fakeTx) Holds() shared.HoldRepository       { return &fakeHoldRepo{store: t.store} }
func (t *fakeTx) Orders() shared.OrderRepository     { return &fakeOrderRepo{store: t.store} }
func (t *fakeTx) Payments() shared.PaymentRepository { return &fakePaymentRepo{store: t.store} }

type fakeReads struct {
	store *fakeStore
}

// Catalog lookups read seed data that is immutable once a test starts, so
// they skip the store mutex. That keeps them callable both inside and
// outside Within.
func (r *fakeReads) VoyageByID(_ context.Context, id uuid.UUID) (*shared.VoyageSnapshot, error) {
	v, ok := r.store.voyages[id]
	if !ok {
		return nil, infra.WrapRepoErr("voyage not found", errNoRows, infra.KindNotFound)
	}
	return &v, nil
}

func (r *fakeReads) PriceBy(_ context.Context, cabinTypeID, voyageID uuid.UUID) (*shared.CabinPriceSnapshot, error) {
	p, ok := r.store.prices[ledgerKey{cabinTypeID, voyageID}]
	if !ok {
		return nil, infra.WrapRepoErr("price not found", errNoRows, infra.KindNotFound)
	}
	return &p, nil
}

func (r *fakeReads) LedgerRow(_ context.Context, cabinTypeID, voyageID uuid.UUID) (*shared.LedgerSnapshot, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	row, ok := r.store.ledger[ledgerKey{cabinTypeID, voyageID}]
	if !ok {
		return nil, infra.WrapRepoErr("inventory row not found", errNoRows, infra.KindNotFound)
	}
	return &shared.LedgerSnapshot{
		CabinTypeID:    cabinTypeID,
		VoyageID:       voyageID,
		Total:          row.total,
		Sold:           row.sold,
		Locked:         row.locked,
		Available:      row.available,
		AlertThreshold: row.alertThreshold,
	}, nil
}

type fakeLedgerRepo struct {
	store *fakeStore
}

func (r *fakeLedgerRepo) Reserve(_ context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error {
	row, ok := r.store.ledger[ledgerKey{cabinTypeID, voyageID}]
	if !ok {
		return infra.WrapRepoErr("inventory row not found", errNoRows, infra.KindNotFound)
	}
	if row.available < quantity {
		return infra.WrapRepoErr("insufficient availability", errNoRows, infra.KindConflict)
	}
	row.available -= quantity
	row.locked += quantity
	return nil
}

func (r *fakeLedgerRepo) Commit(_ context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error {
	row, ok := r.store.ledger[ledgerKey{cabinTypeID, voyageID}]
	if !ok {
		return infra.WrapRepoErr("inventory row not found", errNoRows, infra.KindNotFound)
	}
	if row.locked < quantity {
		return infra.WrapRepoErr("locked underflow", errNoRows, infra.KindConflict)
	}
	row.locked -= quantity
	row.sold += quantity
	return nil
}

func (r *fakeLedgerRepo) Release(_ context.Context, cabinTypeID, voyageID uuid.UUID, quantity int) error {
	row, ok := r.store.ledger[ledgerKey{cabinTypeID, voyageID}]
	if !ok {
		return infra.WrapRepoErr("inventory row not found", errNoRows, infra.KindNotFound)
	}
	if row.locked < quantity {
		return infra.WrapRepoErr("locked underflow", errNoRows, infra.KindConflict)
	}
	row.locked -= quantity
	row.available += quantity
	return nil
}

type fakeHoldRepo struct {
	store *fakeStore
}

func (r *fakeHoldRepo) Create(_ context.Context, hold *inventory.HoldSet) error {
	if _, exists := r.store.holds[hold.ID()]; exists {
		return infra.WrapRepoErr("hold already exists", errNoRows, infra.KindDuplicateKey)
	}
	r.store.holds[hold.ID()] = &holdRow{
		orderID:   hold.OrderID(),
		lines:     append([]inventory.HoldLine(nil), hold.Lines()...),
		status:    hold.Status(),
		expiresAt: hold.ExpiresAt(),
		createdAt: hold.CreatedAt(),
	}
	return nil
}

func (r *fakeHoldRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.HoldSet, error) {
	row, ok := r.store.holds[id]
	if !ok {
		return nil, infra.WrapRepoErr("hold not found", errNoRows, infra.KindNotFound)
	}
	return inventory.ReconstructHoldSet(
		id, row.orderID,
		append([]inventory.HoldLine(nil), row.lines...),
		row.status, row.expiresAt, row.createdAt,
	), nil
}

func (r *fakeHoldRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to inventory.HoldStatus) (bool, error) {
	row, ok := r.store.holds[id]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = to
	return true, nil
}

func (r *fakeHoldRepo) UpdateExpiry(_ context.Context, id uuid.UUID, expiresAt time.Time) error {
	row, ok := r.store.holds[id]
	if !ok || row.status != inventory.HoldStatusActive {
		return infra.WrapRepoErr("hold is not active", errNoRows, infra.KindConflict)
	}
	row.expiresAt = expiresAt
	return nil
}

func (r *fakeHoldRepo) FindExpiredActive(ctx context.Context, now time.Time, limit int) ([]*inventory.HoldSet, error) {
	var result []*inventory.HoldSet
	for id, row := range r.store.holds {
		if row.status == inventory.HoldStatusActive && row.expiresAt.Before(now) {
			h, err := r.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			result = append(result, h)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

type fakeOrderRepo struct {
	store *fakeStore
}

func (r *fakeOrderRepo) Create(_ context.Context, o *order.Order) error {
	if _, exists := r.store.orders[o.ID()]; exists {
		return infra.WrapRepoErr("order already exists", errNoRows, infra.KindDuplicateKey)
	}
	r.store.orders[o.ID()] = &orderRow{
		orderNo:       o.OrderNo(),
		userID:        o.UserID(),
		cruiseID:      o.CruiseID(),
		voyageID:      o.VoyageID(),
		holdSetID:     o.HoldSetID(),
		status:        o.Status(),
		totalCents:    o.TotalCents(),
		discountCents: o.DiscountCents(),
		paidCents:     o.PaidCents(),
		contact:       o.Contact(),
		items:         append([]order.Item(nil), o.Items()...),
		passengers:    append([]order.Passenger(nil), o.Passengers()...),
		expireAt:      o.ExpireAt(),
		createdAt:     o.CreatedAt(),
	}
	return nil
}

func (r *fakeOrderRepo) reconstruct(id uuid.UUID, row *orderRow) *order.Order {
	return order.ReconstructOrder(
		id, row.orderNo, row.userID,
		row.cruiseID, row.voyageID, row.holdSetID,
		row.status,
		row.totalCents, row.discountCents, row.paidCents,
		row.contact,
		append([]order.Item(nil), row.items...),
		append([]order.Passenger(nil), row.passengers...),
		row.expireAt,
		row.paidAt, row.confirmedAt,
		row.cancelReason, row.refundReason,
		row.refundedAt,
		row.createdAt, row.createdAt,
	)
}

func (r *fakeOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*order.Order, error) {
	row, ok := r.store.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", errNoRows, infra.KindNotFound)
	}
	return r.reconstruct(id, row), nil
}

func (r *fakeOrderRepo) FindByOrderNo(_ context.Context, orderNo string) (*order.Order, error) {
	for id, row := range r.store.orders {
		if row.orderNo == orderNo {
			return r.reconstruct(id, row), nil
		}
	}
	return nil, infra.WrapRepoErr("order not found", errNoRows, infra.KindNotFound)
}

func (r *fakeOrderRepo) MarkPaid(_ context.Context, id uuid.UUID, paidCents int64, paidAt time.Time) (bool, error) {
	row, ok := r.store.orders[id]
	if !ok || row.status != order.StatusPendingPayment {
		return false, nil
	}
	row.status = order.StatusPaid
	row.paidCents = paidCents
	at := paidAt
	row.paidAt = &at
	return true, nil
}

func (r *fakeOrderRepo) MarkConfirmed(_ context.Context, id uuid.UUID, confirmedAt time.Time) (bool, error) {
	row, ok := r.store.orders[id]
	if !ok || row.status != order.StatusPaid {
		return false, nil
	}
	row.status = order.StatusConfirmed
	at := confirmedAt
	row.confirmedAt = &at
	return true, nil
}

func (r *fakeOrderRepo) MarkCancelled(_ context.Context, id uuid.UUID, from order.Status, reason string) (bool, error) {
	row, ok := r.store.orders[id]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = order.StatusCancelled
	row.cancelReason = reason
	return true, nil
}

func (r *fakeOrderRepo) SetRefundStatus(_ context.Context, id uuid.UUID, from, to order.Status, reason string, refundedAt *time.Time) (bool, error) {
	row, ok := r.store.orders[id]
	if !ok || row.status != from {
		return false, nil
	}
	row.status = to
	row.refundReason = reason
	if refundedAt != nil {
		at := *refundedAt
		row.refundedAt = &at
	}
	return true, nil
}

func (r *fakeOrderRepo) ReplacePassengers(_ context.Context, orderID uuid.UUID, passengers []order.Passenger) error {
	row, ok := r.store.orders[orderID]
	if !ok {
		return infra.WrapRepoErr("order not found", errNoRows, infra.KindNotFound)
	}
	row.passengers = append([]order.Passenger(nil), passengers...)
	return nil
}

func (r *fakeOrderRepo) FindExpiredUnpaid(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	var result []*order.Order
	for id, row := range r.store.orders {
		unpaid := row.status == order.StatusCreated || row.status == order.StatusPendingPayment
		if unpaid && row.expireAt.Before(now) {
			o, err := r.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			result = append(result, o)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (r *fakeOrderRepo) FindPassengerOverdue(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	var result []*order.Order
	for id, row := range r.store.orders {
		if row.status != order.StatusPaid || row.paidAt == nil || !row.paidAt.Before(cutoff) {
			continue
		}
		o, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if o.PassengersComplete() {
			continue
		}
		result = append(result, o)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

type fakePaymentRepo struct {
	store *fakeStore
}

func (r *fakePaymentRepo) Create(_ context.Context, p *payment.Payment) error {
	if _, exists := r.store.payments[p.PaymentNo()]; exists {
		return infra.WrapRepoErr("payment already exists", errNoRows, infra.KindDuplicateKey)
	}
	r.store.payments[p.PaymentNo()] = &paymentRow{
		id:          p.ID(),
		orderID:     p.OrderID(),
		orderNo:     p.OrderNo(),
		amountCents: p.AmountCents(),
		method:      p.Method(),
		status:      p.Status(),
		createdAt:   p.CreatedAt(),
	}
	return nil
}

func (r *fakePaymentRepo) reconstruct(paymentNo string, row *paymentRow) *payment.Payment {
	return payment.ReconstructPayment(
		row.id, paymentNo, row.orderID, row.orderNo,
		row.amountCents, row.method, row.status,
		row.transactionID, row.failureReason,
		row.paidAt, row.refundedAt,
		row.createdAt, row.createdAt,
	)
}

func (r *fakePaymentRepo) FindByPaymentNo(_ context.Context, paymentNo string) (*payment.Payment, error) {
	row, ok := r.store.payments[paymentNo]
	if !ok {
		return nil, infra.WrapRepoErr("payment not found", errNoRows, infra.KindNotFound)
	}
	return r.reconstruct(paymentNo, row), nil
}

func (r *fakePaymentRepo) FindLatestByOrderID(_ context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	var latestNo string
	var latest *paymentRow
	for no, row := range r.store.payments {
		if row.orderID != orderID {
			continue
		}
		if latest == nil || row.createdAt.After(latest.createdAt) {
			latestNo, latest = no, row
		}
	}
	if latest == nil {
		return nil, infra.WrapRepoErr("payment not found", errNoRows, infra.KindNotFound)
	}
	return r.reconstruct(latestNo, latest), nil
}

func (r *fakePaymentRepo) Settle(_ context.Context, paymentNo, transactionID string, paidAt time.Time) (bool, error) {
	row, ok := r.store.payments[paymentNo]
	if !ok || (row.status != payment.StatusPending && row.status != payment.StatusProcessing) {
		return false, nil
	}
	row.status = payment.StatusSuccess
	row.transactionID = transactionID
	at := paidAt
	row.paidAt = &at
	return true, nil
}

func (r *fakePaymentRepo) MarkFailed(_ context.Context, paymentNo, reason string) (bool, error) {
	row, ok := r.store.payments[paymentNo]
	if !ok || (row.status != payment.StatusPending && row.status != payment.StatusProcessing) {
		return false, nil
	}
	row.status = payment.StatusFailed
	row.failureReason = reason
	return true, nil
}

func (r *fakePaymentRepo) MarkRefunded(_ context.Context, paymentNo string, refundedAt time.Time) (bool, error) {
	row, ok := r.store.payments[paymentNo]
	if !ok || row.status != payment.StatusSuccess {
		return false, nil
	}
	row.status = payment.StatusRefunded
	at := refundedAt
	row.refundedAt = &at
	return true, nil
}

// nopLock stands in for the redis guard; the store mutex already
// serializes transactions.
type nopLock struct{}

func (nopLock) Lock(context.Context, string, time.Duration) (func(ctx context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}

// nopMetrics discards counter updates.
type nopMetrics struct{}

func (nopMetrics) HoldGranted(int)             {}
func (nopMetrics) HoldRejected()               {}
func (nopMetrics) OrdersExpired(int)           {}
func (nopMetrics) HoldsReclaimed(int)          {}
func (nopMetrics) PassengersOverdue(int)       {}
func (nopMetrics) PaymentSettled()             {}
func (nopMetrics) PaymentDuplicate()           {}
func (nopMetrics) LowInventory(uuid.UUID, int) {}

// recordingPublisher captures emitted events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic, _ string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingPublisher) published(topic string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, t := range p.topics {
		if t == topic {
			n++
		}
	}
	return n
}

// scriptedGateway returns queued statuses in order, repeating the last one
// once the queue runs dry. createErr/queryErr simulate a provider outage.
type scriptedGateway struct {
	mu        sync.Mutex
	statuses  []commands.GatewayStatus
	createErr error
	queryErr  error
}

func (g *scriptedGateway) CreatePayment(_ context.Context, paymentNo, _ string, _ int64, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.createErr != nil {
		return "", g.createErr
	}
	return "test-prepay-" + paymentNo, nil
}

func (g *scriptedGateway) QueryStatus(_ context.Context, paymentNo string) (*commands.GatewayStatus, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.queryErr != nil {
		return nil, g.queryErr
	}
	if len(g.statuses) == 0 {
		return &commands.GatewayStatus{PaymentNo: paymentNo, Status: commands.GatewayStatusPending}, nil
	}
	status := g.statuses[0]
	if len(g.statuses) > 1 {
		g.statuses = g.statuses[1:]
	}
	status.PaymentNo = paymentNo
	return &status, nil
}

func (g *scriptedGateway) enqueue(statuses ...commands.GatewayStatus) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statuses = append(g.statuses, statuses...)
}
