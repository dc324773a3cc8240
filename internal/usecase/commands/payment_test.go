//go:build unit

package commands_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"cruise-booking/internal/domain/inventory"
	"cruise-booking/internal/domain/order"
	"cruise-booking/internal/domain/payment"
	reqdto "cruise-booking/internal/handler/dto/request"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paymentFixture struct {
	*orderFixture
	gateway *scriptedGateway
	payUC   commands.PaymentCommands
}

func newPaymentFixture() *paymentFixture {
	base := newOrderFixture()
	gateway := &scriptedGateway{}
	return &paymentFixture{
		orderFixture: base,
		gateway:      gateway,
		payUC: commands.NewPaymentUseCase(
			newFakeUoW(base.store), gateway, base.pub, nopMetrics{}, base.clk, base.cfg.Payment,
		),
	}
}

// pendingPayment opens an order and a settlement attempt against it.
func (f *paymentFixture) pendingPayment(t *testing.T) (*order.Order, *payment.Payment) {
	t.Helper()
	o := f.createOrder(t)
	p, err := f.payUC.InitiatePayment(context.Background(), o.ID(), payment.MethodCard)
	require.NoError(t, err)
	return o, p
}

func (f *paymentFixture) sign(req reqdto.PaymentCallbackRequest) reqdto.PaymentCallbackRequest {
	mac := hmac.New(sha256.New, []byte(f.cfg.Payment.CallbackSecret))
	mac.Write([]byte(req.CanonicalPayload()))
	req.Signature = hex.EncodeToString(mac.Sum(nil))
	return req
}

func (f *paymentFixture) successCallback(p *payment.Payment) reqdto.PaymentCallbackRequest {
	return f.sign(reqdto.PaymentCallbackRequest{
		PaymentNo:     p.PaymentNo(),
		OrderNo:       p.OrderNo(),
		AmountCents:   p.AmountCents(),
		Status:        "success",
		TransactionID: "tx-0001",
		Timestamp:     f.clk.Now().Unix(),
	})
}

func TestInitiatePayment(t *testing.T) {
	t.Run("opens a pending attempt for the amount due", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)

		assert.Equal(t, o.ID(), p.OrderID())
		assert.Equal(t, o.OrderNo(), p.OrderNo())
		assert.Equal(t, int64(295000), p.AmountCents())
		assert.Equal(t, payment.StatusPending, p.Status())
		assert.True(t, strings.HasPrefix(p.PaymentNo(), "PAY"))
		assert.Equal(t, payment.StatusPending, f.store.paymentStatus(p.PaymentNo()))
	})

	t.Run("paid order cannot open another attempt", func(t *testing.T) {
		f := newPaymentFixture()
		o := f.createOrder(t)
		f.markPaid(o)

		_, err := f.payUC.InitiatePayment(context.Background(), o.ID(), payment.MethodCard)
		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)
	})

	t.Run("expired order rejected", func(t *testing.T) {
		f := newPaymentFixture()
		o := f.createOrder(t)
		f.clk.Add(f.cfg.Booking.HoldTTL + time.Second)

		_, err := f.payUC.InitiatePayment(context.Background(), o.ID(), payment.MethodCard)
		assert.ErrorIs(t, err, errs.ErrOrderExpired)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newPaymentFixture()
		_, err := f.payUC.InitiatePayment(context.Background(), uuid.New(), payment.MethodCard)
		assert.ErrorIs(t, err, errs.ErrOrderNotFound)
	})

	t.Run("gateway outage fails the stored attempt", func(t *testing.T) {
		f := newPaymentFixture()
		o := f.createOrder(t)
		f.gateway.createErr = errors.New("connect: connection refused")

		_, err := f.payUC.InitiatePayment(context.Background(), o.ID(), payment.MethodCard)
		assert.ErrorIs(t, err, errs.ErrPaymentGatewayUnavailable)
		assert.NotErrorIs(t, err, errs.ErrDatabaseOperationFailed)

		// The attempt row stays behind, marked failed, and the order
		// remains payable for a retry.
		f.store.mu.Lock()
		require.Len(t, f.store.payments, 1)
		for _, row := range f.store.payments {
			assert.Equal(t, payment.StatusFailed, row.status)
		}
		f.store.mu.Unlock()
		assert.Equal(t, order.StatusPendingPayment, f.store.orderStatus(o.ID()))
	})

	t.Run("unknown method rejected", func(t *testing.T) {
		f := newPaymentFixture()
		o := f.createOrder(t)

		_, err := f.payUC.InitiatePayment(context.Background(), o.ID(), payment.Method("bitcoin"))
		assert.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestHandleCallback(t *testing.T) {
	t.Run("success settles payment, order and hold together", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)

		result, err := f.payUC.HandleCallback(context.Background(), f.successCallback(p))
		require.NoError(t, err)
		assert.False(t, result.Duplicate)

		assert.Equal(t, order.StatusPaid, f.store.orderStatus(o.ID()))
		assert.Equal(t, payment.StatusSuccess, f.store.paymentStatus(p.PaymentNo()))
		assert.Equal(t, inventory.HoldStatusConsumed, f.store.holdStatus(o.HoldSetID()))

		row := f.store.ledgerRow(f.cabinA, f.voyageID)
		assert.Equal(t, 1, row.sold)
		assert.Equal(t, 0, row.locked)
		assertLedgerInvariant(t, row)

		assert.Equal(t, 1, f.pub.published(commands.TopicPaymentSucceeded))
		assert.Equal(t, 1, f.pub.published(commands.TopicOrderPaid))
	})

	t.Run("complete passengers confirm the order on settlement", func(t *testing.T) {
		f := newPaymentFixture()
		req := f.canonicalRequest()
		req.Passengers = passengerReqs(2, 1, 1)
		o, err := f.uc.CreateOrder(context.Background(), req, nil)
		require.NoError(t, err)
		p, err := f.payUC.InitiatePayment(context.Background(), o.ID(), payment.MethodAlipay)
		require.NoError(t, err)

		_, err = f.payUC.HandleCallback(context.Background(), f.successCallback(p))
		require.NoError(t, err)
		assert.Equal(t, order.StatusConfirmed, f.store.orderStatus(o.ID()))
	})

	t.Run("replayed callback is acknowledged without effect", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)
		cb := f.successCallback(p)

		first, err := f.payUC.HandleCallback(context.Background(), cb)
		require.NoError(t, err)
		require.False(t, first.Duplicate)

		second, err := f.payUC.HandleCallback(context.Background(), cb)
		require.NoError(t, err)
		assert.True(t, second.Duplicate)

		row := f.store.ledgerRow(f.cabinA, f.voyageID)
		assert.Equal(t, 1, row.sold, "a replay must not commit inventory twice")
		assertLedgerInvariant(t, row)
		assert.Equal(t, order.StatusPaid, f.store.orderStatus(o.ID()))
	})

	t.Run("bad signature rejected", func(t *testing.T) {
		f := newPaymentFixture()
		_, p := f.pendingPayment(t)

		cb := f.successCallback(p)
		cb.Signature = "deadbeef"

		_, err := f.payUC.HandleCallback(context.Background(), cb)
		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
		assert.Equal(t, payment.StatusPending, f.store.paymentStatus(p.PaymentNo()))
	})

	t.Run("stale timestamp rejected as replay", func(t *testing.T) {
		f := newPaymentFixture()
		_, p := f.pendingPayment(t)

		cb := f.sign(reqdto.PaymentCallbackRequest{
			PaymentNo:   p.PaymentNo(),
			OrderNo:     p.OrderNo(),
			AmountCents: p.AmountCents(),
			Status:      "success",
			Timestamp:   f.clk.Now().Add(-16 * time.Minute).Unix(),
		})

		_, err := f.payUC.HandleCallback(context.Background(), cb)
		assert.ErrorIs(t, err, errs.ErrInvalidSignature)
	})

	t.Run("amount mismatch rejected", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)

		cb := f.sign(reqdto.PaymentCallbackRequest{
			PaymentNo:   p.PaymentNo(),
			OrderNo:     p.OrderNo(),
			AmountCents: p.AmountCents() - 100,
			Status:      "success",
			Timestamp:   f.clk.Now().Unix(),
		})

		_, err := f.payUC.HandleCallback(context.Background(), cb)
		assert.ErrorIs(t, err, errs.ErrAmountMismatch)

		assert.Equal(t, order.StatusPendingPayment, f.store.orderStatus(o.ID()))
		assert.Equal(t, payment.StatusPending, f.store.paymentStatus(p.PaymentNo()))
	})

	t.Run("order number mismatch rejected", func(t *testing.T) {
		f := newPaymentFixture()
		_, p := f.pendingPayment(t)

		cb := f.sign(reqdto.PaymentCallbackRequest{
			PaymentNo:   p.PaymentNo(),
			OrderNo:     "ORD-other",
			AmountCents: p.AmountCents(),
			Status:      "success",
			Timestamp:   f.clk.Now().Unix(),
		})

		_, err := f.payUC.HandleCallback(context.Background(), cb)
		assert.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("failure callback marks the payment failed only", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)

		cb := f.sign(reqdto.PaymentCallbackRequest{
			PaymentNo:     p.PaymentNo(),
			OrderNo:       p.OrderNo(),
			AmountCents:   p.AmountCents(),
			Status:        "failed",
			FailureReason: "card declined",
			Timestamp:     f.clk.Now().Unix(),
		})

		result, err := f.payUC.HandleCallback(context.Background(), cb)
		require.NoError(t, err)
		assert.False(t, result.Duplicate)

		assert.Equal(t, payment.StatusFailed, f.store.paymentStatus(p.PaymentNo()))
		// The order stays open for another attempt until it expires.
		assert.Equal(t, order.StatusPendingPayment, f.store.orderStatus(o.ID()))
		assert.Equal(t, 1, f.pub.published(commands.TopicPaymentFailed))
	})

	t.Run("unknown payment", func(t *testing.T) {
		f := newPaymentFixture()
		cb := f.sign(reqdto.PaymentCallbackRequest{
			PaymentNo:   "PAY-missing",
			OrderNo:     "ORD-missing",
			AmountCents: 100,
			Status:      "success",
			Timestamp:   f.clk.Now().Unix(),
		})

		_, err := f.payUC.HandleCallback(context.Background(), cb)
		assert.ErrorIs(t, err, errs.ErrPaymentNotFound)
	})
}

// The expiry sweep and the payment callback race for the same order; the
// status CAS picks exactly one winner.
func TestExpiryPaymentRace(t *testing.T) {
	t.Run("sweep wins, late callback bounces", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)

		f.clk.Add(f.cfg.Booking.HoldTTL + time.Minute)
		_, err := f.uc.SweepExpired(context.Background(), 100)
		require.NoError(t, err)
		require.Equal(t, order.StatusCancelled, f.store.orderStatus(o.ID()))

		_, err = f.payUC.HandleCallback(context.Background(), f.successCallback(p))
		assert.ErrorIs(t, err, errs.ErrInvalidStateTransition)

		assert.Equal(t, order.StatusCancelled, f.store.orderStatus(o.ID()))
		assert.Equal(t, payment.StatusPending, f.store.paymentStatus(p.PaymentNo()))
		row := f.store.ledgerRow(f.cabinA, f.voyageID)
		assert.Equal(t, 10, row.available, "reclaimed inventory stays released")
		assert.Equal(t, 0, row.sold)
		assertLedgerInvariant(t, row)
	})

	t.Run("callback past the ttl still settles before the sweep runs", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)

		// The hold TTL has lapsed but no sweep has reclaimed it yet. The
		// callback wins the order status CAS, so the customer is charged
		// and the hold must follow the order rather than bounce on its
		// own clock.
		f.clk.Add(f.cfg.Booking.HoldTTL + time.Minute)

		result, err := f.payUC.HandleCallback(context.Background(), f.successCallback(p))
		require.NoError(t, err)
		assert.False(t, result.Duplicate)

		assert.Equal(t, order.StatusPaid, f.store.orderStatus(o.ID()))
		assert.Equal(t, payment.StatusSuccess, f.store.paymentStatus(p.PaymentNo()))
		assert.Equal(t, inventory.HoldStatusConsumed, f.store.holdStatus(o.HoldSetID()))

		row := f.store.ledgerRow(f.cabinA, f.voyageID)
		assert.Equal(t, 1, row.sold)
		assert.Equal(t, 0, row.locked)
		assertLedgerInvariant(t, row)

		// The settled order no longer qualifies for the sweep.
		sweep, err := f.uc.SweepExpired(context.Background(), 100)
		require.NoError(t, err)
		assert.Equal(t, 0, sweep.OrdersExpired)
		assert.Equal(t, 0, sweep.HoldsReclaimed)
	})

	t.Run("callback wins, late sweep backs off", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)

		_, err := f.payUC.HandleCallback(context.Background(), f.successCallback(p))
		require.NoError(t, err)

		f.clk.Add(f.cfg.Booking.HoldTTL + time.Minute)
		result, err := f.uc.SweepExpired(context.Background(), 100)
		require.NoError(t, err)
		assert.Equal(t, 0, result.OrdersExpired)

		assert.Equal(t, order.StatusPaid, f.store.orderStatus(o.ID()))
		row := f.store.ledgerRow(f.cabinA, f.voyageID)
		assert.Equal(t, 1, row.sold)
		assertLedgerInvariant(t, row)
	})
}

func TestPollPayment(t *testing.T) {
	t.Run("exhausted budget reports failed but leaves the payment pending", func(t *testing.T) {
		f := newPaymentFixture()
		_, p := f.pendingPayment(t)

		status, err := f.payUC.PollPayment(context.Background(), p.PaymentNo())
		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, status)

		// A later callback can still settle it.
		assert.Equal(t, payment.StatusPending, f.store.paymentStatus(p.PaymentNo()))
	})

	t.Run("success mid-poll settles the order", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)
		f.gateway.enqueue(
			commands.GatewayStatus{Status: commands.GatewayStatusPending},
			commands.GatewayStatus{Status: commands.GatewayStatusPending},
			commands.GatewayStatus{
				Status:        commands.GatewayStatusSuccess,
				AmountCents:   p.AmountCents(),
				TransactionID: "tx-poll",
			},
		)

		status, err := f.payUC.PollPayment(context.Background(), p.PaymentNo())
		require.NoError(t, err)
		assert.Equal(t, payment.StatusSuccess, status)

		assert.Equal(t, payment.StatusSuccess, f.store.paymentStatus(p.PaymentNo()))
		assert.Equal(t, order.StatusPaid, f.store.orderStatus(o.ID()))
		assert.Equal(t, inventory.HoldStatusConsumed, f.store.holdStatus(o.HoldSetID()))
	})

	t.Run("gateway outage surfaces as a provider error", func(t *testing.T) {
		f := newPaymentFixture()
		_, p := f.pendingPayment(t)
		f.gateway.queryErr = errors.New("connect: connection refused")

		_, err := f.payUC.PollPayment(context.Background(), p.PaymentNo())
		assert.ErrorIs(t, err, errs.ErrPaymentGatewayUnavailable)
		// An unreachable provider says nothing about the outcome.
		assert.Equal(t, payment.StatusPending, f.store.paymentStatus(p.PaymentNo()))
	})

	t.Run("gateway failure marks the payment failed", func(t *testing.T) {
		f := newPaymentFixture()
		o, p := f.pendingPayment(t)
		f.gateway.enqueue(commands.GatewayStatus{Status: commands.GatewayStatusFailed})

		status, err := f.payUC.PollPayment(context.Background(), p.PaymentNo())
		require.NoError(t, err)
		assert.Equal(t, payment.StatusFailed, status)

		assert.Equal(t, payment.StatusFailed, f.store.paymentStatus(p.PaymentNo()))
		assert.Equal(t, order.StatusPendingPayment, f.store.orderStatus(o.ID()))
	})
}
