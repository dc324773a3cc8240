package commands

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"time"

	"cruise-booking/internal/domain/order"
	"cruise-booking/internal/domain/payment"
	reqdto "cruise-booking/internal/handler/dto/request"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/pkg/clock"
	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// callbackMaxSkew bounds how stale a signed callback may be before it is
// rejected as a replay.
const callbackMaxSkew = 15 * time.Minute

type CallbackResult struct {
	PaymentNo string
	Duplicate bool
}

type PaymentCommands interface {
	// InitiatePayment opens a settlement attempt for a pending order.
	InitiatePayment(ctx context.Context, orderID uuid.UUID, method payment.Method) (*payment.Payment, error)
	// HandleCallback applies a signed provider notification. Replays of a
	// settled payment are acknowledged without effect.
	HandleCallback(ctx context.Context, req reqdto.PaymentCallbackRequest) (*CallbackResult, error)
	// PollPayment asks the gateway for the outcome, bounded by the
	// configured poll budget. Exhausting the budget reports failed without
	// touching the stored payment.
	PollPayment(ctx context.Context, paymentNo string) (payment.Status, error)
}

type paymentUseCaseImpl struct {
	uow       shared.UnitOfWork
	gateway   PaymentGateway
	publisher EventPublisher
	metrics   Metrics
	clock     clock.Clock
	cfg       config.PaymentConfig
}

func NewPaymentUseCase(
	uow shared.UnitOfWork,
	gateway PaymentGateway,
	publisher EventPublisher,
	metrics Metrics,
	clk clock.Clock,
	cfg config.PaymentConfig,
) PaymentCommands {
	return &paymentUseCaseImpl{
		uow:       uow,
		gateway:   gateway,
		publisher: publisher,
		metrics:   metrics,
		clock:     clk,
		cfg:       cfg,
	}
}

func (u *paymentUseCaseImpl) InitiatePayment(ctx context.Context, orderID uuid.UUID, method payment.Method) (*payment.Payment, error) {
	now := u.clock.Now()
	var p *payment.Payment

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := findOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if o.Status() != order.StatusPendingPayment {
			return errs.ErrInvalidStateTransition
		}
		if o.HasExpired(now) {
			return errs.ErrOrderExpired
		}

		p, err = payment.NewPayment(orderID, o.OrderNo(), o.AmountDue(), method, now)
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}
		return tx.Payments().Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	if _, err := u.gateway.CreatePayment(ctx, p.PaymentNo(), p.OrderNo(), p.AmountCents(), string(method)); err != nil {
		markErr := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			_, failErr := tx.Payments().MarkFailed(ctx, p.PaymentNo(), "gateway rejected payment")
			return failErr
		})
		if markErr != nil {
			slog.Warn("failed to mark payment failed after gateway error", "payment_no", p.PaymentNo(), "error", markErr)
		}
		return nil, errs.Mark(err, errs.ErrPaymentGatewayUnavailable)
	}
	return p, nil
}

func (u *paymentUseCaseImpl) HandleCallback(ctx context.Context, req reqdto.PaymentCallbackRequest) (*CallbackResult, error) {
	now := u.clock.Now()
	if err := u.verifySignature(req, now); err != nil {
		return nil, err
	}

	if req.Status == "failed" {
		if err := u.applyFailure(ctx, req.PaymentNo, req.FailureReason); err != nil {
			return nil, err
		}
		return &CallbackResult{PaymentNo: req.PaymentNo}, nil
	}

	settled, err := u.applySuccess(ctx, req.PaymentNo, req.OrderNo, req.AmountCents, req.TransactionID)
	if err != nil {
		return nil, err
	}
	return &CallbackResult{PaymentNo: req.PaymentNo, Duplicate: !settled}, nil
}

func (u *paymentUseCaseImpl) verifySignature(req reqdto.PaymentCallbackRequest, now time.Time) error {
	sent := time.Unix(req.Timestamp, 0)
	if sent.Before(now.Add(-callbackMaxSkew)) || sent.After(now.Add(callbackMaxSkew)) {
		return errs.ErrInvalidSignature
	}

	mac := hmac.New(sha256.New, []byte(u.cfg.CallbackSecret))
	mac.Write([]byte(req.CanonicalPayload()))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(req.Signature)) {
		return errs.ErrInvalidSignature
	}
	return nil
}

// applySuccess settles the payment and advances the order in one
// transaction. Returns false when the payment was already terminal.
func (u *paymentUseCaseImpl) applySuccess(ctx context.Context, paymentNo, orderNo string, amountCents int64, transactionID string) (bool, error) {
	now := u.clock.Now()
	var settledOrder *order.Order
	var settledPayment *payment.Payment
	duplicate := false

	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := findPayment(ctx, tx, paymentNo)
		if err != nil {
			return err
		}
		if p.Status().IsTerminal() {
			duplicate = true
			return nil
		}
		if orderNo != "" && orderNo != p.OrderNo() {
			return errs.Mark(errs.New("callback order number does not match payment"), errs.ErrValidation)
		}
		if amountCents != p.AmountCents() {
			return errs.ErrAmountMismatch
		}

		o, err := tx.Orders().FindByOrderNo(ctx, p.OrderNo())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.ErrOrderNotFound
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := o.MarkPaid(amountCents, now); err != nil {
			if errors.Is(err, order.ErrAmountMismatch) {
				return errs.Mark(err, errs.ErrAmountMismatch)
			}
			return errs.Mark(err, errs.ErrInvalidStateTransition)
		}

		// Exactly one of the payment callback and the expiry sweep wins
		// this CAS; the loser sees the moved status and backs off.
		ok, err := tx.Orders().MarkPaid(ctx, o.ID(), amountCents, now)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if !ok {
			return errs.ErrInvalidStateTransition
		}

		if _, err := tx.Payments().Settle(ctx, paymentNo, transactionID, now); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		if err := settleHold(ctx, tx, o.HoldSetID()); err != nil {
			return err
		}

		if o.PassengersComplete() {
			if _, err := tx.Orders().MarkConfirmed(ctx, o.ID(), now); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		settledOrder = o
		settledPayment = p
		return nil
	})
	if err != nil {
		return false, err
	}
	if duplicate {
		u.metrics.PaymentDuplicate()
		return false, nil
	}

	u.metrics.PaymentSettled()
	u.publishPaymentEvent(ctx, TopicPaymentSucceeded, settledPayment, payment.StatusSuccess)
	u.publishOrderPaid(ctx, settledOrder)
	return true, nil
}

func (u *paymentUseCaseImpl) applyFailure(ctx context.Context, paymentNo, reason string) error {
	var failed *payment.Payment
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		p, err := findPayment(ctx, tx, paymentNo)
		if err != nil {
			return err
		}
		if p.Status().IsTerminal() {
			return nil
		}
		if _, err := tx.Payments().MarkFailed(ctx, paymentNo, reason); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		failed = p
		return nil
	})
	if err != nil {
		return err
	}
	if failed != nil {
		u.publishPaymentEvent(ctx, TopicPaymentFailed, failed, payment.StatusFailed)
	}
	return nil
}

func (u *paymentUseCaseImpl) PollPayment(ctx context.Context, paymentNo string) (payment.Status, error) {
	for attempt := 0; attempt < u.cfg.PollMax; attempt++ {
		status, err := u.gateway.QueryStatus(ctx, paymentNo)
		if err != nil {
			return "", errs.Mark(err, errs.ErrPaymentGatewayUnavailable)
		}

		switch status.Status {
		case GatewayStatusSuccess:
			if _, err := u.applySuccess(ctx, paymentNo, "", status.AmountCents, status.TransactionID); err != nil {
				return "", err
			}
			return payment.StatusSuccess, nil
		case GatewayStatusFailed:
			if err := u.applyFailure(ctx, paymentNo, "reported failed by gateway"); err != nil {
				return "", err
			}
			return payment.StatusFailed, nil
		}

		if attempt == u.cfg.PollMax-1 {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(u.cfg.PollInterval):
		}
	}

	// Budget exhausted: report failed to the caller but leave the stored
	// payment pending for a later callback to settle.
	slog.Warn("payment poll budget exhausted", "payment_no", paymentNo, "attempts", u.cfg.PollMax)
	return payment.StatusFailed, nil
}

func findPayment(ctx context.Context, tx shared.Tx, paymentNo string) (*payment.Payment, error) {
	p, err := tx.Payments().FindByPaymentNo(ctx, paymentNo)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrPaymentNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return p, nil
}

func (u *paymentUseCaseImpl) publishPaymentEvent(ctx context.Context, topic string, p *payment.Payment, status payment.Status) {
	if u.publisher == nil || p == nil {
		return
	}
	event := PaymentEvent{
		PaymentNo:   p.PaymentNo(),
		OrderNo:     p.OrderNo(),
		AmountCents: p.AmountCents(),
		Status:      status.String(),
		OccurredAt:  u.clock.Now(),
	}
	if err := u.publisher.Publish(ctx, topic, p.PaymentNo(), event); err != nil {
		slog.Warn("failed to publish payment event", "topic", topic, "payment_no", p.PaymentNo(), "error", err)
	}
}

func (u *paymentUseCaseImpl) publishOrderPaid(ctx context.Context, o *order.Order) {
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
	if err := u.publisher.Publish(ctx, TopicOrderPaid, o.OrderNo(), event); err != nil {
		slog.Warn("failed to publish order event", "topic", TopicOrderPaid, "order_no", o.OrderNo(), "error", err)
	}
}
