package repo_impl

import (
	"context"
	"time"

	"cruise-booking/internal/domain/payment"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO payments (
			id, payment_no, order_id, order_no, amount_cents, method, status,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$8)`,
		p.ID(), p.PaymentNo(), p.OrderID(), p.OrderNo(), p.AmountCents(),
		string(p.Method()), p.Status().String(), p.CreatedAt(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("payment already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

const paymentColumns = `
	id, payment_no, order_id, order_no, amount_cents, method, status,
	transaction_id, failure_reason, paid_at, refunded_at, created_at, updated_at`

func (r *PaymentRepository) FindByPaymentNo(ctx context.Context, paymentNo string) (*payment.Payment, error) {
	return r.findOne(ctx, `SELECT `+paymentColumns+` FROM payments WHERE payment_no = $1`, paymentNo)
}

func (r *PaymentRepository) FindLatestByOrderID(ctx context.Context, orderID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE order_id = $1 ORDER BY created_at DESC LIMIT 1`,
		orderID,
	)
}

func (r *PaymentRepository) findOne(ctx context.Context, sql string, arg any) (*payment.Payment, error) {
	var (
		id                   uuid.UUID
		paymentNo, orderNo   string
		orderID              uuid.UUID
		amountCents          int64
		method, status       string
		transactionID        *string
		failureReason        *string
		paidAt, refundedAt   *time.Time
		createdAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&id, &paymentNo, &orderID, &orderNo, &amountCents, &method, &status,
		&transactionID, &failureReason, &paidAt, &refundedAt, &createdAt, &updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}

	return payment.ReconstructPayment(
		id, paymentNo, orderID, orderNo, amountCents,
		payment.Method(method), payment.Status(status),
		deref(transactionID), deref(failureReason),
		paidAt, refundedAt, createdAt, updatedAt,
	), nil
}

func (r *PaymentRepository) Settle(ctx context.Context, paymentNo, transactionID string, paidAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE payments
		 SET status = 'success', transaction_id = $2, paid_at = $3, updated_at = now()
		 WHERE payment_no = $1 AND status IN ('pending', 'processing')`,
		paymentNo, transactionID, paidAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to settle payment", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, paymentNo, reason string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE payments
		 SET status = 'failed', failure_reason = $2, updated_at = now()
		 WHERE payment_no = $1 AND status IN ('pending', 'processing')`,
		paymentNo, reason,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark payment failed", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PaymentRepository) MarkRefunded(ctx context.Context, paymentNo string, refundedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE payments
		 SET status = 'refunded', refunded_at = $2, updated_at = now()
		 WHERE payment_no = $1 AND status = 'success'`,
		paymentNo, refundedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark payment refunded", err)
	}
	return tag.RowsAffected() > 0, nil
}
