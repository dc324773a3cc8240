package readstore

import (
	"context"

	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"
	"cruise-booking/internal/usecase/queries"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(dbtx db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: dbtx}
}

func (r *PaymentReadStore) FindByPaymentNo(ctx context.Context, paymentNo string) (*queries.PaymentView, error) {
	var v queries.PaymentView
	err := r.db.QueryRow(ctx,
		`SELECT id, payment_no, order_id, order_no, amount_cents, method, status,
		        COALESCE(transaction_id, ''), COALESCE(failure_reason, ''),
		        paid_at, created_at
		 FROM payments WHERE payment_no = $1`,
		paymentNo,
	).Scan(
		&v.ID, &v.PaymentNo, &v.OrderID, &v.OrderNo, &v.AmountCents, &v.Method, &v.Status,
		&v.TransactionID, &v.FailureReason, &v.PaidAt, &v.CreatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment view", err)
	}
	return &v, nil
}
