package request

import (
	"fmt"
)

type CreatePaymentRequest struct {
	Method string `json:"method" binding:"required,oneof=wechat alipay card transfer"`
}

// PaymentCallbackRequest is the provider's push notification. Signature is
// an HMAC-SHA256 hex digest over CanonicalPayload with the shared secret.
type PaymentCallbackRequest struct {
	PaymentNo     string `json:"payment_no" binding:"required"`
	OrderNo       string `json:"order_no" binding:"required"`
	AmountCents   int64  `json:"amount_cents" binding:"required"`
	Status        string `json:"status" binding:"required,oneof=success failed"`
	TransactionID string `json:"transaction_id"`
	FailureReason string `json:"failure_reason"`
	Timestamp     int64  `json:"timestamp" binding:"required"`
	Signature     string `json:"signature" binding:"required"`
}

// CanonicalPayload is the exact byte sequence both sides sign. Field order
// is part of the contract with the provider.
func (r PaymentCallbackRequest) CanonicalPayload() string {
	return fmt.Sprintf("%s|%s|%d|%s|%d", r.PaymentNo, r.OrderNo, r.AmountCents, r.Status, r.Timestamp)
}
