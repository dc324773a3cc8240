package response

import (
	"time"

	"cruise-booking/internal/domain/payment"
	"cruise-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	ID            uuid.UUID  `json:"id"`
	PaymentNo     string     `json:"paymentNo"`
	OrderID       uuid.UUID  `json:"orderId"`
	OrderNo       string     `json:"orderNo"`
	AmountCents   int64      `json:"amountCents"`
	Method        string     `json:"method"`
	Status        string     `json:"status"`
	TransactionID string     `json:"transactionId,omitempty"`
	FailureReason string     `json:"failureReason,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// PaymentInitiatedResponse acknowledges a newly opened settlement attempt.
type PaymentInitiatedResponse struct {
	PaymentNo   string    `json:"paymentNo"`
	OrderNo     string    `json:"orderNo"`
	AmountCents int64     `json:"amountCents"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CallbackAckResponse is the body the payment provider expects back.
// Duplicate notifications still ack so the provider stops retrying.
type CallbackAckResponse struct {
	PaymentNo string `json:"paymentNo"`
	Result    string `json:"result"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

func FromPaymentView(rm *queries.PaymentView) *PaymentResponse {
	resp := &PaymentResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}

func FromInitiatedPayment(p *payment.Payment) *PaymentInitiatedResponse {
	return &PaymentInitiatedResponse{
		PaymentNo:   p.PaymentNo(),
		OrderNo:     p.OrderNo(),
		AmountCents: p.AmountCents(),
		Method:      string(p.Method()),
		Status:      p.Status().String(),
		CreatedAt:   p.CreatedAt(),
	}
}
