//go:build unit || e2e

package builder

import (
	"time"

	dompayment "cruise-booking/internal/domain/payment"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	OrderID     uuid.UUID
	OrderNo     string
	AmountCents int64
	Method      dompayment.Method
	Now         time.Time
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		OrderID:     uuid.New(),
		OrderNo:     "ORD20260829abcd0001",
		AmountCents: 295000,
		Method:      dompayment.MethodWechat,
		Now:         time.Now(),
	}
}

func (b *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(b)
	return b
}

func (b *PaymentBuilder) BuildDomain() (*dompayment.Payment, error) {
	return dompayment.NewPayment(b.OrderID, b.OrderNo, b.AmountCents, b.Method, b.Now)
}
