//go:build unit

package payment_test

import (
	"strings"
	"testing"
	"time"

	"cruise-booking/internal/domain/payment"
	"cruise-booking/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayment(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, p)

		assert.NotEqual(t, uuid.Nil, p.ID())
		assert.True(t, strings.HasPrefix(p.PaymentNo(), "PAY"+b.Now.Format("20060102")))
		assert.Equal(t, payment.StatusPending, p.Status())
		assert.Equal(t, b.AmountCents, p.AmountCents())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*builder.PaymentBuilder)
			errIs  error
		}{
			{
				name:   "zero amount",
				mutate: func(b *builder.PaymentBuilder) { b.AmountCents = 0 },
				errIs:  payment.ErrInvalidAmount,
			},
			{
				name:   "negative amount",
				mutate: func(b *builder.PaymentBuilder) { b.AmountCents = -100 },
				errIs:  payment.ErrInvalidAmount,
			},
			{
				name:   "unknown method",
				mutate: func(b *builder.PaymentBuilder) { b.Method = "cash" },
				errIs:  payment.ErrInvalidMethod,
			},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				b := builder.NewPaymentBuilder()
				tc.mutate(b)
				_, err := b.BuildDomain()
				assert.ErrorIs(t, err, tc.errIs)
			})
		}
	})

	t.Run("succeed with exact amount", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)

		now := b.Now.Add(time.Minute)
		require.NoError(t, p.Succeed(b.AmountCents, "txn-001", now))
		assert.Equal(t, payment.StatusSuccess, p.Status())
		assert.Equal(t, "txn-001", p.TransactionID())
		require.NotNil(t, p.PaidAt())
	})

	t.Run("succeed rejects mismatched amount", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)

		assert.ErrorIs(t, p.Succeed(b.AmountCents+1, "txn-002", b.Now), payment.ErrAmountMismatch)
		assert.Equal(t, payment.StatusPending, p.Status())
	})

	t.Run("terminal payments never change", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, p.Succeed(b.AmountCents, "txn-003", b.Now))

		assert.ErrorIs(t, p.Succeed(b.AmountCents, "txn-004", b.Now), payment.ErrTerminalState)
		assert.ErrorIs(t, p.Fail("late failure"), payment.ErrTerminalState)
		assert.ErrorIs(t, p.MarkProcessing(), payment.ErrTerminalState)
		assert.Equal(t, "txn-003", p.TransactionID())
	})

	t.Run("fail records reason", func(t *testing.T) {
		b := builder.NewPaymentBuilder()
		p, err := b.BuildDomain()
		require.NoError(t, err)

		require.NoError(t, p.Fail("card declined"))
		assert.Equal(t, payment.StatusFailed, p.Status())
		assert.Equal(t, "card declined", p.FailureReason())
	})

	t.Run("refund only from success", func(t *testing.T) {
		b := builder.NewPaymentBuilder()

		pending, err := b.BuildDomain()
		require.NoError(t, err)
		assert.ErrorIs(t, pending.Refund(b.Now), payment.ErrNotRefundable)

		paid, err := b.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, paid.Succeed(b.AmountCents, "txn-005", b.Now))
		require.NoError(t, paid.Refund(b.Now.Add(time.Hour)))
		assert.Equal(t, payment.StatusRefunded, paid.Status())
		require.NotNil(t, paid.RefundedAt())
	})
}
