package metrics

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"cruise-booking/internal/usecase/commands"
)

// BookingMetrics implements commands.Metrics on a prometheus registry.
type BookingMetrics struct {
	holdsGranted      prometheus.Counter
	holdLinesGranted  prometheus.Counter
	holdsRejected     prometheus.Counter
	ordersExpired     prometheus.Counter
	holdsReclaimed    prometheus.Counter
	passengersOverdue prometheus.Gauge
	paymentsSettled   prometheus.Counter
	paymentDuplicates prometheus.Counter
	lowInventory      *prometheus.GaugeVec
}

func New(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		holdsGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_holds_granted_total",
			Help: "Inventory holds granted.",
		}),
		holdLinesGranted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_hold_lines_granted_total",
			Help: "Ledger lines claimed across granted holds.",
		}),
		holdsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_holds_rejected_total",
			Help: "Hold requests rejected, mostly for insufficient inventory.",
		}),
		ordersExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_orders_expired_total",
			Help: "Unpaid orders cancelled by the expiry sweeper.",
		}),
		holdsReclaimed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_holds_reclaimed_total",
			Help: "Expired holds released back to availability.",
		}),
		passengersOverdue: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "booking_orders_passenger_overdue",
			Help: "Paid orders with an incomplete passenger manifest past the deadline.",
		}),
		paymentsSettled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_payments_settled_total",
			Help: "Payments settled successfully.",
		}),
		paymentDuplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "booking_payment_duplicates_total",
			Help: "Duplicate payment notifications discarded.",
		}),
		lowInventory: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "booking_low_inventory_available",
			Help: "Remaining availability for cabin types under their alert threshold.",
		}, []string{"cabin_type_id"}),
	}

	reg.MustRegister(
		m.holdsGranted, m.holdLinesGranted, m.holdsRejected,
		m.ordersExpired, m.holdsReclaimed, m.passengersOverdue,
		m.paymentsSettled, m.paymentDuplicates,
		m.lowInventory,
	)
	return m
}

var _ commands.Metrics = (*BookingMetrics)(nil)

func (m *BookingMetrics) HoldGranted(lines int) {
	m.holdsGranted.Inc()
	m.holdLinesGranted.Add(float64(lines))
}

func (m *BookingMetrics) HoldRejected() {
	m.holdsRejected.Inc()
}

func (m *BookingMetrics) OrdersExpired(n int) {
	m.ordersExpired.Add(float64(n))
}

func (m *BookingMetrics) HoldsReclaimed(n int) {
	m.holdsReclaimed.Add(float64(n))
}

// PassengersOverdue is a gauge: each sweep reports the current backlog, so
// a cleared manifest drops the value back down.
func (m *BookingMetrics) PassengersOverdue(n int) {
	m.passengersOverdue.Set(float64(n))
}

func (m *BookingMetrics) PaymentSettled() {
	m.paymentsSettled.Inc()
}

func (m *BookingMetrics) PaymentDuplicate() {
	m.paymentDuplicates.Inc()
}

func (m *BookingMetrics) LowInventory(cabinTypeID uuid.UUID, available int) {
	m.lowInventory.WithLabelValues(cabinTypeID.String()).Set(float64(available))
}

// Noop is used in tests and when metrics are disabled.
type Noop struct{}

var _ commands.Metrics = Noop{}

func (Noop) HoldGranted(int)             {}
func (Noop) HoldRejected()               {}
func (Noop) OrdersExpired(int)           {}
func (Noop) HoldsReclaimed(int)          {}
func (Noop) PassengersOverdue(int)       {}
func (Noop) PaymentSettled()             {}
func (Noop) PaymentDuplicate()           {}
func (Noop) LowInventory(uuid.UUID, int) {}
