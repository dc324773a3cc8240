package bootstrap

import (
	"cruise-booking/internal/infra/metrics"
	"cruise-booking/internal/usecase/commands"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(
		NewRegistry,
		fx.Annotate(
			func(reg *prometheus.Registry) *metrics.BookingMetrics {
				return metrics.New(reg)
			},
			fx.As(new(commands.Metrics)),
		),
	),
)

func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
