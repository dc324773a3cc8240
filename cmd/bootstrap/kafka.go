package bootstrap

import (
	"context"

	"cruise-booking/internal/infra/events"
	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var EventsModule = fx.Module("events",
	fx.Provide(
		NewEventPublisher,
	),
)

func NewEventPublisher(lc fx.Lifecycle, cfg config.Config) commands.EventPublisher {
	publisher, cleanup := events.NewKafkaPublisher(cfg.Kafka)

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	return publisher
}
