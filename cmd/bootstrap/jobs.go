package bootstrap

import (
	"context"

	"cruise-booking/internal/jobs"
	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var JobsModule = fx.Module("jobs",
	fx.Provide(
		func(orders commands.OrderCommands, cfg config.Config) *jobs.ExpirySweeper {
			return jobs.NewExpirySweeper(orders, cfg.Booking)
		},
	),
	fx.Invoke(startSweeper),
)

func startSweeper(lc fx.Lifecycle, sweeper *jobs.ExpirySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			sweeper.Stop()
			return nil
		},
	})
}
