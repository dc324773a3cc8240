package components

import (
	"cruise-booking/internal/infra/gateway"
	"cruise-booking/internal/pkg/clock"
	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/usecase/commands"
	"cruise-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.BookingConfig { return cfg.Booking },
	func(cfg config.Config) config.PaymentConfig { return cfg.Payment },
	fx.Annotate(
		gateway.NewSandbox,
		fx.As(new(commands.PaymentGateway)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationUseCase,
		commands.NewOrderUseCase,
		commands.NewPaymentUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewInventoryQueries,
		queries.NewPaymentQueries,
	),
)
