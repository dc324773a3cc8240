package components

import (
	"cruise-booking/internal/handler"
	"cruise-booking/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewOrderHandler,
		api.NewPaymentHandler,
		api.NewInventoryHandler,
	),
	fx.Invoke(handler.NewRouter),
)
