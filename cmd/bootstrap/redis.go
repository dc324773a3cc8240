package bootstrap

import (
	"cruise-booking/internal/infra/redislock"
	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/usecase/commands"

	"go.uber.org/fx"
)

var GuardLockModule = fx.Module("guardlock",
	fx.Provide(
		func(cfg config.Config) commands.GuardLock {
			return redislock.New(cfg.Redis)
		},
	),
)
