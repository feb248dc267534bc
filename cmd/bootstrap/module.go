package bootstrap

import (
	"seat-queue/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	StoreModule,
	components.UseCaseModule,
	components.MetricsModule,
	components.HandlerModule,
)
