package components

import (
	"seat-queue/internal/handler"
	"seat-queue/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewQueueHandler,
	),
	fx.Invoke(handler.NewRouter),
)
