package components

import (
	"seat-queue/internal/domain/estimation"
	"seat-queue/internal/infra/metrics"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/config"
	"seat-queue/internal/usecase/commands"
	"seat-queue/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewEngine,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		func(m *metrics.Metrics) commands.Recorder { return m },
		commands.NewQueueCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewQueueQueries,
	),
)

func NewEngine(cfg config.Config) (*estimation.Engine, error) {
	loc, err := cfg.Queue.Location()
	if err != nil {
		return nil, err
	}
	return estimation.NewEngine(estimation.Settings{
		MaxConcurrent:   cfg.Queue.MaxConcurrent,
		SessionDuration: cfg.Queue.SessionDuration(),
		Location:        loc,
	}), nil
}
