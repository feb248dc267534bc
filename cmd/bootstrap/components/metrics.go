package components

import (
	"log/slog"

	"seat-queue/internal/infra/metrics"
	"seat-queue/internal/usecase/queries"

	"go.uber.org/fx"
)

var MetricsModule = fx.Module("metrics",
	fx.Provide(metrics.New),
	fx.Invoke(RegisterQueueCollector),
)

func RegisterQueueCollector(m *metrics.Metrics, q queries.QueueQueries, logger *slog.Logger) error {
	return m.Register(metrics.NewQueueCollector(q, logger))
}
