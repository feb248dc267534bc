package metrics

import (
	"context"
	"log/slog"
	"time"

	"seat-queue/internal/domain/estimation"
	"seat-queue/internal/domain/queue"

	"github.com/prometheus/client_golang/prometheus"
)

const scrapeTimeout = 5 * time.Second

// SnapshotSource yields the current queue evaluated at read time.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*estimation.Snapshot, error)
}

// QueueCollector computes queue gauges on every scrape, so the numbers are as
// fresh as the scrape itself and nothing runs between scrapes.
type QueueCollector struct {
	source SnapshotSource
	logger *slog.Logger

	entries       *prometheus.Desc
	available     *prometheus.Desc
	overtime      *prometheus.Desc
	estimatedWait *prometheus.Desc
}

var _ prometheus.Collector = (*QueueCollector)(nil)

func NewQueueCollector(source SnapshotSource, logger *slog.Logger) *QueueCollector {
	return &QueueCollector{
		source: source,
		logger: logger,
		entries: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "queue_entries"),
			"Entries per status",
			[]string{"status"}, nil,
		),
		available: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "available_seats"),
			"Seats free right now",
			nil, nil,
		),
		overtime: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "overtime_seats"),
			"Seats past their session duration",
			nil, nil,
		),
		estimatedWait: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "estimated_wait_minutes"),
			"Estimated wait for someone joining the queue now",
			nil, nil,
		),
	}
}

func (c *QueueCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.entries
	ch <- c.available
	ch <- c.overtime
	ch <- c.estimatedWait
}

func (c *QueueCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), scrapeTimeout)
	defer cancel()

	snap, err := c.source.Snapshot(ctx)
	if err != nil {
		c.logger.Warn("queue metrics unavailable", slog.String("error", err.Error()))
		ch <- prometheus.NewInvalidMetric(c.entries, err)
		return
	}

	stats := snap.Stats()
	counts := map[queue.Status]int{
		queue.StatusWaiting:    stats.WaitingCount,
		queue.StatusInProgress: stats.InProgressCount,
		queue.StatusCompleted:  stats.CompletedCount,
		queue.StatusCancelled:  stats.CancelledCount,
	}
	for _, status := range queue.AllStatuses() {
		ch <- prometheus.MustNewConstMetric(c.entries, prometheus.GaugeValue, float64(counts[status]), status.String())
	}
	ch <- prometheus.MustNewConstMetric(c.available, prometheus.GaugeValue, float64(stats.AvailableSeats))
	ch <- prometheus.MustNewConstMetric(c.overtime, prometheus.GaugeValue, float64(len(stats.OvertimeSeats)))
	ch <- prometheus.MustNewConstMetric(c.estimatedWait, prometheus.GaugeValue, float64(stats.EstimatedWaitMinutes))
}
