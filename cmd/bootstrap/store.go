package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"seat-queue/internal/domain/queue"
	"seat-queue/internal/infra/db"
	"seat-queue/internal/infra/queuestore"
	"seat-queue/internal/pkg/clock"
	"seat-queue/internal/pkg/config"
	"seat-queue/internal/pkg/errs"
	"seat-queue/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var StoreModule = fx.Module("store",
	fx.Provide(
		NewStore,
		func(s queue.Store) queries.QueueReadStore { return s },
	),
)

type StoreParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    config.Config
	Clock     clock.Clock
	Logger    *slog.Logger
}

// NewStore opens the backend selected by STORE_DRIVER and ties its resources to the
// fx lifecycle.
func NewStore(p StoreParams) (queue.Store, error) {
	capacity := p.Config.Queue.MaxConcurrent
	logger := p.Logger.With("store", p.Config.Store.Driver)

	switch p.Config.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store; the queue is lost on restart")
		return queuestore.NewMemoryStore(p.Clock, capacity), nil

	case config.StoreDriverSQLite:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		store, err := queuestore.OpenSQLite(ctx, p.Config.SQLite.Path, p.Clock, capacity, logger)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return store.Close()
			},
		})
		return store, nil

	case config.StoreDriverPostgres:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		pool, cleanup, err := db.Connect(ctx, p.Config.DB)
		if err != nil {
			return nil, err
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				cleanup()
				return nil
			},
		})
		if p.Config.DB.MigrateOnStart {
			result, err := db.Migrate(ctx, pool)
			if err != nil {
				cleanup()
				return nil, err
			}
			logger.Info("schema migrated", "from_version", result.From, "to_version", result.To)
		}
		return queuestore.NewPostgresStore(pool, p.Clock, capacity, logger), nil

	case config.StoreDriverRedis:
		client := redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{p.Config.Redis.Addr},
			Password: p.Config.Redis.Password,
			DB:       p.Config.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, errs.Wrapf(err, "failed to reach redis at %s", p.Config.Redis.Addr)
		}
		p.Lifecycle.Append(fx.Hook{
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return queuestore.NewRedisStore(client, p.Config.Redis.KeyPrefix, p.Clock, capacity, logger), nil

	default:
		return nil, errs.Newf("unknown store driver %q", p.Config.Store.Driver)
	}
}
