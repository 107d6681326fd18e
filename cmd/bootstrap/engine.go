package bootstrap

import (
	"context"
	"log/slog"

	"entrypass-engine/internal/events"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/notify"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/config"
	"entrypass-engine/internal/sweeper"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// EngineModule wires the lifecycle engine's shared plumbing: clock, TTL
// cache, event bus, warning board and the durable store adapter.
var EngineModule = fx.Module("engine",
	fx.Provide(
		clock.NewRealClock,
		NewCache,
		events.NewBus,
		NewWarningBoard,
		NewStore,
		fx.Annotate(
			notify.NewMemoryNotifier,
			fx.As(new(notify.Notifier)),
		),
	),
	fx.Invoke(
		StartWatcher,
		StartSweeper,
	),
)

func NewCache(cfg config.Config, clk clock.Clock) *cache.Cache {
	return cache.New(clk, cfg.Engine.CacheTTL)
}

func NewWarningBoard(cfg config.Config) *events.WarningBoard {
	return events.NewWarningBoard(cfg.Engine.WarningRetention)
}

func NewStore(lc fx.Lifecycle, pool *pgxpool.Pool, clk clock.Clock) store.Store {
	pg := store.NewPostgres(pool, clk)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return pg.EnsureSchema(ctx)
		},
	})
	return pg
}

func StartWatcher(lc fx.Lifecycle, watcher *events.ResubmissionWatcher, logger *slog.Logger) {
	var unsubscribe func()
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			unsubscribe = watcher.Start()
			logger.Info("resubmission watcher subscribed")
			return nil
		},
		OnStop: func(_ context.Context) error {
			if unsubscribe != nil {
				unsubscribe()
			}
			return nil
		},
	})
}

func StartSweeper(lc fx.Lifecycle, s *sweeper.Sweeper, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			s.Start()
			logger.Info("entry record sweeper started")
			return nil
		},
		OnStop: func(_ context.Context) error {
			s.Stop()
			return nil
		},
	})
}
