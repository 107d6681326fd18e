package queries

import (
	"context"

	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/sweeper"
)

// SystemStatsView aggregates engine internals for the diagnostics endpoint.
type SystemStatsView struct {
	Cache           cache.Stats   `json:"cache"`
	Sweeper         sweeper.Stats `json:"sweeper"`
	PendingWarnings int           `json:"pendingWarnings"`
}

type CacheStats interface {
	Stats() cache.Stats
}

type SweeperStats interface {
	Stats() sweeper.Stats
}

type WarningCount interface {
	Len() int
}

type SystemQueries interface {
	Stats(ctx context.Context) (*SystemStatsView, error)
}

type systemQueriesImpl struct {
	cache    CacheStats
	sweeper  SweeperStats
	warnings WarningCount
}

func NewSystemQueries(c CacheStats, s SweeperStats, w WarningCount) SystemQueries {
	return &systemQueriesImpl{cache: c, sweeper: s, warnings: w}
}

func (q *systemQueriesImpl) Stats(context.Context) (*SystemStatsView, error) {
	return &SystemStatsView{
		Cache:           q.cache.Stats(),
		Sweeper:         q.sweeper.Stats(),
		PendingWarnings: q.warnings.Len(),
	}, nil
}
