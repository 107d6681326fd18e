//go:build unit

package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"entrypass-engine/internal/events"
	reqdto "entrypass-engine/internal/handler/dto/request"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/repository"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemCacheMaintenance(t *testing.T) {
	ctx := context.Background()
	clk := clock.NewMockClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	st := store.NewMemory(clk)
	c := cache.New(clk, 5*time.Minute)
	bus := events.NewBus(slog.Default())

	passports := repository.NewPassportRepository(st, c, bus, clk)
	uc := commands.NewSystemUseCase(c)
	userID := uuid.New()

	req := reqdto.PassportRequest{PassportNumber: "AB1234567"}
	_, _, err := passports.Save(ctx, userID, req.ToDomain(userID))
	require.NoError(t, err)

	t.Run("clearing a user's cache forces the next read to the store", func(t *testing.T) {
		_, err := passports.Get(ctx, userID)
		require.NoError(t, err)
		require.NotZero(t, c.Stats().Hits)

		uc.ClearUserCache(userID)
		assert.NotZero(t, c.Stats().Invalidations)

		hitsBefore := c.Stats().Hits
		got, err := passports.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "AB1234567", got.PassportNumber)
		assert.Equal(t, hitsBefore, c.Stats().Hits)
	})

	t.Run("resetting counters gives a clean window", func(t *testing.T) {
		uc.ResetCacheStats()
		stats := c.Stats()
		assert.Zero(t, stats.Hits)
		assert.Zero(t, stats.Misses)
		assert.Zero(t, stats.Invalidations)
	})
}
