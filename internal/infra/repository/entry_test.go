//go:build unit

package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/infra/repository"
	"entrypass-engine/internal/pkg/errs"
	"entrypass-engine/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryRepositoryCreate(t *testing.T) {
	ctx := context.Background()
	h := newRepoHarness(t)
	repo := repository.NewEntryRepository(h.store, h.cache, h.bus, h.clk)
	rec := builder.NewEntryBuilder().Build()

	require.NoError(t, repo.Create(ctx, rec))

	t.Run("a second active record for the pair conflicts", func(t *testing.T) {
		dup := builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) {
			b.UserID = rec.UserID()
		}).Build()

		err := repo.Create(ctx, dup)
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindConflict))
		assert.True(t, errors.Is(err, errs.ErrEntryAlreadyActive))
	})

	t.Run("a different destination is fine", func(t *testing.T) {
		other := builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) {
			b.UserID = rec.UserID()
			b.DestinationID = "SG"
		}).Build()

		assert.NoError(t, repo.Create(ctx, other))
	})

	t.Run("archiving frees the slot", func(t *testing.T) {
		require.NoError(t, rec.Archive("arrival window closed", h.clk.Now()))
		require.NoError(t, repo.Save(ctx, rec))

		fresh := builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) {
			b.UserID = rec.UserID()
		}).Build()
		assert.NoError(t, repo.Create(ctx, fresh))
	})
}

func TestEntryRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newRepoHarness(t)
	repo := repository.NewEntryRepository(h.store, h.cache, h.bus, h.clk)

	rec := builder.NewEntryBuilder().BuildSubmitted()
	require.NoError(t, repo.Create(ctx, rec))

	// Expire the cache slot so the read goes through the store decode path.
	h.clk.Add(10 * time.Minute)

	got, err := repo.ByID(ctx, rec.ID())
	require.NoError(t, err)
	assert.Equal(t, rec.ID(), got.ID())
	assert.Equal(t, entry.StatusSubmitted, got.Status())
	assert.JSONEq(t, `{"receiptId":"r-1"}`, string(got.SubmissionReceipt()))
	require.NotNil(t, got.SubmittedAt())
	require.NotNil(t, got.ArrivalDate())
	assert.True(t, rec.ArrivalDate().Equal(*got.ArrivalDate()))
}

func TestEntryRepositoryByIDNotFound(t *testing.T) {
	h := newRepoHarness(t)
	repo := repository.NewEntryRepository(h.store, h.cache, h.bus, h.clk)

	_, err := repo.ByID(context.Background(), builder.NewEntryBuilder().Build().ID())
	require.Error(t, err)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
	assert.True(t, errors.Is(err, errs.ErrEntryNotFound))
}

func TestActiveByUserAndDestination(t *testing.T) {
	ctx := context.Background()
	h := newRepoHarness(t)
	repo := repository.NewEntryRepository(h.store, h.cache, h.bus, h.clk)

	rec := builder.NewEntryBuilder().Build()
	require.NoError(t, repo.Create(ctx, rec))

	t.Run("serves repeat lookups from cache", func(t *testing.T) {
		before := h.cache.Stats().Hits
		got, err := repo.ActiveByUserAndDestination(ctx, rec.UserID(), rec.DestinationID())
		require.NoError(t, err)
		assert.Equal(t, rec.ID(), got.ID())
		assert.Greater(t, h.cache.Stats().Hits, before)
	})

	t.Run("archived records are not active", func(t *testing.T) {
		require.NoError(t, rec.Archive("arrival window closed", h.clk.Now()))
		require.NoError(t, repo.Save(ctx, rec))

		_, err := repo.ActiveByUserAndDestination(ctx, rec.UserID(), rec.DestinationID())
		require.Error(t, err)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestUserScopedListings(t *testing.T) {
	ctx := context.Background()
	h := newRepoHarness(t)
	repo := repository.NewEntryRepository(h.store, h.cache, h.bus, h.clk)

	submitted := builder.NewEntryBuilder().BuildSubmitted()
	inProgress := builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) {
		b.UserID = submitted.UserID()
		b.DestinationID = "SG"
	}).Build()
	archived := builder.NewEntryBuilder().With(func(b *builder.EntryBuilder) {
		b.UserID = submitted.UserID()
		b.DestinationID = "TH"
	}).Build()
	require.NoError(t, archived.Archive("arrival window closed", h.clk.Now()))

	for _, rec := range []*entry.Record{submitted, inProgress, archived} {
		require.NoError(t, repo.Save(ctx, rec))
	}

	nonArchived, err := repo.NonArchivedByUser(ctx, submitted.UserID())
	require.NoError(t, err)
	assert.Len(t, nonArchived, 2)

	onlySubmitted, err := repo.SubmittedByUser(ctx, submitted.UserID())
	require.NoError(t, err)
	require.Len(t, onlySubmitted, 1)
	assert.Equal(t, submitted.ID(), onlySubmitted[0].ID())

	all, err := repo.AllByUser(ctx, submitted.UserID())
	require.NoError(t, err)
	assert.Len(t, all, 3)

	users, err := repo.Users(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{submitted.UserID()}, users)
}
