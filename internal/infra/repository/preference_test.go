//go:build unit

package repository_test

import (
	"context"
	"testing"

	"entrypass-engine/internal/infra/repository"
	"entrypass-engine/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceRepository(t *testing.T) {
	ctx := context.Background()
	h := newRepoHarness(t)
	repo := repository.NewPreferenceRepository(h.store)
	userID := uuid.New()

	t.Run("absent preference reads as nil", func(t *testing.T) {
		pref, err := repo.GetPreference(ctx, userID, "JP")
		require.NoError(t, err)
		assert.Nil(t, pref)
	})

	t.Run("round trip", func(t *testing.T) {
		in := notify.Preference{
			UserID:        userID,
			DestinationID: "JP",
			DisabledKinds: []notify.Kind{notify.KindArchival},
		}
		require.NoError(t, repo.PutPreference(ctx, in))

		got, err := repo.GetPreference(ctx, userID, "JP")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, in, *got)
		assert.True(t, got.Disabled(notify.KindArchival))
		assert.False(t, got.Disabled(notify.KindUrgent))
	})

	t.Run("preferences are destination scoped", func(t *testing.T) {
		pref, err := repo.GetPreference(ctx, userID, "SG")
		require.NoError(t, err)
		assert.Nil(t, pref)
	})

	t.Run("put replaces the stored list", func(t *testing.T) {
		require.NoError(t, repo.PutPreference(ctx, notify.Preference{
			UserID:        userID,
			DestinationID: "JP",
		}))

		got, err := repo.GetPreference(ctx, userID, "JP")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Empty(t, got.DisabledKinds)
	})
}
