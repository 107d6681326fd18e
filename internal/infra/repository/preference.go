package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/notify"

	"github.com/google/uuid"
)

// PreferenceRepository persists per-destination notification opt-outs. Like
// the scheduled-notification rows these are small bookkeeping documents and
// bypass the TTL cache.
type PreferenceRepository struct {
	store store.Store
}

func NewPreferenceRepository(st store.Store) *PreferenceRepository {
	return &PreferenceRepository{store: st}
}

func preferenceID(userID uuid.UUID, destinationID string) string {
	return fmt.Sprintf("%s_%s", userID, destinationID)
}

func (r *PreferenceRepository) GetPreference(ctx context.Context, userID uuid.UUID, destinationID string) (*notify.Preference, error) {
	rec, err := r.store.Get(ctx, store.KindNotificationPreference, preferenceID(userID, destinationID))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to load notification preference", err)
	}

	var p notify.Preference
	if err := json.Unmarshal(rec.Payload, &p); err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to decode notification preference", err)
	}
	return &p, nil
}

func (r *PreferenceRepository) PutPreference(ctx context.Context, p notify.Preference) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to encode notification preference", err)
	}
	if err := r.store.Save(ctx, store.Record{
		Kind:          store.KindNotificationPreference,
		ID:            preferenceID(p.UserID, p.DestinationID),
		UserID:        p.UserID,
		DestinationID: p.DestinationID,
		Payload:       payload,
	}); err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to save notification preference", err)
	}
	return nil
}
