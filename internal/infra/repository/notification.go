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

// NotificationRepository persists one ScheduledNotification row per
// (entry record, family). Rows are tiny bookkeeping documents and are
// read rarely, so they bypass the TTL cache.
type NotificationRepository struct {
	store store.Store
}

func NewNotificationRepository(st store.Store) *NotificationRepository {
	return &NotificationRepository{store: st}
}

func notificationID(entryID uuid.UUID, kind notify.Kind) string {
	return fmt.Sprintf("%s_%s", entryID, kind)
}

func (r *NotificationRepository) Get(ctx context.Context, entryID uuid.UUID, kind notify.Kind) (*notify.ScheduledNotification, error) {
	rec, err := r.store.Get(ctx, store.KindScheduledNotification, notificationID(entryID, kind))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to load notification metadata", err)
	}

	var n notify.ScheduledNotification
	if err := json.Unmarshal(rec.Payload, &n); err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to decode notification metadata", err)
	}
	return &n, nil
}

func (r *NotificationRepository) Put(ctx context.Context, n notify.ScheduledNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to encode notification metadata", err)
	}
	if err := r.store.Save(ctx, store.Record{
		Kind:    store.KindScheduledNotification,
		ID:      notificationID(n.EntryPackID, n.Kind),
		UserID:  n.UserID,
		Payload: payload,
	}); err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to save notification metadata", err)
	}
	return nil
}

func (r *NotificationRepository) ByEntry(ctx context.Context, entryID uuid.UUID) ([]notify.ScheduledNotification, error) {
	var out []notify.ScheduledNotification
	for _, kind := range notify.AllKinds() {
		n, err := r.Get(ctx, entryID, kind)
		if err != nil {
			return nil, err
		}
		if n != nil {
			out = append(out, *n)
		}
	}
	return out, nil
}
