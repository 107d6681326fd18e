package repository

import (
	"context"
	"encoding/json"
	"errors"

	"entrypass-engine/internal/domain/snapshot"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// SnapshotRepository keeps exactly one live snapshot per entry record, keyed
// by the record id: a resubmission's fresh snapshot replaces the old baseline
// in the same slot. Snapshots bypass the TTL cache; they are read only on
// data-change fan-out and submissions.
type SnapshotRepository struct {
	store store.Store
}

func NewSnapshotRepository(st store.Store) *SnapshotRepository {
	return &SnapshotRepository{store: st}
}

func (r *SnapshotRepository) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to encode snapshot", err)
	}
	if err := r.store.Save(ctx, store.Record{
		Kind:    store.KindSnapshot,
		ID:      snap.EntryInfoID.String(),
		UserID:  snap.UserID,
		Payload: payload,
	}); err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to save snapshot", err)
	}
	return nil
}

func (r *SnapshotRepository) LatestForEntry(ctx context.Context, entryInfoID uuid.UUID) (*snapshot.Snapshot, error) {
	rec, err := r.store.Get(ctx, store.KindSnapshot, entryInfoID.String())
	if errors.Is(err, store.ErrNotFound) {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "snapshot not found", errs.ErrSnapshotNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to load snapshot", err)
	}

	var snap snapshot.Snapshot
	if err := json.Unmarshal(rec.Payload, &snap); err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to decode snapshot", err)
	}
	return &snap, nil
}
