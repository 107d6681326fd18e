package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/events"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

// TravelInfoRepository is destination-scoped: one row per (user, destination),
// since a traveler can prepare several destinations' forms at once.
type TravelInfoRepository struct {
	store store.Store
	cache cache.Table[traveler.TravelInfo]
	bus   *events.Bus
	clock clock.Clock
}

func NewTravelInfoRepository(st store.Store, c *cache.Cache, bus *events.Bus, clk clock.Clock) *TravelInfoRepository {
	return &TravelInfoRepository{
		store: st,
		cache: cache.NewTable[traveler.TravelInfo](c, traveler.DataTravelInfo),
		bus:   bus,
		clock: clk,
	}
}

func travelInfoID(userID uuid.UUID, destinationID string) string {
	return fmt.Sprintf("%s_%s", userID, destinationID)
}

func (r *TravelInfoRepository) Get(ctx context.Context, userID uuid.UUID, destinationID string) (traveler.TravelInfo, error) {
	key := cache.DestKey(userID, destinationID)
	if v, ok := r.cache.Get(key); ok {
		return v, nil
	}

	rec, err := r.store.Get(ctx, store.KindTravelInfo, travelInfoID(userID, destinationID))
	if errors.Is(err, store.ErrNotFound) {
		return traveler.TravelInfo{UserID: userID, DestinationID: destinationID}, nil
	}
	if err != nil {
		return traveler.TravelInfo{}, infra.WrapRepoErr(infra.KindStoreFailure, "failed to load travel info", err)
	}

	var v traveler.TravelInfo
	if err := json.Unmarshal(rec.Payload, &v); err != nil {
		return traveler.TravelInfo{}, infra.WrapRepoErr(infra.KindStoreFailure, "failed to decode travel info", err)
	}
	r.cache.Set(key, userID, v)
	return v, nil
}

func (r *TravelInfoRepository) Save(ctx context.Context, userID uuid.UUID, destinationID string, in traveler.TravelInfo) (traveler.TravelInfo, []string, error) {
	base, err := r.Get(ctx, userID, destinationID)
	if err != nil {
		return traveler.TravelInfo{}, nil, err
	}

	merged, changed := base.Merge(in)
	if len(changed) == 0 {
		return merged, nil, nil
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		return traveler.TravelInfo{}, nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to encode travel info", err)
	}
	if err := r.store.Save(ctx, store.Record{
		Kind:          store.KindTravelInfo,
		ID:            travelInfoID(userID, destinationID),
		UserID:        userID,
		DestinationID: destinationID,
		Payload:       payload,
	}); err != nil {
		return traveler.TravelInfo{}, nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to save travel info", err)
	}

	key := cache.DestKey(userID, destinationID)
	r.cache.Invalidate(key)
	r.cache.Set(key, userID, merged)

	r.bus.Publish(ctx, events.NewDataChanged(traveler.DataTravelInfo, userID, destinationID, changed, r.clock.Now()))
	return merged, changed, nil
}
