package repository

import (
	"context"
	"encoding/json"
	"errors"

	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/events"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/pkg/clock"

	"github.com/google/uuid"
)

// Mergeable is the contract every traveler data category satisfies: fold
// non-empty incoming fields over the stored value and report what changed.
type Mergeable[T any] interface {
	Merge(in T) (T, []string)
}

// UserScoped is the shared repository for per-user traveler data (passport,
// personal info, funds). Reads go through the TTL cache; writes follow the
// strict order store -> cache invalidate/repopulate -> change event. A store
// failure aborts before any cache mutation, leaving the cache stale but not
// corrupted. Writes that change nothing emit nothing.
type UserScoped[T Mergeable[T]] struct {
	kind  string
	dt    traveler.DataType
	store store.Store
	cache cache.Table[T]
	bus   *events.Bus
	clock clock.Clock
	empty func(userID uuid.UUID) T
}

func newUserScoped[T Mergeable[T]](
	kind string,
	dt traveler.DataType,
	st store.Store,
	c *cache.Cache,
	bus *events.Bus,
	clk clock.Clock,
	empty func(userID uuid.UUID) T,
) *UserScoped[T] {
	return &UserScoped[T]{
		kind:  kind,
		dt:    dt,
		store: st,
		cache: cache.NewTable[T](c, dt),
		bus:   bus,
		clock: clk,
		empty: empty,
	}
}

// Get returns the stored value, or the empty value when the user has not
// filled this category yet. Cache hits are served without touching the store.
func (r *UserScoped[T]) Get(ctx context.Context, userID uuid.UUID) (T, error) {
	key := cache.UserKey(userID)
	if v, ok := r.cache.Get(key); ok {
		return v, nil
	}

	rec, err := r.store.Get(ctx, r.kind, userID.String())
	if errors.Is(err, store.ErrNotFound) {
		return r.empty(userID), nil
	}
	if err != nil {
		var zero T
		return zero, infra.WrapRepoErr(infra.KindStoreFailure, "failed to load "+r.kind, err)
	}

	var v T
	if err := json.Unmarshal(rec.Payload, &v); err != nil {
		var zero T
		return zero, infra.WrapRepoErr(infra.KindStoreFailure, "failed to decode "+r.kind, err)
	}
	r.cache.Set(key, userID, v)
	return v, nil
}

// Save merges in over the stored value and persists the result. The returned
// field list is empty for no-op writes, which suppress both the cache refresh
// and the DATA_CHANGED event.
func (r *UserScoped[T]) Save(ctx context.Context, userID uuid.UUID, in T) (T, []string, error) {
	base, err := r.Get(ctx, userID)
	if err != nil {
		var zero T
		return zero, nil, err
	}

	merged, changed := base.Merge(in)
	if len(changed) == 0 {
		return merged, nil, nil
	}

	payload, err := json.Marshal(merged)
	if err != nil {
		var zero T
		return zero, nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to encode "+r.kind, err)
	}
	if err := r.store.Save(ctx, store.Record{
		Kind:    r.kind,
		ID:      userID.String(),
		UserID:  userID,
		Payload: payload,
	}); err != nil {
		var zero T
		return zero, nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to save "+r.kind, err)
	}

	key := cache.UserKey(userID)
	r.cache.Invalidate(key)
	r.cache.Set(key, userID, merged)

	r.bus.Publish(ctx, events.NewDataChanged(r.dt, userID, "", changed, r.clock.Now()))
	return merged, changed, nil
}

type PassportRepository struct {
	*UserScoped[traveler.Passport]
}

func NewPassportRepository(st store.Store, c *cache.Cache, bus *events.Bus, clk clock.Clock) *PassportRepository {
	return &PassportRepository{newUserScoped(
		store.KindPassport, traveler.DataPassport, st, c, bus, clk,
		func(userID uuid.UUID) traveler.Passport { return traveler.Passport{UserID: userID} },
	)}
}

type PersonalInfoRepository struct {
	*UserScoped[traveler.PersonalInfo]
}

func NewPersonalInfoRepository(st store.Store, c *cache.Cache, bus *events.Bus, clk clock.Clock) *PersonalInfoRepository {
	return &PersonalInfoRepository{newUserScoped(
		store.KindPersonalInfo, traveler.DataPersonalInfo, st, c, bus, clk,
		func(userID uuid.UUID) traveler.PersonalInfo { return traveler.PersonalInfo{UserID: userID} },
	)}
}

type FundsRepository struct {
	*UserScoped[traveler.Funds]
}

func NewFundsRepository(st store.Store, c *cache.Cache, bus *events.Bus, clk clock.Clock) *FundsRepository {
	return &FundsRepository{newUserScoped(
		store.KindFunds, traveler.DataFunds, st, c, bus, clk,
		func(userID uuid.UUID) traveler.Funds { return traveler.Funds{UserID: userID} },
	)}
}
