package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/events"
	"entrypass-engine/internal/infra"
	"entrypass-engine/internal/infra/cache"
	"entrypass-engine/internal/infra/store"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// recordDoc is the persisted shape of an entry record. The entity keeps its
// fields unexported to guard transitions, so persistence round-trips through
// this document.
type recordDoc struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"userId"`
	DestinationID        string          `json:"destinationId"`
	Status               entry.Status    `json:"status"`
	ArrivalDate          *time.Time      `json:"arrivalDate,omitempty"`
	SubmittedAt          *time.Time      `json:"submittedAt,omitempty"`
	SupersededAt         *time.Time      `json:"supersededAt,omitempty"`
	ExpiredAt            *time.Time      `json:"expiredAt,omitempty"`
	ArchivedAt           *time.Time      `json:"archivedAt,omitempty"`
	SubmissionReceipt    json.RawMessage `json:"submissionReceipt,omitempty"`
	LastTransitionReason string          `json:"lastTransitionReason,omitempty"`
	LastChangedFields    []string        `json:"lastChangedFields,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func toDoc(r *entry.Record) recordDoc {
	return recordDoc{
		ID:                   r.ID(),
		UserID:               r.UserID(),
		DestinationID:        r.DestinationID(),
		Status:               r.Status(),
		ArrivalDate:          r.ArrivalDate(),
		SubmittedAt:          r.SubmittedAt(),
		SupersededAt:         r.SupersededAt(),
		ExpiredAt:            r.ExpiredAt(),
		ArchivedAt:           r.ArchivedAt(),
		SubmissionReceipt:    r.SubmissionReceipt(),
		LastTransitionReason: r.LastTransitionReason(),
		LastChangedFields:    r.LastChangedFields(),
		CreatedAt:            r.CreatedAt(),
		UpdatedAt:            r.UpdatedAt(),
	}
}

func fromDoc(d recordDoc) *entry.Record {
	return entry.Reconstruct(
		d.ID, d.UserID, d.DestinationID, d.Status,
		d.ArrivalDate, d.SubmittedAt, d.SupersededAt, d.ExpiredAt, d.ArchivedAt,
		d.SubmissionReceipt, d.LastTransitionReason, d.LastChangedFields,
		d.CreatedAt, d.UpdatedAt,
	)
}

// EntryRepository owns persistence of entry records and enforces the "one
// non-archived record per (user, destination)" invariant on create. The
// cache holds the active record per destination.
type EntryRepository struct {
	store store.Store
	cache cache.Table[recordDoc]
	bus   *events.Bus
	clock clock.Clock
}

func NewEntryRepository(st store.Store, c *cache.Cache, bus *events.Bus, clk clock.Clock) *EntryRepository {
	return &EntryRepository{
		store: st,
		cache: cache.NewTable[recordDoc](c, traveler.DataEntryRecord),
		bus:   bus,
		clock: clk,
	}
}

// Create persists a fresh record, rejecting it if another non-archived record
// already exists for the same (user, destination).
func (r *EntryRepository) Create(ctx context.Context, rec *entry.Record) error {
	existing, err := r.ActiveByUserAndDestination(ctx, rec.UserID(), rec.DestinationID())
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		return err
	}
	if existing != nil {
		return infra.WrapRepoErr(infra.KindConflict, "active entry record exists", errs.ErrEntryAlreadyActive)
	}
	return r.Save(ctx, rec)
}

// Save upserts the record following the write discipline: store first, then
// cache, then event. Archived records are written through but evicted from
// the active-record cache slot.
func (r *EntryRepository) Save(ctx context.Context, rec *entry.Record) error {
	doc := toDoc(rec)
	payload, err := json.Marshal(doc)
	if err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to encode entry record", err)
	}
	if err := r.store.Save(ctx, store.Record{
		Kind:          store.KindEntryRecord,
		ID:            rec.ID().String(),
		UserID:        rec.UserID(),
		DestinationID: rec.DestinationID(),
		Payload:       payload,
	}); err != nil {
		return infra.WrapRepoErr(infra.KindStoreFailure, "failed to save entry record", err)
	}

	key := cache.DestKey(rec.UserID(), rec.DestinationID())
	r.cache.Invalidate(key)
	if !rec.Status().IsArchived() {
		r.cache.Set(key, rec.UserID(), doc)
	}

	r.bus.Publish(ctx, events.NewDataChanged(
		traveler.DataEntryRecord, rec.UserID(), rec.DestinationID(),
		[]string{"status"}, r.clock.Now()))
	return nil
}

func (r *EntryRepository) ByID(ctx context.Context, id uuid.UUID) (*entry.Record, error) {
	rec, err := r.store.Get(ctx, store.KindEntryRecord, id.String())
	if errors.Is(err, store.ErrNotFound) {
		return nil, infra.WrapRepoErr(infra.KindNotFound, "entry record not found", errs.ErrEntryNotFound)
	}
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to load entry record", err)
	}
	return r.decode(rec.Payload)
}

// ActiveByUserAndDestination returns the single non-archived record for the
// pair, or a NOT_FOUND error.
func (r *EntryRepository) ActiveByUserAndDestination(ctx context.Context, userID uuid.UUID, destinationID string) (*entry.Record, error) {
	key := cache.DestKey(userID, destinationID)
	if doc, ok := r.cache.Get(key); ok {
		return fromDoc(doc), nil
	}

	recs, err := r.store.ByUserAndDestination(ctx, store.KindEntryRecord, userID, destinationID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to query entry records", err)
	}
	for _, rec := range recs {
		record, err := r.decode(rec.Payload)
		if err != nil {
			return nil, err
		}
		if !record.Status().IsArchived() {
			r.cache.Set(key, userID, toDoc(record))
			return record, nil
		}
	}
	return nil, infra.WrapRepoErr(infra.KindNotFound, "no active entry record", errs.ErrEntryNotFound)
}

// NonArchivedByUser lists every record the sweeper must look at.
func (r *EntryRepository) NonArchivedByUser(ctx context.Context, userID uuid.UUID) ([]*entry.Record, error) {
	return r.byUserFiltered(ctx, userID, func(rec *entry.Record) bool {
		return !rec.Status().IsArchived()
	})
}

// SubmittedByUser feeds the resubmission watcher.
func (r *EntryRepository) SubmittedByUser(ctx context.Context, userID uuid.UUID) ([]*entry.Record, error) {
	return r.byUserFiltered(ctx, userID, func(rec *entry.Record) bool {
		return rec.Status() == entry.StatusSubmitted
	})
}

func (r *EntryRepository) AllByUser(ctx context.Context, userID uuid.UUID) ([]*entry.Record, error) {
	return r.byUserFiltered(ctx, userID, func(*entry.Record) bool { return true })
}

// Users enumerates every user with at least one entry record.
func (r *EntryRepository) Users(ctx context.Context) ([]uuid.UUID, error) {
	users, err := r.store.Users(ctx, store.KindEntryRecord)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to enumerate users", err)
	}
	return users, nil
}

func (r *EntryRepository) byUserFiltered(ctx context.Context, userID uuid.UUID, keep func(*entry.Record) bool) ([]*entry.Record, error) {
	recs, err := r.store.ByUser(ctx, store.KindEntryRecord, userID)
	if err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to query entry records", err)
	}
	var out []*entry.Record
	for _, rec := range recs {
		record, err := r.decode(rec.Payload)
		if err != nil {
			return nil, err
		}
		if keep(record) {
			out = append(out, record)
		}
	}
	return out, nil
}

func (r *EntryRepository) decode(payload []byte) (*entry.Record, error) {
	var doc recordDoc
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, infra.WrapRepoErr(infra.KindStoreFailure, "failed to decode entry record", err)
	}
	return fromDoc(doc), nil
}
