//go:build unit || e2e

package builder

import (
	"time"

	"entrypass-engine/internal/domain/entry"

	"github.com/google/uuid"
)

type EntryBuilder struct {
	UserID        uuid.UUID
	DestinationID string
	ArrivalDate   *time.Time
	Now           time.Time
}

func NewEntryBuilder() *EntryBuilder {
	arrival := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	return &EntryBuilder{
		UserID:        uuid.New(),
		DestinationID: "JP",
		ArrivalDate:   &arrival,
		Now:           time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *EntryBuilder) With(mutate func(*EntryBuilder)) *EntryBuilder {
	mutate(b)
	return b
}

func (b *EntryBuilder) Build() *entry.Record {
	return entry.NewRecord(b.UserID, b.DestinationID, b.ArrivalDate, b.Now)
}

// BuildSubmitted walks the record through a successful submission.
func (b *EntryBuilder) BuildSubmitted() *entry.Record {
	rec := b.Build()
	if err := rec.Submit([]byte(`{"receiptId":"r-1"}`), b.Now.Add(time.Hour)); err != nil {
		panic(err)
	}
	return rec
}
