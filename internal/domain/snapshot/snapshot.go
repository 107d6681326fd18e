package snapshot

import (
	"time"

	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// Snapshot is the immutable copy of all traveler data taken at the moment of
// a successful submission. It is the diff baseline for detecting changes that
// require resubmission. Exactly one live snapshot exists per entry record; a
// resubmission replaces it.
type Snapshot struct {
	ID          uuid.UUID        `json:"id"`
	EntryInfoID uuid.UUID        `json:"entryInfoId"`
	UserID      uuid.UUID        `json:"userId"`
	Profile     traveler.Profile `json:"profile"`
	TakenAt     time.Time        `json:"takenAt"`
}

// Capture deep-copies the profile so later in-place mutations of the live
// traveler data can never bleed into the stored baseline.
func Capture(entryInfoID, userID uuid.UUID, profile traveler.Profile, now time.Time) (*Snapshot, error) {
	var frozen traveler.Profile
	if err := copier.CopyWithOption(&frozen, &profile, copier.Option{DeepCopy: true}); err != nil {
		return nil, errs.Wrap(err, "failed to copy traveler profile")
	}
	return &Snapshot{
		ID:          uuid.New(),
		EntryInfoID: entryInfoID,
		UserID:      userID,
		Profile:     frozen,
		TakenAt:     now,
	}, nil
}
