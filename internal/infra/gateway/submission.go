package gateway

import (
	"context"
	"encoding/json"
	"time"

	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/pkg/clock"
	"entrypass-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

// Receipt is the payload a destination's submission endpoint hands back on
// success. It is stored opaquely on the entry record.
type Receipt struct {
	ReceiptID     string    `json:"receiptId"`
	DestinationID string    `json:"destinationId"`
	SubmittedAt   time.Time `json:"submittedAt"`
	Reference     string    `json:"reference"`
}

// LocalSubmission stands in for the destination authority's API. It validates
// completeness the same way a real endpoint would and issues a receipt.
type LocalSubmission struct {
	clock clock.Clock
}

func NewLocalSubmission(clk clock.Clock) *LocalSubmission {
	return &LocalSubmission{clock: clk}
}

func (g *LocalSubmission) Submit(_ context.Context, destinationID string, profile traveler.Profile) (json.RawMessage, error) {
	if !profile.Complete() {
		return nil, errs.Mark(errs.New("traveler profile incomplete"), errs.ErrSubmissionFailed)
	}

	receipt := Receipt{
		ReceiptID:     uuid.NewString(),
		DestinationID: destinationID,
		SubmittedAt:   g.clock.Now(),
		Reference:     uuid.NewString()[:8],
	}
	payload, err := json.Marshal(receipt)
	if err != nil {
		return nil, errs.Wrap(err, "failed to encode receipt")
	}
	return payload, nil
}
