package response

import (
	"entrypass-engine/internal/domain/traveler"
	"entrypass-engine/internal/notify"
	"entrypass-engine/internal/usecase/commands"
)

// SaveResponse wraps a merge-write result: the full merged value plus the
// fields this write actually changed (empty when the write was a no-op).
type SaveResponse[T any] struct {
	Data          T        `json:"data"`
	ChangedFields []string `json:"changedFields"`
}

func FromPassportOutcome(o *commands.SaveOutcome[traveler.Passport]) SaveResponse[traveler.Passport] {
	return SaveResponse[traveler.Passport]{Data: o.Merged, ChangedFields: changedOrEmpty(o.ChangedFields)}
}

func FromPersonalInfoOutcome(o *commands.SaveOutcome[traveler.PersonalInfo]) SaveResponse[traveler.PersonalInfo] {
	return SaveResponse[traveler.PersonalInfo]{Data: o.Merged, ChangedFields: changedOrEmpty(o.ChangedFields)}
}

func FromFundsOutcome(o *commands.SaveOutcome[traveler.Funds]) SaveResponse[traveler.Funds] {
	return SaveResponse[traveler.Funds]{Data: o.Merged, ChangedFields: changedOrEmpty(o.ChangedFields)}
}

func FromTravelInfoOutcome(o *commands.SaveOutcome[traveler.TravelInfo]) SaveResponse[traveler.TravelInfo] {
	return SaveResponse[traveler.TravelInfo]{Data: o.Merged, ChangedFields: changedOrEmpty(o.ChangedFields)}
}

type NotificationPreferenceResponse = notify.Preference

func changedOrEmpty(fields []string) []string {
	if fields == nil {
		return []string{}
	}
	return fields
}
