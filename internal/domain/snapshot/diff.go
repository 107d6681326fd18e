package snapshot

import (
	"slices"

	"entrypass-engine/internal/domain/traveler"
)

// Summary counts changes in a diff result. Significant changes are the subset
// on the destination's allow-list; only those can force a resubmission.
type Summary struct {
	TotalChanges       int `json:"totalChanges"`
	SignificantChanges int `json:"significantChanges"`
}

type Result struct {
	HasChanges    bool     `json:"hasChanges"`
	Summary       Summary  `json:"summary"`
	ChangedFields []string `json:"changedFields"`
}

// defaultSignificantFields is the built-in allow-list applied to every
// destination without an explicit override. Changing any of these after a
// submission invalidates the submitted form.
var defaultSignificantFields = []string{
	traveler.FieldPassportNumber,
	traveler.FieldNationality,
	traveler.FieldArrivalDate,
	traveler.FieldAccommodationAddress,
}

// Policy resolves which changed fields count as significant for a given
// destination. Destinations are expected to diverge here (different
// governments invalidate submissions on different fields), so the list is
// configuration, not a constant.
type Policy struct {
	overrides map[string][]string
}

func NewPolicy(overrides map[string][]string) *Policy {
	return &Policy{overrides: overrides}
}

func (p *Policy) SignificantFields(destinationID string) []string {
	if fields, ok := p.overrides[destinationID]; ok {
		return fields
	}
	return defaultSignificantFields
}

func (p *Policy) isSignificant(destinationID, field string) bool {
	return slices.Contains(p.SignificantFields(destinationID), field)
}

// CalculateDiff compares the snapshot baseline against current traveler data,
// field by field across all four categories. It is a pure function of its
// inputs. Significance is counted per the destination the snapshot's entry
// record belongs to.
func CalculateDiff(policy *Policy, destinationID string, baseline, current traveler.Profile) Result {
	var changed []string
	changed = append(changed, baseline.Passport.CompareFields(current.Passport)...)
	changed = append(changed, baseline.PersonalInfo.CompareFields(current.PersonalInfo)...)
	changed = append(changed, baseline.Funds.CompareFields(current.Funds)...)
	changed = append(changed, baseline.TravelInfo.CompareFields(current.TravelInfo)...)

	significant := 0
	for _, f := range changed {
		if policy.isSignificant(destinationID, f) {
			significant++
		}
	}

	return Result{
		HasChanges: len(changed) > 0,
		Summary: Summary{
			TotalChanges:       len(changed),
			SignificantChanges: significant,
		},
		ChangedFields: changed,
	}
}

// RequiresImmediateResubmission is true iff at least one significant field
// changed. Non-significant changes still show in the summary but never force
// a resubmission on their own.
func RequiresImmediateResubmission(r Result) bool {
	return r.Summary.SignificantChanges > 0
}
