package entry

// Status is the stored lifecycle state of an entry record. "Ready for
// submission" is deliberately absent: it is derived from traveler data
// completeness, never persisted.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusSubmitted  Status = "submitted"
	StatusSuperseded Status = "superseded"
	StatusExpired    Status = "expired"
	StatusArchived   Status = "archived"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusInProgress, StatusSubmitted, StatusSuperseded, StatusExpired, StatusArchived:
		return true
	default:
		return false
	}
}

// IsArchived reports the single terminal state. No transition ever leaves it.
func (s Status) IsArchived() bool {
	return s == StatusArchived
}

// NeedsSubmission reports states where the reminder notification families
// (window-open, urgent, deadline) are still relevant.
func (s Status) NeedsSubmission() bool {
	return s == StatusInProgress || s == StatusSuperseded || s == StatusExpired
}
