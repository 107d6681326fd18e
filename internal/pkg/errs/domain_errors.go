package errs

import "errors"

// Domain-specific sentinel errors shared across usecase layers
var (
	// Entry record errors
	ErrEntryNotFound      = errors.New("entry record not found")
	ErrEntryAlreadyActive = errors.New("active entry record already exists for destination")
	ErrArrivalDateMissing = errors.New("entry record has no arrival date")

	// Submission errors
	ErrSubmissionFailed     = errors.New("submission reported failure")
	ErrSubmissionNotAllowed = errors.New("record status does not allow submission")

	// Snapshot / diff errors
	ErrSnapshotNotFound = errors.New("no snapshot recorded for entry record")

	// Warning errors
	ErrWarningNotFound = errors.New("no pending resubmission warning")

	// Validation errors
	ErrDomainValidation = errors.New("domain validation error")

	// Operation errors
	ErrStoreOperationFailed = errors.New("durable store operation failed")
)
