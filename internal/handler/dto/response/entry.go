package response

import (
	"encoding/json"

	"entrypass-engine/internal/domain/entry"
	"entrypass-engine/internal/usecase/commands"
	"entrypass-engine/internal/usecase/queries"
)

type EntryResponse = queries.EntryView

func FromEntryRecord(rec *entry.Record) *EntryResponse {
	return queries.NewEntryView(rec)
}

type SubmitResponse struct {
	Success bool            `json:"success"`
	Receipt json.RawMessage `json:"receipt,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func FromSubmitResult(r *commands.SubmitResult) SubmitResponse {
	return SubmitResponse{
		Success: r.Success,
		Receipt: r.Receipt,
		Error:   r.FailureReason,
	}
}

type ReadinessResponse = queries.ReadinessView
