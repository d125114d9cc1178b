// Package records provides read access to the processing trail: the
// append-only audit records and the case records opened for confirmed
// cease requests. Writes happen in the pipeline sinks; this package only
// queries.
package records

import (
	"time"

	"github.com/google/uuid"
)

// Record is one audit entry. Written once per processed document, never
// mutated.
type Record struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Verdict    string    `json:"verdict"`
	Language   string    `json:"language"`
	Source     string    `json:"source"`
	RawText    string    `json:"raw_text"`
	RecordedAt time.Time `json:"recorded_at"`
}

// CaseRecord is one opened case.
type CaseRecord struct {
	ID         uuid.UUID `json:"id"`
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Language   string    `json:"language"`
	OccurredAt time.Time `json:"occurred_at"`
}
