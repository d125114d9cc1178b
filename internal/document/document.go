// Package document defines the shared data model for a submitted document
// as it moves through extraction, classification, and routing.
package document

import (
	"time"

	"github.com/google/uuid"

	"github.com/desistd/desist/internal/classifier"
)

// Document is one submitted file undergoing classification. A Document is
// created at intake, flows through exactly one classification pass and one
// routing pass, and is discarded once its audit record and sink payload
// have been handed to external storage.
type Document struct {
	// ID is assigned at intake and is unique across concurrent submissions.
	ID uuid.UUID `json:"id"`
	// Filename is the original upload name. Untrusted; display and audit only.
	Filename string `json:"filename"`
	// RawText is the extracted text. Empty means "no text found", a valid
	// terminal state distinct from extraction failure.
	RawText string `json:"raw_text"`
	// Language is a best-effort tag, "unknown" when detection fails.
	// A hint, not a constraint.
	Language string `json:"language"`
	// Verdict is set once when classification completes and is never
	// overwritten for this processing instance.
	Verdict classifier.Verdict `json:"verdict,omitempty"`
	// Timestamp is assigned at the moment classification completes and is
	// the sort key for all recency queries.
	Timestamp time.Time `json:"timestamp"`
}

// AuditRecord is the append-only fact written once per processed document.
// It exists independently of the routed sink outcome: the audit write is
// attempted even when the category sink write fails.
type AuditRecord struct {
	DocumentID uuid.UUID          `json:"document_id"`
	Filename   string             `json:"filename"`
	Verdict    classifier.Verdict `json:"verdict"`
	Language   string             `json:"language"`
	Source     string             `json:"source"`
	RawText    string             `json:"raw_text"`
	Timestamp  time.Time          `json:"timestamp"`
}
