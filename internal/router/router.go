// Package router maps a classification verdict to the sink that must
// receive the document, projecting only the fields that sink needs. The
// mapping is pure and total over the canonical verdicts; an unrecognized
// verdict is an error, never a silent drop.
package router

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/desistd/desist/internal/classifier"
	"github.com/desistd/desist/internal/document"
)

// SinkName identifies a routing destination.
type SinkName string

// Routing destinations.
const (
	SinkCaseStore   SinkName = "case_store"
	SinkReviewQueue SinkName = "review_queue"
	SinkArchive     SinkName = "archive"
)

// Payload is the projected view of a document bound for a sink. Each sink
// receives only what it needs; in particular the archive never sees raw
// text.
type Payload interface {
	Sink() SinkName
}

// CasePayload opens a case for a confirmed cease request.
type CasePayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Language   string    `json:"language"`
	Timestamp  time.Time `json:"timestamp"`
}

func (CasePayload) Sink() SinkName { return SinkCaseStore }

// ReviewPayload queues an ambiguous document for a human reviewer. It
// carries the raw text so the reviewer can decide without re-extraction.
type ReviewPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Language   string    `json:"language"`
	RawText    string    `json:"raw_text"`
	Timestamp  time.Time `json:"timestamp"`
}

func (ReviewPayload) Sink() SinkName { return SinkReviewQueue }

// ArchivePayload records an irrelevant document for retention.
type ArchivePayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Timestamp  time.Time `json:"timestamp"`
}

func (ArchivePayload) Sink() SinkName { return SinkArchive }

// Route selects the destination sink for a classified document and builds
// its projected payload.
func Route(doc document.Document) (Payload, error) {
	switch doc.Verdict {
	case classifier.VerdictCease:
		return CasePayload{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Language:   doc.Language,
			Timestamp:  doc.Timestamp,
		}, nil
	case classifier.VerdictUncertain:
		return ReviewPayload{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Language:   doc.Language,
			RawText:    doc.RawText,
			Timestamp:  doc.Timestamp,
		}, nil
	case classifier.VerdictIrrelevant:
		return ArchivePayload{
			DocumentID: doc.ID,
			Filename:   doc.Filename,
			Timestamp:  doc.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnroutableVerdict, doc.Verdict)
	}
}
