// Package sinks holds the destinations a classified document can land in.
// The audit sink is written for every processed document regardless of the
// routed destination; the three category sinks each receive only the
// verdicts routed to them. Sink failures are reported to the caller but
// never abort sibling writes.
package sinks

import (
	"context"

	"github.com/desistd/desist/internal/document"
	"github.com/desistd/desist/internal/router"
)

// AuditSink records the immutable processing fact for every document.
type AuditSink interface {
	Record(ctx context.Context, rec document.AuditRecord) error
}

// CaseSink opens a case for a confirmed cease request.
type CaseSink interface {
	OpenCase(ctx context.Context, payload router.CasePayload) error
}

// ReviewSink hands an ambiguous document to human review.
type ReviewSink interface {
	Enqueue(ctx context.Context, payload router.ReviewPayload) error
}

// ArchiveSink retains an irrelevant document's metadata.
type ArchiveSink interface {
	Archive(ctx context.Context, payload router.ArchivePayload) error
}
