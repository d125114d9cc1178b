package records

import (
	"net/url"

	"github.com/google/uuid"

	"github.com/desistd/desist/pkg/query"
	"github.com/desistd/desist/pkg/repository"
)

var auditProjection = query.
	NewProjectionMap("public", "audit_records", "a").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("filename", "Filename").
	Project("verdict", "Verdict").
	Project("language", "Language").
	Project("source", "Source").
	Project("raw_text", "RawText").
	Project("recorded_at", "RecordedAt")

var caseProjection = query.
	NewProjectionMap("public", "case_records", "c").
	Project("id", "ID").
	Project("document_id", "DocumentID").
	Project("filename", "Filename").
	Project("language", "Language").
	Project("occurred_at", "OccurredAt")

var auditDefaultSort = query.SortField{
	Field:      "RecordedAt",
	Descending: true,
}

var caseDefaultSort = query.SortField{
	Field:      "OccurredAt",
	Descending: true,
}

// Filters contains optional filtering criteria for audit queries. Nil
// fields are ignored. Filename matches as a substring; the rest match
// exactly.
type Filters struct {
	Verdict    *string    `json:"verdict,omitempty"`
	Language   *string    `json:"language,omitempty"`
	Source     *string    `json:"source,omitempty"`
	Filename   *string    `json:"filename,omitempty"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Verdict", f.Verdict).
		WhereEquals("Language", f.Language).
		WhereEquals("Source", f.Source).
		WhereEquals("DocumentID", f.DocumentID).
		WhereContains("Filename", f.Filename)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if v := values.Get("verdict"); v != "" {
		f.Verdict = &v
	}

	if l := values.Get("language"); l != "" {
		f.Language = &l
	}

	if s := values.Get("source"); s != "" {
		f.Source = &s
	}

	if n := values.Get("filename"); n != "" {
		f.Filename = &n
	}

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	return f
}

// CaseFilters contains optional filtering criteria for case queries.
type CaseFilters struct {
	Language   *string    `json:"language,omitempty"`
	Filename   *string    `json:"filename,omitempty"`
	DocumentID *uuid.UUID `json:"document_id,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f CaseFilters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Language", f.Language).
		WhereEquals("DocumentID", f.DocumentID).
		WhereContains("Filename", f.Filename)
}

// CaseFiltersFromQuery extracts case filter values from URL query
// parameters.
func CaseFiltersFromQuery(values url.Values) CaseFilters {
	var f CaseFilters

	if l := values.Get("language"); l != "" {
		f.Language = &l
	}

	if n := values.Get("filename"); n != "" {
		f.Filename = &n
	}

	if d := values.Get("document_id"); d != "" {
		if id, err := uuid.Parse(d); err == nil {
			f.DocumentID = &id
		}
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record

	err := s.Scan(
		&r.ID,
		&r.DocumentID,
		&r.Filename,
		&r.Verdict,
		&r.Language,
		&r.Source,
		&r.RawText,
		&r.RecordedAt,
	)

	return r, err
}

func scanCaseRecord(s repository.Scanner) (CaseRecord, error) {
	var c CaseRecord

	err := s.Scan(
		&c.ID,
		&c.DocumentID,
		&c.Filename,
		&c.Language,
		&c.OccurredAt,
	)

	return c, err
}
