package sinks

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/desistd/desist/internal/document"
	"github.com/desistd/desist/internal/router"
)

const insertAuditRecord = `
INSERT INTO audit_records(document_id, filename, verdict, language, source, raw_text, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const insertCaseRecord = `
INSERT INTO case_records(document_id, filename, language, occurred_at)
VALUES ($1, $2, $3, $4)`

// AuditStore writes audit records to PostgreSQL. Records are append-only;
// nothing in the service updates or deletes them.
type AuditStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAuditStore creates an AuditStore over the shared connection pool.
func NewAuditStore(db *sql.DB, logger *slog.Logger) *AuditStore {
	return &AuditStore{
		db:     db,
		logger: logger.With("system", "audit-store"),
	}
}

func (s *AuditStore) Record(ctx context.Context, rec document.AuditRecord) error {
	_, err := s.db.ExecContext(
		ctx,
		insertAuditRecord,
		rec.DocumentID,
		rec.Filename,
		string(rec.Verdict),
		rec.Language,
		rec.Source,
		rec.RawText,
		rec.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert audit record: %w", err)
	}

	s.logger.Debug("audit record written", "document_id", rec.DocumentID, "verdict", rec.Verdict)
	return nil
}

// CaseStore opens case records in PostgreSQL for confirmed cease requests.
type CaseStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewCaseStore creates a CaseStore over the shared connection pool.
func NewCaseStore(db *sql.DB, logger *slog.Logger) *CaseStore {
	return &CaseStore{
		db:     db,
		logger: logger.With("system", "case-store"),
	}
}

func (s *CaseStore) OpenCase(ctx context.Context, payload router.CasePayload) error {
	_, err := s.db.ExecContext(
		ctx,
		insertCaseRecord,
		payload.DocumentID,
		payload.Filename,
		payload.Language,
		payload.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert case record: %w", err)
	}

	s.logger.Info("case opened", "document_id", payload.DocumentID, "filename", payload.Filename)
	return nil
}
