package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/desistd/desist/internal/router"
	"github.com/desistd/desist/pkg/storage"
)

// Archive retains irrelevant document metadata as JSON blobs. Blob keys
// are date-partitioned so retention policies can expire whole prefixes.
type Archive struct {
	storage storage.System
	logger  *slog.Logger
}

// NewArchive creates an Archive over the shared blob storage system.
func NewArchive(s storage.System, logger *slog.Logger) *Archive {
	return &Archive{
		storage: s,
		logger:  logger.With("system", "archive"),
	}
}

func (a *Archive) Archive(ctx context.Context, payload router.ArchivePayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal archive payload: %w", err)
	}

	key := archiveKey(payload)
	if err := a.storage.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("archive %s: %w", key, err)
	}

	a.logger.Debug("document archived", "document_id", payload.DocumentID, "key", key)
	return nil
}

// archiveKey builds a stable blob key. The document ID guarantees
// uniqueness; the sanitized filename keeps keys browsable.
func archiveKey(payload router.ArchivePayload) string {
	return fmt.Sprintf(
		"%s/%s-%s.json",
		payload.Timestamp.UTC().Format("2006/01/02"),
		payload.DocumentID,
		sanitizeFilename(payload.Filename),
	)
}

func sanitizeFilename(name string) string {
	var sb strings.Builder
	var lastDot bool
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDot = false
		case r == '.':
			// Consecutive dots would form a traversal sequence in the key.
			if !lastDot {
				sb.WriteRune(r)
			}
			lastDot = true
		case r == '-', r == '_':
			sb.WriteRune(r)
			lastDot = false
		default:
			sb.WriteRune('_')
			lastDot = false
		}
	}
	return strings.Trim(sb.String(), ".")
}
