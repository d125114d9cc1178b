package sinks

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/desistd/desist/internal/router"
)

func TestArchiveKey(t *testing.T) {
	id := uuid.MustParse("a7e5b8c2-4f1d-4e9a-b3c6-1d2e3f4a5b6c")
	ts := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{
			"simple filename",
			"letter.pdf",
			"2026/03/14/a7e5b8c2-4f1d-4e9a-b3c6-1d2e3f4a5b6c-letter.pdf.json",
		},
		{
			"spaces and unicode",
			"märz brief (final).pdf",
			"2026/03/14/a7e5b8c2-4f1d-4e9a-b3c6-1d2e3f4a5b6c-m_rz_brief__final_.pdf.json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := archiveKey(router.ArchivePayload{
				DocumentID: id,
				Filename:   tt.filename,
				Timestamp:  ts,
			})
			if got != tt.want {
				t.Errorf("archiveKey() = %q, want %q", got, tt.want)
			}
		})
	}

	t.Run("traversal attempt", func(t *testing.T) {
		got := archiveKey(router.ArchivePayload{
			DocumentID: id,
			Filename:   "../../etc/passwd",
			Timestamp:  ts,
		})
		if strings.Contains(got, "..") {
			t.Errorf("archiveKey() = %q, contains traversal sequence", got)
		}
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "letter.pdf", "letter.pdf"},
		{"spaces", "my letter.pdf", "my_letter.pdf"},
		{"consecutive dots", "a...b.pdf", "a.b.pdf"},
		{"trailing dots", "letter..", "letter"},
		{"slashes", "a/b\\c.txt", "a_b_c.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
