// Package extract turns uploaded document bytes into plain text. PDFs use
// the embedded text layer when one exists and fall back to rendering pages
// through ImageMagick for OCR when they are pure scans. Standalone images
// go straight to OCR. Plain text passes through untouched.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Supported reports whether a content type can be extracted. Callers can
// reject uploads early instead of spending a pipeline run on them.
func Supported(contentType string) bool {
	return contentType == "application/pdf" ||
		strings.HasPrefix(contentType, "image/") ||
		strings.HasPrefix(contentType, "text/")
}

// Source extracts text from raw document content. workDir is a per-run
// scratch directory owned by the caller; implementations may write
// intermediate artifacts there and must not clean it up themselves.
type Source interface {
	Extract(ctx context.Context, data []byte, contentType, workDir string) (string, error)
}

// Extractor is the production Source backed by an OCR service. recognizer
// may be nil, in which case scanned PDFs and images fail extraction rather
// than silently producing empty text.
type Extractor struct {
	recognizer Recognizer
	logger     *slog.Logger
}

// New creates an Extractor.
func New(recognizer Recognizer, logger *slog.Logger) *Extractor {
	return &Extractor{
		recognizer: recognizer,
		logger:     logger.With("system", "extract"),
	}
}

func (e *Extractor) Extract(ctx context.Context, data []byte, contentType, workDir string) (string, error) {
	switch {
	case contentType == "application/pdf":
		return e.extractPDF(ctx, data, workDir)
	case strings.HasPrefix(contentType, "image/"):
		return e.extractImage(ctx, data, contentType)
	case strings.HasPrefix(contentType, "text/"):
		return extractText(data)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
}

func (e *Extractor) extractPDF(ctx context.Context, data []byte, workDir string) (string, error) {
	text, err := pdfTextLayer(data)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	if strings.TrimSpace(text) != "" {
		return text, nil
	}

	// No text layer means a scanned document.
	if e.recognizer == nil {
		return "", fmt.Errorf("%w: pdf has no text layer and ocr is not configured", ErrExtraction)
	}

	e.logger.Debug("pdf has no text layer, rendering pages for ocr")

	text, err = e.ocrPDF(ctx, data, workDir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	return text, nil
}

func (e *Extractor) extractImage(ctx context.Context, data []byte, contentType string) (string, error) {
	if e.recognizer == nil {
		return "", fmt.Errorf("%w: ocr is not configured", ErrExtraction)
	}

	text, err := e.recognizer.Recognize(ctx, data, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	return text, nil
}

func extractText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: text content is not valid utf-8", ErrExtraction)
	}
	return string(data), nil
}
