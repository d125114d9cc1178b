package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	dcconfig "github.com/JaimeStill/document-context/pkg/config"
	"github.com/JaimeStill/document-context/pkg/document"
	"github.com/JaimeStill/document-context/pkg/image"
	"github.com/ledongthuc/pdf"
	"golang.org/x/sync/errgroup"
)

const sourcePDF = "source.pdf"

// pdfTextLayer pulls the embedded text layer from a PDF. The parser can
// panic on malformed files, so the recover converts that into an error
// instead of taking the worker down.
func pdfTextLayer(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("read text layer: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("read text layer: %w", err)
	}

	return sb.String(), nil
}

// ocrPDF renders every page of the PDF to PNG via ImageMagick and runs
// each image through the OCR service. Page order is preserved in the
// combined text.
func (e *Extractor) ocrPDF(ctx context.Context, data []byte, workDir string) (string, error) {
	pdfPath := filepath.Join(workDir, sourcePDF)
	if err := os.WriteFile(pdfPath, data, 0600); err != nil {
		return "", fmt.Errorf("write temp pdf: %w", err)
	}

	pdfDoc, err := document.OpenPDF(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer pdfDoc.Close()

	renderer, err := image.NewImageMagickRenderer(dcconfig.DefaultImageConfig())
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}

	pages, err := pdfDoc.ExtractAllPages()
	if err != nil {
		return "", fmt.Errorf("extract pages: %w", err)
	}

	texts := make([]string, len(pages))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(renderWorkerCount(len(pages)))

	for i, page := range pages {
		pageNum := i + 1

		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			img, err := page.ToImage(renderer, nil)
			if err != nil {
				return fmt.Errorf("render page %d: %w", pageNum, err)
			}

			text, err := e.recognizer.Recognize(gctx, img, "image/png")
			if err != nil {
				return fmt.Errorf("ocr page %d: %w", pageNum, err)
			}

			texts[i] = text
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return "", err
	}

	return strings.Join(texts, "\n"), nil
}

func renderWorkerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}
