package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/desistd/desist/internal/extract"
	"github.com/desistd/desist/pkg/handlers"
	"github.com/desistd/desist/pkg/routes"
)

var (
	// ErrInvalidUpload indicates a malformed multipart submission.
	ErrInvalidUpload = errors.New("invalid upload")

	// ErrUploadTooLarge indicates the submission exceeds the configured
	// upload limit.
	ErrUploadTooLarge = errors.New("upload exceeds size limit")

	// ErrUnsupportedUpload indicates a content type no extraction path
	// handles.
	ErrUnsupportedUpload = errors.New("unsupported content type")
)

// Handler provides the HTTP intake endpoints.
type Handler struct {
	pipeline      *Pipeline
	logger        *slog.Logger
	maxUploadSize int64
}

// NewHandler creates a Handler with the given pipeline and upload size limit.
func NewHandler(pipeline *Pipeline, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		pipeline:      pipeline,
		logger:        logger.With("handler", "intake"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for intake endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/intake",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Intake},
			{Method: "POST", Pattern: "/batch", Handler: h.IntakeBatch},
		},
	}
}

// Intake processes a single multipart file upload through the pipeline
// and returns its Result.
func (h *Handler) Intake(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrUploadTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidUpload)
		return
	}
	defer file.Close()

	item, err := h.buildItem(file, header)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result := h.pipeline.ProcessOne(r.Context(), item)

	handlers.RespondJSON(w, resultStatus(result), result)
}

// IntakeBatch processes every file in the multipart form through the
// pipeline and returns results in submission order. Individual failures
// are reported inline; the batch itself always answers 200.
func (h *Handler) IntakeBatch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrUploadTooLarge)
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidUpload)
		return
	}

	headers := r.MultipartForm.File["files"]
	items := make([]Item, 0, len(headers))

	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidUpload)
			return
		}

		item, err := h.buildItem(file, header)
		file.Close()
		if err != nil {
			handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
			return
		}

		items = append(items, item)
	}

	results := h.pipeline.ProcessBatch(r.Context(), items)

	handlers.RespondJSON(w, http.StatusOK, results)
}

func (h *Handler) buildItem(file multipart.File, header *multipart.FileHeader) (Item, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return Item{}, ErrInvalidUpload
	}

	contentType := detectContentType(header.Header.Get("Content-Type"), data)
	if !extract.Supported(contentType) {
		return Item{}, fmt.Errorf("%w: %s", ErrUnsupportedUpload, contentType)
	}

	return Item{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
		PageCount:   pdfPageCount(h.logger, data, contentType),
	}, nil
}

func resultStatus(result Result) int {
	if result.Error != "" {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func detectContentType(header string, data []byte) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}
	return http.DetectContentType(data)
}

func pdfPageCount(logger *slog.Logger, data []byte, contentType string) int {
	if contentType != "application/pdf" {
		return 0
	}

	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		logger.Warn("failed to extract PDF page count", "error", err)
		return 0
	}

	return count
}
