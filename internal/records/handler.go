package records

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/desistd/desist/pkg/handlers"
	"github.com/desistd/desist/pkg/pagination"
	"github.com/desistd/desist/pkg/routes"
)

// Handler provides HTTP endpoints for audit and case record queries.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// SearchRequest combines pagination and filter criteria for the audit
// search endpoint.
type SearchRequest struct {
	pagination.PageRequest
	Filters
}

// NewHandler creates a Handler with the given system, logger, and
// pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "records"),
		pagination: pagination,
	}
}

// AuditRoutes returns the route group definition for audit endpoints.
func (h *Handler) AuditRoutes() routes.Group {
	return routes.Group{
		Prefix: "/audit",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.ListAudit},
			{Method: "GET", Pattern: "/{id}", Handler: h.FindAudit},
			{Method: "POST", Pattern: "/search", Handler: h.SearchAudit},
		},
	}
}

// CaseRoutes returns the route group definition for case endpoints.
func (h *Handler) CaseRoutes() routes.Group {
	return routes.Group{
		Prefix: "/cases",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.ListCases},
			{Method: "GET", Pattern: "/{id}", Handler: h.FindCase},
		},
	}
}

// ListAudit returns a paginated list of audit records with optional query
// parameter filters.
func (h *Handler) ListAudit(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := FiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListAudit(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FindAudit returns a single audit record by its UUID path parameter.
func (h *Handler) FindAudit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	rec, err := h.sys.FindAudit(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, rec)
}

// SearchAudit accepts a JSON body with pagination and filter criteria and
// returns matching audit records.
func (h *Handler) SearchAudit(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrBadRequest)
		return
	}

	req.PageRequest.Normalize(h.pagination)

	result, err := h.sys.ListAudit(r.Context(), req.PageRequest, req.Filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// ListCases returns a paginated list of case records with optional query
// parameter filters.
func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)
	filters := CaseFiltersFromQuery(r.URL.Query())

	result, err := h.sys.ListCases(r.Context(), page, filters)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// FindCase returns a single case record by its UUID path parameter.
func (h *Handler) FindCase(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidID)
		return
	}

	c, err := h.sys.FindCase(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, c)
}
