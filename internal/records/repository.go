package records

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/desistd/desist/pkg/pagination"
	"github.com/desistd/desist/pkg/query"
	"github.com/desistd/desist/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a record repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "records"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) ListAudit(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(auditProjection, auditDefaultSort).
		WhereSearch(page.Search, "Filename", "RawText")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count audit records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fmt.Errorf("query audit records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) FindAudit(ctx context.Context, id uuid.UUID) (*Record, error) {
	q, args := query.NewBuilder(auditProjection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, r.db, q, args, scanRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrBadRequest)
	}
	return &rec, nil
}

func (r *repo) ListCases(
	ctx context.Context,
	page pagination.PageRequest,
	filters CaseFilters,
) (*pagination.PageResult[CaseRecord], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(caseProjection, caseDefaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count case records: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCaseRecord)
	if err != nil {
		return nil, fmt.Errorf("query case records: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) FindCase(ctx context.Context, id uuid.UUID) (*CaseRecord, error) {
	q, args := query.NewBuilder(caseProjection).BuildSingle("ID", id)

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCaseRecord)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrBadRequest)
	}
	return &c, nil
}
