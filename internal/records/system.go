package records

import (
	"context"

	"github.com/google/uuid"

	"github.com/desistd/desist/pkg/pagination"
)

// System defines the public contract for record query operations.
type System interface {
	Handler() *Handler

	ListAudit(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	FindAudit(ctx context.Context, id uuid.UUID) (*Record, error)

	ListCases(
		ctx context.Context,
		page pagination.PageRequest,
		filters CaseFilters,
	) (*pagination.PageResult[CaseRecord], error)

	FindCase(ctx context.Context, id uuid.UUID) (*CaseRecord, error)
}
