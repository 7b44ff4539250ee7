package queries

import (
	"context"

	"bookstore-backoffice/internal/domain/sale"
	"bookstore-backoffice/internal/infra"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"

	"github.com/google/uuid"
)

type SaleFilter struct {
	CustomerID *uuid.UUID
	BookID     *uuid.UUID
}

type SaleReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SaleView, error)
	// List returns up to limit sales newest first, strictly after the keyset when given.
	List(ctx context.Context, filter SaleFilter, after *Keyset, limit int32) ([]*SaleView, error)
}

type SaleQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SaleView, error)
	List(ctx context.Context, filter SaleFilter, cursor *Cursor, limit int) ([]*SaleView, *Cursor, error)
}

type saleQueriesImpl struct {
	repo       SaleReadStore
	pagination config.PaginationConfig
}

func NewSaleQueries(repo SaleReadStore, cfg config.Config) SaleQueries {
	return &saleQueriesImpl{repo: repo, pagination: cfg.Pagination}
}

func (q *saleQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SaleView, error) {
	v, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrapf(sale.ErrSaleNotFound, "sale %s", id)
		}
		return nil, err
	}
	return v, nil
}

func (q *saleQueriesImpl) List(ctx context.Context, filter SaleFilter, cursor *Cursor, limit int) ([]*SaleView, *Cursor, error) {
	limit = ValidateLimit(limit, q.pagination.DefaultPageSize, q.pagination.MaxPageSize)

	var after *Keyset
	if cursor != nil && cursor.After != "" {
		ks, err := DecodeAfterCursor(cursor.After)
		if err != nil {
			return nil, nil, err
		}
		after = &ks
	}

	rows, err := q.repo.List(ctx, filter, after, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}
