package queries

import (
	"context"

	"bookstore-backoffice/internal/domain/book"
	"bookstore-backoffice/internal/infra"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrNegativeThreshold = errs.Validation("threshold must not be negative")

type BookReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	ListLowStock(ctx context.Context, threshold, limit, offset int32) ([]*BookView, error)
}

type BookQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookView, error)
	// ListLowStock lists books with stock at or below threshold, lowest first.
	// A nil threshold uses the configured alert threshold.
	ListLowStock(ctx context.Context, threshold *int32, limit, offset int) ([]*BookView, error)
}

type bookQueriesImpl struct {
	repo             BookReadStore
	pagination       config.PaginationConfig
	defaultThreshold int32
}

func NewBookQueries(repo BookReadStore, cfg config.Config) BookQueries {
	return &bookQueriesImpl{
		repo:             repo,
		pagination:       cfg.Pagination,
		defaultThreshold: cfg.Broker.LowStockThreshold,
	}
}

func (q *bookQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookView, error) {
	v, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrapf(book.ErrBookNotFound, "book %s", id)
		}
		return nil, err
	}
	return v, nil
}

func (q *bookQueriesImpl) ListLowStock(ctx context.Context, threshold *int32, limit, offset int) ([]*BookView, error) {
	t := q.defaultThreshold
	if threshold != nil {
		if *threshold < 0 {
			return nil, ErrNegativeThreshold
		}
		t = *threshold
	}
	if offset < 0 {
		offset = 0
	}
	limit = ValidateLimit(limit, q.pagination.DefaultPageSize, q.pagination.MaxPageSize)
	return q.repo.ListLowStock(ctx, t, int32(limit), int32(offset))
}
