package readstore

import (
	"context"

	"bookstore-backoffice/internal/infra"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/pgconv"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookViewQueries interface {
	GetBookByID(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (sqlc.Books, error)
	ListLowStockBooks(ctx context.Context, db sqlc.DBTX, arg sqlc.ListLowStockBooksParams) ([]sqlc.Books, error)
}

type BookReadStore struct {
	queries BookViewQueries
	db      sqlc.DBTX
}

func NewBookReadStore(queries BookViewQueries, db sqlc.DBTX) *BookReadStore {
	return &BookReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookView, error) {
	row, err := r.queries.GetBookByID(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get book by id", err)
	}
	return toBookView(row), nil
}

func (r *BookReadStore) ListLowStock(ctx context.Context, threshold, limit, offset int32) ([]*queries.BookView, error) {
	rows, err := r.queries.ListLowStockBooks(ctx, r.db, sqlc.ListLowStockBooksParams{
		Threshold: threshold,
		RowLimit:  limit,
		RowOffset: offset,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list low stock books", err)
	}

	result := make([]*queries.BookView, len(rows))
	for i, row := range rows {
		result[i] = toBookView(row)
	}
	return result, nil
}

func toBookView(row sqlc.Books) *queries.BookView {
	return &queries.BookView{
		ID:          row.ID,
		Title:       row.Title,
		Author:      row.Author,
		ISBN:        pgconv.StringPtrFromPgtype(row.Isbn),
		Price:       row.Price,
		Stock:       row.Stock,
		Description: pgconv.StringPtrFromPgtype(row.Description),
		CategoryID:  pgconv.UUIDPtrFromPgtype(row.CategoryID),
		CreatedAt:   pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:   pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
