package repository

import (
	"context"
	"log/slog"

	"bookstore-backoffice/internal/domain/book"
	"bookstore-backoffice/internal/infra"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type StockQueries interface {
	LockBooksForUpdate(ctx context.Context, db sqlc.DBTX, ids []uuid.UUID) ([]sqlc.LockBooksForUpdateRow, error)
	GetBookStockForUpdate(ctx context.Context, db sqlc.DBTX, id uuid.UUID) (int32, error)
	UpdateBookStock(ctx context.Context, db sqlc.DBTX, arg sqlc.UpdateBookStockParams) error
}

// StockLedger must be used inside a transaction: the row lock taken by a read
// is what makes read-modify-write atomic against concurrent adjustments.
type StockLedger struct {
	queries StockQueries
	db      sqlc.DBTX
}

func NewStockLedger(queries StockQueries, db sqlc.DBTX) *StockLedger {
	return &StockLedger{
		queries: queries,
		db:      db,
	}
}

func (l *StockLedger) LockBooks(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*book.Book, error) {
	rows, err := l.queries.LockBooksForUpdate(ctx, l.db, ids)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock books", err)
	}

	books := make(map[uuid.UUID]*book.Book, len(rows))
	for _, row := range rows {
		books[row.ID] = book.ReconstructBook(row.ID, row.Title, row.Price, row.Stock)
	}
	return books, nil
}

func (l *StockLedger) Adjust(ctx context.Context, bookID uuid.UUID, delta int32) (int32, error) {
	current, err := l.queries.GetBookStockForUpdate(ctx, l.db, bookID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, errs.Wrapf(book.ErrBookNotFound, "book %s", bookID)
		}
		return 0, infra.WrapRepoErr("failed to read book stock", err)
	}

	next, clamped, err := book.ApplyStockDelta(current, delta)
	if err != nil {
		return 0, errs.Wrapf(err, "book %s", bookID)
	}
	if clamped {
		slog.WarnContext(ctx, "stock clamped at zero",
			slog.String("book_id", bookID.String()),
			slog.Int("current", int(current)),
			slog.Int("delta", int(delta)))
	}

	if err := l.queries.UpdateBookStock(ctx, l.db, sqlc.UpdateBookStockParams{ID: bookID, Stock: next}); err != nil {
		return 0, infra.WrapRepoErr("failed to update book stock", err)
	}
	return next, nil
}
