package shared

import (
	"context"
	"time"

	"bookstore-backoffice/internal/domain/book"
	"bookstore-backoffice/internal/domain/sale"
	"bookstore-backoffice/internal/domain/user"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one read-committed transaction. It is attempted once;
	// once begun, the caller's cancellation no longer aborts it.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly gives fn a consistent multi-table snapshot.
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error
	// CommandReads serves validation lookups outside a transaction.
	CommandReads() CommandReads
}

type Tx interface {
	Stock() StockLedger
	Sales() SaleRepository
	Users() UserRepository
	Reads() CommandReads
	DB() sqlc.DBTX
}

// StockLedger is the only writer of book stock.
type StockLedger interface {
	// LockBooks row-locks the given books in id order and returns those found.
	LockBooks(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*book.Book, error)
	// Adjust sets stock to max(current+delta, 0) and returns the new value.
	Adjust(ctx context.Context, bookID uuid.UUID, delta int32) (int32, error)
}

// SaleRepository persists sales and their line items. It does no stock checks
// and stores the total it is given.
type SaleRepository interface {
	Create(ctx context.Context, s *sale.Sale) error
	GetForUpdate(ctx context.Context, id uuid.UUID) (*sale.Sale, error)
	Update(ctx context.Context, s *sale.Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type CommandReads interface {
	CustomerByID(ctx context.Context, id uuid.UUID) (*CustomerSnapshot, error)
}
