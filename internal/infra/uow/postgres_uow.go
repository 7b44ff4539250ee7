package uow

import (
	"context"
	"log/slog"

	"bookstore-backoffice/internal/domain/customer"
	"bookstore-backoffice/internal/infra"
	"bookstore-backoffice/internal/infra/readstore"
	"bookstore-backoffice/internal/infra/repository"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/pkg/errs"
	"bookstore-backoffice/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	errTransactionBegin  = errs.Mark(errs.New("failed to begin transaction"), errs.ErrStorage)
	errTransactionCommit = errs.Mark(errs.New("failed to commit transaction"), errs.ErrStorage)
)

type PostgresUoW struct {
	pool *pgxpool.Pool
	q    *sqlc.Queries
}

func NewPostgresUoW(pool *pgxpool.Pool, q *sqlc.Queries) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
		q:    q,
	}
}

// Within runs fn exactly once. Serialization failures and deadlocks are
// returned to the caller as storage errors rather than retried.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	// Past this point the unit either commits or rolls back as a whole.
	ctx = context.WithoutCancel(ctx)

	tx := &pgTx{dbtx: pgxTx, uow: u}
	if err := fn(ctx, tx); err != nil {
		rollback(ctx, pgxTx)
		return err
	}

	if err := pgxTx.Commit(ctx); err != nil {
		rollback(ctx, pgxTx)
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db sqlc.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer rollback(ctx, pgxTx)

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}
	if err := pgxTx.Commit(ctx); err != nil {
		return errs.Mark(err, errTransactionCommit)
	}
	return nil
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{uow: u, dbtx: u.pool}
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errs.Is(err, pgx.ErrTxClosed) {
		slog.Warn("rollback failed", "error", err.Error())
	}
}

type pgTx struct {
	dbtx sqlc.DBTX
	uow  *PostgresUoW

	stock        shared.StockLedger
	sales        shared.SaleRepository
	users        shared.UserRepository
	commandReads shared.CommandReads
}

func (t *pgTx) DB() sqlc.DBTX {
	return t.dbtx
}

func (t *pgTx) Stock() shared.StockLedger {
	if t.stock == nil {
		t.stock = repository.NewStockLedger(t.uow.q, t.dbtx)
	}
	return t.stock
}

func (t *pgTx) Sales() shared.SaleRepository {
	if t.sales == nil {
		t.sales = repository.NewSaleRepository(t.uow.q, t.dbtx)
	}
	return t.sales
}

func (t *pgTx) Users() shared.UserRepository {
	if t.users == nil {
		t.users = repository.NewUserRepository(t.uow.q, t.dbtx)
	}
	return t.users
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{uow: t.uow, dbtx: t.dbtx}
	}
	return t.commandReads
}

type commandReads struct {
	uow  *PostgresUoW
	dbtx sqlc.DBTX

	customerStore *readstore.CustomerReadStore
}

func (r *commandReads) CustomerByID(ctx context.Context, id uuid.UUID) (*shared.CustomerSnapshot, error) {
	if r.customerStore == nil {
		r.customerStore = readstore.NewCustomerReadStore(r.uow.q, r.dbtx)
	}

	c, err := r.customerStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Wrap(customer.ErrCustomerNotFound, id.String())
		}
		return nil, err
	}
	return &shared.CustomerSnapshot{ID: c.ID, Name: c.Name}, nil
}
