package components

import (
	"bookstore-backoffice/internal/infra/readstore"
	sqlc "bookstore-backoffice/internal/infra/sqlc/generated"
	"bookstore-backoffice/internal/infra/uow"
	"bookstore-backoffice/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write-side repositories are not registered here: the unit of work builds
// them per transaction.
var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	fx.Provide(uow.NewPostgresUoW),
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// User
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.UserReadQueries)),
		),
		fx.Annotate(
			readstore.NewUserReadStore,
			fx.As(new(queries.UserReadStore)),
		),
		// Book
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.BookViewQueries)),
		),
		fx.Annotate(
			readstore.NewBookReadStore,
			fx.As(new(queries.BookReadStore)),
		),
		// Sale
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.SaleViewQueries)),
		),
		fx.Annotate(
			readstore.NewSaleReadStore,
			fx.As(new(queries.SaleReadStore)),
		),
		// Report
		fx.Annotate(
			readstore.NewReportReadStore,
			fx.As(new(queries.ReportReadStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *sqlc.Queries {
	return sqlc.New()
}

func NewDBTX(pool *pgxpool.Pool) sqlc.DBTX {
	return pool
}
