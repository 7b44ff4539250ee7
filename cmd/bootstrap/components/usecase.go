package components

import (
	"bookstore-backoffice/internal/domain/authz"
	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/usecase"
	"bookstore-backoffice/internal/usecase/commands"
	"bookstore-backoffice/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	authz.NewGate,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewSaleCommands,
		commands.NewInventoryCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewSaleQueries,
		queries.NewBookQueries,
		queries.NewReportQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
