package components

import (
	"bookstore-backoffice/internal/handler"
	"bookstore-backoffice/internal/handler/api"
	"bookstore-backoffice/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewSaleHandler,
		api.NewBookHandler,
		api.NewReportHandler,
		api.NewUserHandler,
		middleware.NewAuthMiddleware,
		newHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

type handlerParams struct {
	fx.In

	Auth   *api.AuthHandler
	Sale   *api.SaleHandler
	Book   *api.BookHandler
	Report *api.ReportHandler
	User   *api.UserHandler
}

func newHandlers(p handlerParams) handler.Handlers {
	return handler.Handlers{
		Auth:   p.Auth,
		Sale:   p.Sale,
		Book:   p.Book,
		Report: p.Report,
		User:   p.User,
	}
}
