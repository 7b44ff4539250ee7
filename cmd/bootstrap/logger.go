package bootstrap

import (
	"log/slog"

	"bookstore-backoffice/internal/handler/middleware"
	"bookstore-backoffice/internal/pkg/config"

	"go.uber.org/fx"
)

var LoggerModule = fx.Module("logger",
	fx.Provide(
		middleware.NewLogger,
		func(l *middleware.Logger) *slog.Logger {
			return l.GetSlogLogger()
		},
		func(cfg config.Config) config.LogConfig {
			return cfg.Log
		},
	),
)
