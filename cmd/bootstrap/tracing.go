package bootstrap

import (
	"context"

	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/tracing"

	"go.uber.org/fx"
)

var TracingModule = fx.Module("tracing",
	fx.Invoke(setupTracing),
)

func setupTracing(lc fx.Lifecycle, cfg config.Config) error {
	shutdown, err := tracing.Setup(context.Background(), cfg.Tracing)
	if err != nil {
		return err
	}
	lc.Append(fx.Hook{
		OnStop: shutdown,
	})
	return nil
}
