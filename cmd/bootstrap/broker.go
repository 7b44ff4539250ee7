package bootstrap

import (
	"context"

	"bookstore-backoffice/internal/infra/broker"
	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/usecase/shared"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewStockAlertPublisher,
	),
)

func NewStockAlertPublisher(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (shared.StockAlertPublisher, error) {
	publisher, closeFn, err := broker.NewStockAlertPublisher(cfg.Broker, clk)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			closeFn()
			return nil
		},
	})
	return publisher, nil
}
