package bootstrap

import (
	"context"

	"bookstore-backoffice/internal/pkg/attempt"
	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/config"
	"bookstore-backoffice/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var LimiterModule = fx.Module("limiter",
	fx.Provide(
		NewLimiter,
	),
)

// NewLimiter picks the attempt limiter backend. The redis backend shares
// counts between instances; memory keeps them per process.
func NewLimiter(lc fx.Lifecycle, cfg config.Config, clk clock.Clock) (attempt.Limiter, error) {
	switch cfg.Limiter.Backend {
	case "", "memory":
		return attempt.NewMemoryLimiter(cfg.Limiter.Capacity, clk)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				if err := client.Ping(ctx).Err(); err != nil {
					return errs.Wrap(err, "failed to reach redis")
				}
				return nil
			},
			OnStop: func(_ context.Context) error {
				return client.Close()
			},
		})
		return attempt.NewRedisLimiter(client, cfg.Limiter.KeyPrefix, clk), nil
	default:
		return nil, errs.Newf("unknown limiter backend %q", cfg.Limiter.Backend)
	}
}
