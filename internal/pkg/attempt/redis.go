package attempt

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"bookstore-backoffice/internal/pkg/clock"
	"bookstore-backoffice/internal/pkg/errs"
)

// KEYS[1] failure set scored by unix millis, KEYS[2] block marker.
// ARGV: now millis, window millis, max attempts.
var allowScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
  return 0
end
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - window)
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[3]) then
  redis.call('SET', KEYS[2], now, 'PX', window)
  return 0
end
return 1
`)

// RedisLimiter shares limiter state between processes.
type RedisLimiter struct {
	client redis.UniversalClient
	prefix string
	clock  clock.Clock
}

func NewRedisLimiter(client redis.UniversalClient, prefix string, clk clock.Clock) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, clock: clk}
}

func (l *RedisLimiter) Allow(ctx context.Context, identifier string, policy Policy) (bool, error) {
	now := l.clock.Now().UnixMilli()
	res, err := allowScript.Run(ctx, l.client,
		[]string{l.failuresKey(identifier), l.blockKey(identifier)},
		now, policy.Window.Milliseconds(), policy.MaxAttempts,
	).Int()
	if err != nil {
		return false, errs.Mark(errs.Wrap(err, "attempt limiter allow"), errs.ErrStorage)
	}
	return res == 1, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, identifier string, policy Policy) error {
	now := l.clock.Now()
	key := l.failuresKey(identifier)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, redis.Z{
			Score:  float64(now.UnixMilli()),
			Member: strconv.FormatInt(now.UnixNano(), 10) + "-" + uuid.NewString(),
		})
		pipe.PExpire(ctx, key, policy.Window)
		return nil
	})
	if err != nil {
		return errs.Mark(errs.Wrap(err, "attempt limiter record failure"), errs.ErrStorage)
	}
	return nil
}

func (l *RedisLimiter) failuresKey(identifier string) string {
	return l.prefix + ":" + identifier + ":failures"
}

func (l *RedisLimiter) blockKey(identifier string) string {
	return l.prefix + ":" + identifier + ":blocked"
}
