package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ilya24037/www.spa.com-sub003/internal/httperr"
	"github.com/ilya24037/www.spa.com-sub003/internal/usecase/booking"
)

const (
	defaultAttempts = 5
	defaultBackoff  = 100 * time.Millisecond
)

// deletes the key only while it still holds our token
var unlockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client   redis.Cmdable
	log      *zap.Logger
	attempts int
	backoff  time.Duration
}

func NewRedisLocker(client redis.Cmdable, log *zap.Logger) *RedisLocker {
	return &RedisLocker{
		client:   client,
		log:      log,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
	}
}

// Lock takes key for at most ttl. The key expires on its own if the holder
// dies before calling unlock.
func (l *RedisLocker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()

	for attempt := 1; attempt <= l.attempts; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		if attempt == l.attempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * l.backoff):
		}
	}

	return nil, httperr.Conflict("provider_busy", "another booking for this provider is being processed, try again")
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := unlockScript.Run(ctx, l.client, []string{key}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		l.log.Warn("release lock failed", zap.String("key", key), zap.Error(err))
	}
}

var _ booking.Locker = (*RedisLocker)(nil)
