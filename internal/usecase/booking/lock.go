package booking

import (
	"context"
	"fmt"
	"time"
)

const providerLockTTL = 10 * time.Second

// Locker serialises work on one key across processes. The returned unlock
// must be called once the work is done.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}

// NoopLocker relies on the database alone.
type NoopLocker struct{}

func (NoopLocker) Lock(context.Context, string, time.Duration) (func(), error) {
	return func() {}, nil
}

func providerLockKey(providerID uint) string {
	return fmt.Sprintf("booking:provider:%d", providerID)
}
