package redislock

import (
	"context"
	"time"

	"cruise-booking/internal/pkg/config"
	"cruise-booking/internal/pkg/errs"
	"cruise-booking/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockTimeout = errs.New("timed out acquiring guard lock")

// unlockScript releases the key only if this holder still owns it, so an
// expired-and-reacquired lock is never deleted out from under its new owner.
const unlockScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
else
	return 0
end`

const (
	retryDelay  = 50 * time.Millisecond
	acquireWait = 2 * time.Second
)

// RedisGuardLock serializes multi-line hold acquisition per ledger row. It
// is an optimization over the row-level conditional UPDATEs, not a safety
// requirement, which is why the no-op fallback below is acceptable.
type RedisGuardLock struct {
	client *redis.Client
}

func New(cfg config.RedisConfig) commands.GuardLock {
	if cfg.Addr == "" {
		return NoopLock{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisGuardLock{client: client}
}

func (l *RedisGuardLock) Lock(ctx context.Context, key string, ttl time.Duration) (func(ctx context.Context) error, error) {
	token := uuid.NewString()
	deadline := time.Now().Add(acquireWait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			return nil, errs.Wrap(err, "failed to acquire guard lock")
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}

	unlock := func(ctx context.Context) error {
		return l.client.Eval(ctx, unlockScript, []string{key}, token).Err()
	}
	return unlock, nil
}

// NoopLock keeps the service running without redis; contention falls
// through to the database guards.
type NoopLock struct{}

func (NoopLock) Lock(_ context.Context, _ string, _ time.Duration) (func(ctx context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
