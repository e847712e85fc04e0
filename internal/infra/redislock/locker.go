package redislock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/cast-scheduler/internal/domain/booking"
)

const (
	DefaultTTL   = 30 * time.Second
	DefaultRetry = 25 * time.Millisecond
	keyPrefix    = "cast-scheduler:lock:resource:"
)

// Only the holder's token may delete the key.
var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	end
	return 0
`)

// Locker is a per-resource mutex shared by every API instance. Keys expire
// after ttl so a crashed holder cannot block a resource forever.
type Locker struct {
	client redis.UniversalClient
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func New(client redis.UniversalClient, ttl, wait time.Duration) *Locker {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if wait <= 0 {
		wait = ttl
	}
	return &Locker{
		client: client,
		ttl:    ttl,
		wait:   wait,
		retry:  DefaultRetry,
	}
}

func key(resourceID string) string {
	return keyPrefix + resourceID
}

// Lock takes every key in order. The wait is bounded; running out of time is
// a retryable failure and leaves nothing held.
func (l *Locker) Lock(ctx context.Context, resourceIDs []string) (func(context.Context) error, error) {
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	held := make([]string, 0, len(resourceIDs))
	for _, id := range resourceIDs {
		if err := l.acquire(waitCtx, key(id), token); err != nil {
			if relErr := l.release(context.WithoutCancel(ctx), held, token); relErr != nil {
				err = errors.Join(err, relErr)
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, err
		}
		held = append(held, key(id))
	}

	return func(ctx context.Context) error {
		return l.release(ctx, held, token)
	}, nil
}

func (l *Locker) acquire(ctx context.Context, k, token string) error {
	for {
		ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil {
			return booking.Transient(fmt.Errorf("redis lock %s: %w", k, err))
		}
		if ok {
			return nil
		}

		select {
		case <-ctx.Done():
			return booking.Transient(fmt.Errorf("redis lock %s: %w", k, ctx.Err()))
		case <-time.After(l.retry):
		}
	}
}

func (l *Locker) release(ctx context.Context, keys []string, token string) error {
	var errs []error
	for i := len(keys) - 1; i >= 0; i-- {
		if err := releaseScript.Run(ctx, l.client, []string{keys[i]}, token).Err(); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", keys[i], err))
		}
	}
	return errors.Join(errs...)
}
