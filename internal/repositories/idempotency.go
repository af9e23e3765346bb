package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/logger"
	"github.com/sbilibin2017/gw-freelance-escrow/internal/models"
)

// IdempotencyRepository remembers the outcome of requests carrying an Idempotency-Key using Redis
type IdempotencyRepository struct {
	client *redis.Client
	exp    time.Duration // how long a key and its stored result are kept
}

// NewIdempotencyRepository creates a new repository instance
func NewIdempotencyRepository(client *redis.Client, expiration time.Duration) *IdempotencyRepository {
	return &IdempotencyRepository{
		client: client,
		exp:    expiration,
	}
}

func idempotencyKey(scope, key string) string {
	return fmt.Sprintf("idempotency:%s:%s", scope, key)
}

// Reserve claims key for the first request. It returns false when the key is already taken.
func (r *IdempotencyRepository) Reserve(ctx context.Context, scope, key string) (bool, error) {
	k := idempotencyKey(scope, key)
	ok, err := r.client.SetNX(ctx, k, models.IdempotencyPending, r.exp).Result()

	logger.Log.Infow("idempotency reserve",
		"key", k,
		"result", ok,
		"error", err,
	)

	return ok, err
}

// Get returns the stored value for key: models.IdempotencyPending or the saved result.
// found is false when the key does not exist.
func (r *IdempotencyRepository) Get(ctx context.Context, scope, key string) (value []byte, found bool, err error) {
	k := idempotencyKey(scope, key)
	value, err = r.client.Get(ctx, k).Bytes()

	logger.Log.Infow("idempotency get",
		"key", k,
		"size", len(value),
		"error", err,
	)

	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Complete replaces the pending marker with the serialized result.
func (r *IdempotencyRepository) Complete(ctx context.Context, scope, key string, result []byte) error {
	k := idempotencyKey(scope, key)
	err := r.client.Set(ctx, k, result, r.exp).Err()

	logger.Log.Infow("idempotency complete",
		"key", k,
		"size", len(result),
		"error", err,
	)

	return err
}

// Release drops the key so a failed request can be retried with it.
func (r *IdempotencyRepository) Release(ctx context.Context, scope, key string) error {
	k := idempotencyKey(scope, key)
	err := r.client.Del(ctx, k).Err()

	logger.Log.Infow("idempotency release",
		"key", k,
		"result", "released",
		"error", err,
	)

	return err
}
