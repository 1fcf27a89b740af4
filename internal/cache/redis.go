package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/fastboat/config"
	"github.com/redis/go-redis/v9"
)

const (
	processingMarker = "PROCESSING"
	defaultLockTTL   = 30 * time.Second
)

// State is the outcome of claiming an idempotency key.
type State int

const (
	// Acquired means the caller owns the key and must Save or Release it.
	Acquired State = iota
	// InProgress means another request holds the key.
	InProgress
	// Completed means a response was stored for the key.
	Completed
)

type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// RedisCache keeps responses of state-changing requests keyed by the
// client's Idempotency-Key header.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	lockTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client:  redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		ttl:     ttl,
		lockTTL: defaultLockTTL,
	}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Claim tries to take key for the current request. When the key is
// already completed the stored response is returned.
func (c *RedisCache) Claim(ctx context.Context, key string) (State, *StoredResponse, error) {
	ok, err := c.client.SetNX(ctx, idempotencyKey(key), processingMarker, c.lockTTL).Result()
	if err != nil {
		return 0, nil, err
	}
	if ok {
		return Acquired, nil, nil
	}

	data, err := c.client.Get(ctx, idempotencyKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			// Expired between SETNX and GET; treat as still in flight.
			return InProgress, nil, nil
		}
		return 0, nil, err
	}
	return decode(data)
}

func (c *RedisCache) Save(ctx context.Context, key string, resp StoredResponse) error {
	payload, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, idempotencyKey(key), payload, c.ttl).Err()
}

func (c *RedisCache) Release(ctx context.Context, key string) error {
	return c.client.Del(ctx, idempotencyKey(key)).Err()
}

func decode(data []byte) (State, *StoredResponse, error) {
	if string(data) == processingMarker {
		return InProgress, nil, nil
	}
	var resp StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return 0, nil, fmt.Errorf("decode stored response: %w", err)
	}
	return Completed, &resp, nil
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}
