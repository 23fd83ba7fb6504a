package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"taja-cart/internal/cart"

	"github.com/go-redis/redis/v8"
)

// RedisSnapshot persists the cart in Redis, one key per device. Used when
// several storefront processes behind a balancer must see the same
// device-scoped cart.
type RedisSnapshot struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshot accepts either a "redis://..." URL or a plain
// "hostname:port" address.
func NewRedisSnapshot(addr, deviceID string) *RedisSnapshot {
	opts, err := redis.ParseURL(addr)
	if err != nil {
		opts = &redis.Options{
			Addr:         addr,
			MinIdleConns: 1,
			DialTimeout:  10 * time.Second,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		}
	}

	return &RedisSnapshot{
		client: redis.NewClient(opts),
		key:    "cart:" + deviceID,
	}
}

func (r *RedisSnapshot) Load(ctx context.Context) ([]cart.Item, error) {
	val, err := r.client.Get(ctx, r.key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var items []cart.Item
	if err := json.Unmarshal([]byte(val), &items); err != nil {
		return nil, fmt.Errorf("decode cart snapshot: %w", err)
	}
	return items, nil
}

func (r *RedisSnapshot) Save(ctx context.Context, items []cart.Item) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode cart snapshot: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisSnapshot) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// Ping checks connectivity, for startup health logging.
func (r *RedisSnapshot) Ping(ctx context.Context) bool {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(pingCtx).Err() == nil
}

// Close releases the underlying connection pool.
func (r *RedisSnapshot) Close() error {
	return r.client.Close()
}
