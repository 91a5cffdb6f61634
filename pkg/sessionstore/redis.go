package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig holds connection settings for the redis-backed durable tier.
type RedisConfig struct {
	ConnectionURL  string        `env:"RESOLVEIT_REDIS_URL" envDefault:"redis://localhost:6379/0"`
	KeyPrefix      string        `env:"RESOLVEIT_REDIS_PREFIX" envDefault:"resolveit:session"`
	ConnectTimeout time.Duration `env:"RESOLVEIT_REDIS_CONNECT_TIMEOUT" envDefault:"10s"`
}

// RedisTier implements Tier on a redis hash. It serves headless deployments
// (bots, kiosk agents) where several processes share one durable session.
// The whole namespace lives in a single hash so saves stay atomic.
type RedisTier struct {
	client redis.Cmdable
	key    string
}

// NewRedisTier creates a tier over an existing redis client. The key is the
// hash under which the namespace is stored.
func NewRedisTier(client redis.Cmdable, key string) *RedisTier {
	return &RedisTier{client: client, key: key}
}

// ConnectRedisTier dials redis from config and returns a ready tier.
func ConnectRedisTier(ctx context.Context, cfg RedisConfig) (*RedisTier, error) {
	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrTierUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrTierUnavailable, err)
	}

	return NewRedisTier(client, cfg.KeyPrefix), nil
}

// Save replaces the hash in one transaction.
func (t *RedisTier) Save(ctx context.Context, values map[string]string) error {
	pipe := t.client.TxPipeline()
	pipe.Del(ctx, t.key)
	if len(values) > 0 {
		args := make([]any, 0, len(values)*2)
		for k, v := range values {
			args = append(args, k, v)
		}
		pipe.HSet(ctx, t.key, args...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrTierUnavailable, err)
	}
	return nil
}

// Load returns the hash contents; empty when the key does not exist.
func (t *RedisTier) Load(ctx context.Context) (map[string]string, error) {
	values, err := t.client.HGetAll(ctx, t.key).Result()
	if err != nil {
		return nil, errors.Join(ErrTierUnavailable, err)
	}
	return values, nil
}

// Wipe deletes the hash.
func (t *RedisTier) Wipe(ctx context.Context) error {
	if err := t.client.Del(ctx, t.key).Err(); err != nil {
		return errors.Join(ErrTierUnavailable, err)
	}
	return nil
}
