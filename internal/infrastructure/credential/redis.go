package credential

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const redisKeyPrefix = "jobboard:credential:"

var ErrRedisUnavailable = errors.New("redis unavailable")

type RedisOptions struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Redis keeps the slot in a shared Redis so several front-ends on one machine
// (CLI and view bridge) observe the same login.
type Redis struct {
	client *redis.Client
	key    string
	logger *logrus.Logger

	warnedUnavailable atomic.Bool
}

func NewRedis(ctx context.Context, opts RedisOptions, slot string, logger *logrus.Logger) (*Redis, error) {
	host := opts.Host
	if host == "" {
		host = "localhost"
	}
	port := opts.Port
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return &Redis{client: client, key: redisKeyPrefix + slot, logger: logger}, nil
}

func (r *Redis) warnUnavailableOnce(err error) {
	if r.logger == nil {
		return
	}
	if r.warnedUnavailable.CompareAndSwap(false, true) {
		r.logger.WithError(err).Warn("[Credential] Redis unavailable")
	}
}

func (r *Redis) Token(ctx context.Context) (string, error) {
	v, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		r.warnUnavailableOnce(err)
		return "", fmt.Errorf("read credential: %w", err)
	}
	return v, nil
}

func (r *Redis) SaveToken(ctx context.Context, token string) error {
	if token == "" {
		return r.ClearToken(ctx)
	}
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return fmt.Errorf("write credential: %w", err)
	}
	return nil
}

func (r *Redis) ClearToken(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		r.warnUnavailableOnce(err)
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

var _ Store = (*Redis)(nil)
