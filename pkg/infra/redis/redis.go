package redis_wrapper

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultPingTimeout = 5 * time.Second

type RedisConfig struct {
	ConnectionURL       string `yaml:"connection_url"`
	PoolSize            int    `yaml:"pool_size"`
	DialTimeoutSeconds  int    `yaml:"dial_timeout_seconds"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int    `yaml:"idle_timeout_seconds"`
}

// InitRedis dials the audit-stream redis and verifies the connection with a
// bounded ping. Zero-valued tuning fields keep the client defaults.
func InitRedis(cfg *RedisConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeoutSeconds > 0 {
		opts.DialTimeout = time.Duration(cfg.DialTimeoutSeconds) * time.Second
	}
	if cfg.ReadTimeoutSeconds > 0 {
		opts.ReadTimeout = time.Duration(cfg.ReadTimeoutSeconds) * time.Second
	}
	if cfg.WriteTimeoutSeconds > 0 {
		opts.WriteTimeout = time.Duration(cfg.WriteTimeoutSeconds) * time.Second
	}
	if cfg.IdleTimeoutSeconds > 0 {
		opts.ConnMaxIdleTime = time.Duration(cfg.IdleTimeoutSeconds) * time.Second
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), defaultPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close() // nolint
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	zap.S().Debugw("redis connected", "addr", opts.Addr, "pool_size", opts.PoolSize)
	return client, nil
}
