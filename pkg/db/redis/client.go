// Package redis создает проверенное подключение к Redis.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"employeehub/pkg/logger"
)

// Константы для логирования и ошибок.
const (
	LogConnected     = "connected to redis"
	ErrFailedConnect = "failed to connect to redis"
)

// NewClient создает клиента Redis и проверяет соединение командой PING.
func NewClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	cfg = cfg.withDefaults()

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.ConnectTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%s: %w", ErrFailedConnect, err)
	}

	logger.Log(ctx).Info(ctx, LogConnected, zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}
