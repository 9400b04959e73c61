// Package config содержит конфигурацию сервиса сотрудников.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	pkgconfig "employeehub/pkg/config"
	"employeehub/pkg/logger"
)

// EnvFile - переменная окружения с путем к необязательному .env файлу.
const EnvFile = "EMPHUB_ENV_FILE"

const defaultEnvFile = ".env"

// Константы ошибок и сообщений для конфигурации.
const (
	LogLoadingConfig    = "loading employeehub configuration"
	LogConfigLoaded     = "configuration loaded successfully"
	ErrFailedLoadConfig = "failed to load configuration"
	ErrInvalidConfig    = "invalid configuration"
)

// Ошибки валидации конфигурации.
var (
	ErrEmptyJWTSecret     = errors.New("jwt secret key must not be empty")
	ErrUnknownStorage     = errors.New("unknown storage backend")
	ErrMissingS3Bucket    = errors.New("s3 bucket must be set for s3 storage backend")
	ErrInvalidThrottleMax = errors.New("throttle max attempts must be positive")
	ErrEmptyCORSOrigins   = errors.New("cors origins must not be empty")
)

// Config представляет полную конфигурацию приложения.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Postgres PostgresConfig `yaml:"postgres"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Shutdown ShutdownConfig `yaml:"shutdown"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
}

// Load загружает конфигурацию из окружения и необязательного .env файла.
func Load(ctx context.Context) (*Config, error) {
	log := logger.Log(ctx)
	log.Info(ctx, LogLoadingConfig)

	envFile := os.Getenv(EnvFile)
	if envFile == "" {
		envFile = defaultEnvFile
	}

	cfg, err := pkgconfig.Load[Config](ctx, envFile)
	if err != nil {
		log.Error(ctx, ErrFailedLoadConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrFailedLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		log.Error(ctx, ErrInvalidConfig, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", ErrInvalidConfig, err)
	}

	log.Info(ctx, LogConfigLoaded,
		zap.String("http_address", cfg.HTTP.GetAddress()),
		zap.String("postgres_host", cfg.Postgres.Host),
		zap.Int("postgres_port", cfg.Postgres.Port),
		zap.String("log_level", cfg.Logging.Level),
		zap.String("log_mode", cfg.Logging.Mode),
		zap.Duration("token_ttl", cfg.JWT.GetTokenTTL()),
		zap.Bool("login_throttle", cfg.Redis.Enabled),
		zap.String("storage_backend", cfg.Storage.Backend),
		zap.Int("shutdown_timeout_seconds", cfg.Shutdown.Timeout))

	return cfg, nil
}

// Validate проверяет согласованность значений, которые cleanenv проверить не может.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return ErrEmptyJWTSecret
	}

	if len(c.HTTP.CORSOrigins) == 0 {
		return ErrEmptyCORSOrigins
	}
	for _, origin := range c.HTTP.CORSOrigins {
		if strings.TrimSpace(origin) == "" {
			return ErrEmptyCORSOrigins
		}
	}

	switch c.Storage.Backend {
	case StorageLocal:
	case StorageS3:
		if c.Storage.S3Bucket == "" {
			return ErrMissingS3Bucket
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownStorage, c.Storage.Backend)
	}

	if c.Redis.Enabled && c.Redis.ThrottleMaxAttempts <= 0 {
		return ErrInvalidThrottleMax
	}

	return nil
}
