// Package throttle ограничивает число неудачных попыток входа.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"employeehub/internal/auth/ports/services"
	"employeehub/pkg/logger"
)

// Константы для логирования и ошибок.
const (
	KeyPrefix = "login:fail:"

	LogMethodAllowed         = "Allowed"
	LogMethodRegisterFailure = "RegisterFailure"
	LogMethodReset           = "Reset"
	LogLimitReached          = "login attempts limit reached"

	ErrorFailedToRead   = "failed to read login attempts"
	ErrorFailedToCount  = "failed to count login attempt"
	ErrorFailedToExpire = "failed to set login attempts expiry"
	ErrorFailedToReset  = "failed to reset login attempts"
	ErrorFailedToClose  = "failed to close redis connection"
)

// RedisThrottle хранит счетчики неудачных входов в Redis. Счетчик живет окно window с первой неудачи.
type RedisThrottle struct {
	client      *redis.Client
	window      time.Duration
	maxAttempts int64
}

// NewRedisThrottle создает ограничитель поверх подключенного клиента Redis.
func NewRedisThrottle(client *redis.Client, window time.Duration, maxAttempts int) services.LoginThrottle {
	return &RedisThrottle{
		client:      client,
		window:      window,
		maxAttempts: int64(maxAttempts),
	}
}

// Key возвращает ключ счетчика для имени пользователя.
func Key(username string) string {
	return KeyPrefix + strings.ToLower(username)
}

// Allowed сообщает, осталось ли у пользователя право на попытку входа.
func (t *RedisThrottle) Allowed(ctx context.Context, username string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", LogMethodAllowed), zap.String("username", username))

	count, err := t.client.Get(ctx, Key(username)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return true, nil
		}
		return true, fmt.Errorf("%s: %w", ErrorFailedToRead, err)
	}

	if count >= t.maxAttempts {
		log.Warn(ctx, LogLimitReached, zap.Int64("attempts", count))
		return false, nil
	}
	return true, nil
}

// RegisterFailure увеличивает счетчик неудач.
func (t *RedisThrottle) RegisterFailure(ctx context.Context, username string) error {
	log := logger.Log(ctx).With(zap.String("method", LogMethodRegisterFailure), zap.String("username", username))
	key := Key(username)

	count, err := t.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToCount, err)
	}

	if count == 1 {
		if err := t.client.Expire(ctx, key, t.window).Err(); err != nil {
			return fmt.Errorf("%s: %w", ErrorFailedToExpire, err)
		}
	}

	log.Debug(ctx, "login failure registered", zap.Int64("attempts", count))
	return nil
}

// Reset сбрасывает счетчик после успешного входа.
func (t *RedisThrottle) Reset(ctx context.Context, username string) error {
	if err := t.client.Del(ctx, Key(username)).Err(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToReset, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (t *RedisThrottle) Close() error {
	if err := t.client.Close(); err != nil {
		return fmt.Errorf("%s: %w", ErrorFailedToClose, err)
	}
	return nil
}
