package throttle

import (
	"context"

	"employeehub/internal/auth/ports/services"
)

// NoopThrottle не ограничивает попытки входа. Используется, когда Redis выключен.
type NoopThrottle struct{}

// NewNoopThrottle создает ограничитель без ограничений.
func NewNoopThrottle() services.LoginThrottle {
	return NoopThrottle{}
}

func (NoopThrottle) Allowed(context.Context, string) (bool, error) { return true, nil }

func (NoopThrottle) RegisterFailure(context.Context, string) error { return nil }

func (NoopThrottle) Reset(context.Context, string) error { return nil }

func (NoopThrottle) Close() error { return nil }
