package services

import "context"

// LoginThrottle считает неудачные попытки входа по имени пользователя.
type LoginThrottle interface {
	Allowed(ctx context.Context, username string) (bool, error)

	RegisterFailure(ctx context.Context, username string) error

	Reset(ctx context.Context, username string) error

	Close() error
}
