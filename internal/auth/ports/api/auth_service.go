package api

import (
	"context"

	"employeehub/internal/auth/domain/entities"
	"employeehub/internal/auth/domain/services"
)

// AuthUseCase определяет основной порт для операций аутентификации.
type AuthUseCase interface {
	Register(ctx context.Context, username, password, serialNumber string) (*entities.User, error)

	Login(ctx context.Context, username, password string) (*services.LoginResult, error)

	Authenticate(ctx context.Context, token string) (string, error)
}
