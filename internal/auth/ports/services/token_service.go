package services

import (
	"context"
	"time"
)

// TokenService выпускает и проверяет токены доступа.
type TokenService interface {
	GenerateAccessToken(ctx context.Context, userID, username string) (string, time.Time, error)

	ValidateAccessToken(ctx context.Context, token string) (string, error)
}
