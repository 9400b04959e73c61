package repositories

import (
	"context"

	"employeehub/internal/auth/domain/entities"
)

// UserRepository определяет операции хранения пользователей.
type UserRepository interface {
	// Create сохраняет пользователя. Нарушение уникальности возвращается как
	// entities.ErrUsernameTaken или entities.ErrSerialNumberTaken.
	Create(ctx context.Context, user *entities.User) (*entities.User, error)

	FindByID(ctx context.Context, id string) (*entities.User, error)

	FindByUsername(ctx context.Context, username string) (*entities.User, error)

	FindBySerialNumber(ctx context.Context, sno int64) (*entities.User, error)
}
