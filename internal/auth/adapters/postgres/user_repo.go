// Package postgres содержит Postgres-реализации репозиториев аутентификации.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"employeehub/internal/auth/domain/entities"
	"employeehub/internal/auth/ports/repositories"
	"employeehub/pkg/db/postgres"
	"employeehub/pkg/logger"
)

// Имена ограничений уникальности таблицы users.
const (
	constraintUsername     = "users_username_key"
	constraintSerialNumber = "users_sno_key"
)

// PgxPoolInterface - подмножество pgxpool.Pool, нужное репозиториям.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...any) pgx.Row
	Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// UserRepository реализует repositories.UserRepository для Postgres.
type UserRepository struct {
	pool PgxPoolInterface
}

// NewUserRepository создает новый экземпляр репозитория пользователей.
func NewUserRepository(pool PgxPoolInterface) repositories.UserRepository {
	return &UserRepository{pool: pool}
}

const selectUserColumns = `SELECT id, username, password_hash, sno, created_at FROM users`

// Create сохраняет пользователя и транслирует нарушения уникальности в доменные ошибки.
func (r *UserRepository) Create(ctx context.Context, user *entities.User) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", "Create"))

	query := `
        INSERT INTO users (username, password_hash, sno)
        VALUES ($1, $2, $3)
        RETURNING id, username, password_hash, sno, created_at
    `

	created, err := scanUser(r.pool.QueryRow(ctx, query, user.Username, user.PasswordHash, user.SerialNumber))
	if err != nil {
		if constraint, ok := postgres.UniqueViolation(err); ok {
			log.Debug(ctx, "unique constraint rejected insert", zap.String("constraint", constraint))
			return nil, duplicateUserError(constraint, err)
		}
		log.Error(ctx, "error creating user", zap.Error(err))
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// FindByID находит пользователя по ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "FindByID", selectUserColumns+` WHERE id = $1`, id)
}

// FindByUsername находит пользователя по имени.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.findOne(ctx, "FindByUsername", selectUserColumns+` WHERE username = $1`, username)
}

// FindBySerialNumber находит пользователя по серийному номеру.
func (r *UserRepository) FindBySerialNumber(ctx context.Context, sno int64) (*entities.User, error) {
	return r.findOne(ctx, "FindBySerialNumber", selectUserColumns+` WHERE sno = $1`, sno)
}

func (r *UserRepository) findOne(ctx context.Context, method, query string, arg any) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("repository", "user"), zap.String("method", method))

	user, err := scanUser(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "user not found")
			return nil, entities.ErrUserNotFound
		}
		log.Error(ctx, "error querying user", zap.Error(err))
		return nil, fmt.Errorf("error querying user (%s): %w", method, err)
	}

	return user, nil
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var user entities.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.SerialNumber,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func duplicateUserError(constraint string, cause error) error {
	switch constraint {
	case constraintSerialNumber:
		return fmt.Errorf("%w: %w", entities.ErrSerialNumberTaken, cause)
	case constraintUsername:
		return fmt.Errorf("%w: %w", entities.ErrUsernameTaken, cause)
	default:
		return fmt.Errorf("unexpected unique constraint %q: %w", constraint, cause)
	}
}
