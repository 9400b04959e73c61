package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"employeehub/internal/auth/adapters/postgres"
	"employeehub/internal/auth/domain/entities"
	"employeehub/internal/auth/ports/repositories"
)

var userColumns = []string{"id", "username", "password_hash", "sno", "created_at"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func TestRepositoryFactory(t *testing.T) {
	mock := newMock(t)

	factory := postgres.NewRepositoryFactory(mock)
	require.NotNil(t, factory)

	userRepo := factory.UserRepository()
	require.NotNil(t, userRepo)
	assert.Same(t, userRepo, factory.UserRepository(), "multiple calls should return the same repository instance")
	assert.Implements(t, (*repositories.UserRepository)(nil), userRepo)
}

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	input := &entities.User{Username: "alice", PasswordHash: "hash", SerialNumber: 42}

	t.Run("successful insert", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("alice", "hash", int64(42)).
			WillReturnRows(pgxmock.NewRows(userColumns).
				AddRow("user-id", "alice", "hash", int64(42), createdAt))

		user, err := postgres.NewUserRepository(mock).Create(ctx, input)

		require.NoError(t, err)
		assert.Equal(t, &entities.User{
			ID: "user-id", Username: "alice", PasswordHash: "hash", SerialNumber: 42, CreatedAt: createdAt,
		}, user)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violations map to domain errors", func(t *testing.T) {
		tests := []struct {
			constraint string
			want       error
		}{
			{"users_username_key", entities.ErrUsernameTaken},
			{"users_sno_key", entities.ErrSerialNumberTaken},
		}

		for _, tt := range tests {
			t.Run(tt.constraint, func(t *testing.T) {
				mock := newMock(t)
				mock.ExpectQuery("INSERT INTO users .+").
					WithArgs("alice", "hash", int64(42)).
					WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

				user, err := postgres.NewUserRepository(mock).Create(ctx, input)

				assert.Nil(t, user)
				assert.ErrorIs(t, err, tt.want)
				require.NoError(t, mock.ExpectationsWereMet())
			})
		}
	})

	t.Run("unknown unique constraint is not a known duplicate", func(t *testing.T) {
		mock := newMock(t)
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("alice", "hash", int64(42)).
			WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_other_key"})

		_, err := postgres.NewUserRepository(mock).Create(ctx, input)

		require.Error(t, err)
		assert.NotErrorIs(t, err, entities.ErrUsernameTaken)
		assert.NotErrorIs(t, err, entities.ErrSerialNumberTaken)
	})

	t.Run("generic database error", func(t *testing.T) {
		mock := newMock(t)
		dbErr := errors.New("database connection error")
		mock.ExpectQuery("INSERT INTO users .+").
			WithArgs("alice", "hash", int64(42)).
			WillReturnError(dbErr)

		user, err := postgres.NewUserRepository(mock).Create(ctx, input)

		assert.Nil(t, user)
		assert.ErrorIs(t, err, dbErr)
		assert.Contains(t, err.Error(), "error creating user")
	})
}

func TestUserRepository_Finders(t *testing.T) {
	ctx := context.Background()
	createdAt := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		where string
		arg   any
		call  func(repositories.UserRepository) (*entities.User, error)
	}{
		{
			name:  "FindByID",
			where: "id = $1",
			arg:   "user-id",
			call: func(r repositories.UserRepository) (*entities.User, error) {
				return r.FindByID(ctx, "user-id")
			},
		},
		{
			name:  "FindByUsername",
			where: "username = $1",
			arg:   "alice",
			call: func(r repositories.UserRepository) (*entities.User, error) {
				return r.FindByUsername(ctx, "alice")
			},
		},
		{
			name:  "FindBySerialNumber",
			where: "sno = $1",
			arg:   int64(42),
			call: func(r repositories.UserRepository) (*entities.User, error) {
				return r.FindBySerialNumber(ctx, 42)
			},
		},
	}

	for _, tt := range tests {
		query := regexp.QuoteMeta("SELECT id, username, password_hash, sno, created_at FROM users WHERE " + tt.where)

		t.Run(tt.name+" found", func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectQuery(query).WithArgs(tt.arg).
				WillReturnRows(pgxmock.NewRows(userColumns).
					AddRow("user-id", "alice", "hash", int64(42), createdAt))

			user, err := tt.call(postgres.NewUserRepository(mock))

			require.NoError(t, err)
			assert.Equal(t, "user-id", user.ID)
			assert.Equal(t, int64(42), user.SerialNumber)
			require.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run(tt.name+" not found", func(t *testing.T) {
			mock := newMock(t)
			mock.ExpectQuery(query).WithArgs(tt.arg).WillReturnError(pgx.ErrNoRows)

			user, err := tt.call(postgres.NewUserRepository(mock))

			assert.Nil(t, user)
			assert.ErrorIs(t, err, entities.ErrUserNotFound)
		})

		t.Run(tt.name+" database error", func(t *testing.T) {
			mock := newMock(t)
			dbErr := errors.New("timeout")
			mock.ExpectQuery(query).WithArgs(tt.arg).WillReturnError(dbErr)

			user, err := tt.call(postgres.NewUserRepository(mock))

			assert.Nil(t, user)
			assert.ErrorIs(t, err, dbErr)
			assert.NotErrorIs(t, err, entities.ErrUserNotFound)
		})
	}
}
