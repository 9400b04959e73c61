package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // драйвер postgres:// для migrate
	_ "github.com/golang-migrate/migrate/v4/source/file"       // источник file:// для migrate
	"go.uber.org/zap"

	"employeehub/pkg/logger"
)

// Константы для сообщений миграций.
const (
	LogSchemaApplied   = "database schema is up to date"
	LogSchemaUnchanged = "database schema already current"

	ErrCreateMigrationInstance = "failed to create migration instance"
	ErrApplyMigrations         = "failed to apply migrations"
)

// ApplySchema применяет SQL-файлы схемы из sourceURL (file://...) к базе по databaseURL.
func ApplySchema(ctx context.Context, sourceURL, databaseURL string) error {
	log := logger.Log(ctx).With(zap.String("source", sourceURL))

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		log.Error(ctx, ErrCreateMigrationInstance, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrCreateMigrationInstance, err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			log.Warn(ctx, "closing migration instance", zap.NamedError("source_error", srcErr), zap.NamedError("db_error", dbErr))
		}
	}()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		log.Info(ctx, LogSchemaUnchanged)
		return nil
	case err != nil:
		log.Error(ctx, ErrApplyMigrations, zap.Error(err))
		return fmt.Errorf("%s: %w", ErrApplyMigrations, err)
	}

	version, dirty, verErr := m.Version()
	log.Info(ctx, LogSchemaApplied, zap.Uint("version", version), zap.Bool("dirty", dirty), zap.NamedError("version_error", verErr))
	return nil
}
