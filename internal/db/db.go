// Package db собирает подключение к базе сервиса: применяет схему и открывает пул.
package db

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"employeehub/internal/config"
	"employeehub/pkg/db/postgres"
	"employeehub/pkg/logger"
)

// Константы для сообщений логгера.
const (
	LogDBInitializing = "initializing employeehub database"
	LogDBInitialized  = "employeehub database initialized successfully"
	LogSchemaStarting = "applying database schema"
)

// Константы для сообщений об ошибках.
const (
	ErrDBSchema     = "failed to apply database schema"
	ErrDBConnection = "failed to connect to database"
	ErrGetPath      = "failed to resolve schema path"
)

// Точки подмены для тестов.
var (
	applySchema  = postgres.ApplySchema
	openDatabase = postgres.New
	absPath      = filepath.Abs
)

// DB представляет соединение с базой данных сервиса.
type DB struct {
	database *postgres.Database
}

// New применяет схему из migrationsDir и открывает пул соединений.
func New(ctx context.Context, cfg *config.PostgresConfig) (*DB, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogDBInitializing,
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
		zap.Int("min_conn", cfg.MinConn),
		zap.Int("max_conn", cfg.MaxConn))

	sourceURL, err := schemaSourceURL(cfg.MigrationsDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w", ErrDBSchema, ErrGetPath, err)
	}

	log.Info(ctx, LogSchemaStarting, zap.String("source", sourceURL))
	if err := applySchema(ctx, sourceURL, cfg.GetConnectionURL()); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBSchema, err)
	}

	database, err := openDatabase(ctx, cfg.GetDSN(), postgres.PoolOptions{
		MinConns: int32(cfg.MinConn), // #nosec G115 -- значения из конфигурации невелики
		MaxConns: int32(cfg.MaxConn), // #nosec G115
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrDBConnection, err)
	}

	log.Info(ctx, LogDBInitialized)
	return &DB{database: database}, nil
}

func schemaSourceURL(dir string) (string, error) {
	if filepath.IsAbs(dir) {
		return "file://" + filepath.ToSlash(dir), nil
	}
	abs, err := absPath(dir)
	if err != nil {
		return "", err
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// Pool возвращает пул соединений.
func (db *DB) Pool() *pgxpool.Pool {
	return db.database.Pool()
}

// Ping проверяет соединение с базой данных.
func (db *DB) Ping(ctx context.Context) error {
	return db.database.Ping(ctx)
}

// Close закрывает соединение с базой данных.
func (db *DB) Close(ctx context.Context) {
	db.database.Close(ctx)
}
