// Package config предоставляет функциональность для загрузки конфигурации из переменных окружения.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"employeehub/pkg/logger"
)

const (
	msgLoadingConfiguration = "loading configuration"
	msgEnvFileLoaded        = "env file loaded"
	msgEnvFileMissing       = "env file not found, using process environment only"
	msgConfigurationLoaded  = "configuration loaded successfully"

	errCtxReadEnvFile = "reading env file"
	errCtxReadEnv     = "reading environment"

	attrPath = "path"
)

// Load заполняет структуру T из окружения процесса.
// Если envFile задан и существует, его значения подгружаются заранее, не перекрывая уже заданные переменные.
func Load[T any](ctx context.Context, envFile string) (*T, error) {
	log := logger.Log(ctx)
	log.Info(ctx, msgLoadingConfiguration, zap.String(attrPath, envFile))

	if envFile != "" {
		switch err := godotenv.Load(envFile); {
		case err == nil:
			log.Info(ctx, msgEnvFileLoaded, zap.String(attrPath, envFile))
		case errors.Is(err, fs.ErrNotExist):
			log.Debug(ctx, msgEnvFileMissing, zap.String(attrPath, envFile))
		default:
			return nil, fmt.Errorf("%s: %w", errCtxReadEnvFile, err)
		}
	}

	var cfg T
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxReadEnv, err)
	}

	log.Info(ctx, msgConfigurationLoaded)
	return &cfg, nil
}
