package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	authpostgres "employeehub/internal/auth/adapters/postgres"
	authservices "employeehub/internal/auth/adapters/services"
	"employeehub/internal/auth/adapters/throttle"
	authapp "employeehub/internal/auth/app"
	authsvc "employeehub/internal/auth/ports/services"
	"employeehub/internal/config"
	"employeehub/internal/db"
	emppostgres "employeehub/internal/employees/adapters/postgres"
	"employeehub/internal/employees/adapters/storage"
	empapp "employeehub/internal/employees/app"
	empstorage "employeehub/internal/employees/ports/storage"
	httpServer "employeehub/internal/gateway/app/http"
	redisclient "employeehub/pkg/db/redis"
	"employeehub/pkg/logger"
	"employeehub/pkg/shutdown"
)

// Константы для переменных окружения.
const (
	EnvLoggerMode  = "EMPHUB_LOGGER_MODE"
	EnvLoggerLevel = "EMPHUB_LOGGER_LEVEL"
)

// Константы для сообщений об ошибках.
const (
	ErrInitLogger           = "failed to initialize logger"
	ErrSyncLogger           = "failed to sync logger"
	ErrLoadConfig           = "failed to load configuration"
	ErrInitLoggerWithConfig = "failed to initialize logger with configuration settings"
	ErrInitDatabase         = "failed to initialize database"
	ErrCreateRedisClient    = "failed to create Redis client"
	ErrInitStorage          = "failed to initialize image storage"
	ErrCloseThrottle        = "failed to close login throttle"
	ErrStartHTTPServer      = "failed to start HTTP server"
)

// Константы для игнорируемых ошибок.
const (
	ErrSyncStderr = "sync /dev/stderr: invalid argument"
	ErrSyncStdout = "sync /dev/stdout: invalid argument"
)

// Константы для сообщений сервиса.
const (
	LogServiceStarted      = "employeehub service started"
	LogServiceShutdownDone = "employeehub service shutdown complete"
	LogStoppingHTTP        = "stopping HTTP server"
	LogClosingDatabase     = "closing database connection"
	LogClosingThrottle     = "closing login throttle"
	LogInitThrottle        = "initializing login throttle"
	LogThrottleDisabled    = "login throttle disabled"
	LogInitStorage         = "initializing image storage"
	LogInitServices        = "initializing services"
	LogInitHTTPServer      = "initializing HTTP server"
	LogStartingHTTP        = "starting HTTP server"
)

func main() {
	env := logger.Development
	if strings.ToLower(os.Getenv(EnvLoggerMode)) == "production" {
		env = logger.Production
	}

	log, err := logger.NewLogger(env, os.Getenv(EnvLoggerLevel))
	if err != nil {
		panic(ErrInitLogger + ": " + err.Error())
	}

	logger.SetGlobalLogger(log)

	ctx := logger.NewRequestIDContext(context.Background(), "")

	var exitCode int

	func() {
		defer func() {
			if err := log.Sync(); err != nil {
				errMsg := err.Error()
				if strings.Contains(errMsg, ErrSyncStderr) || strings.Contains(errMsg, ErrSyncStdout) {
					return
				}
				if _, writeErr := fmt.Fprintf(os.Stderr, "%s: %v\n", ErrSyncLogger, err); writeErr != nil {
					panic(writeErr)
				}
			}
		}()

		cfg, err := config.Load(ctx)
		if err != nil {
			log.Error(ctx, ErrLoadConfig, zap.Error(err))
			exitCode = 1
			return
		}

		finalLogger, err := logger.NewLogger(cfg.Logging.GetEnvironment(), cfg.Logging.Level)
		if err != nil {
			log.Error(ctx, ErrInitLoggerWithConfig, zap.Error(err))
			exitCode = 1
			return
		}
		logger.SetGlobalLogger(finalLogger)
		log = finalLogger

		log.Info(ctx, LogServiceStarted,
			zap.String("environment", string(cfg.Logging.GetEnvironment())),
			zap.String("log_level", cfg.Logging.Level),
			zap.String("startup_time", time.Now().Format(time.RFC3339)))

		database, err := db.New(ctx, &cfg.Postgres)
		if err != nil {
			log.Error(ctx, ErrInitDatabase, zap.Error(err))
			exitCode = 1
			return
		}

		loginThrottle, err := newThrottle(ctx, &cfg.Redis)
		if err != nil {
			log.Error(ctx, ErrCreateRedisClient, zap.Error(err))
			database.Close(ctx)
			exitCode = 1
			return
		}

		images, err := newImageStorage(ctx, &cfg.Storage, loginThrottle)
		if err != nil {
			database.Close(ctx)
			exitCode = 1
			return
		}

		log.Info(ctx, LogInitServices)
		repoFactory := authpostgres.NewRepositoryFactory(database.Pool())
		serviceFactory := authservices.NewServiceFactory(cfg.JWT.SecretKey, cfg.JWT.GetTokenTTL(), cfg.JWT.BCryptCost)

		authUseCase := authapp.NewAuthUseCase(
			repoFactory.UserRepository(),
			serviceFactory.PasswordService(),
			serviceFactory.TokenService(),
			loginThrottle,
		)
		employeeUseCase := empapp.NewEmployeeUseCase(emppostgres.NewEmployeeRepository(database.Pool()), images)

		log.Info(ctx, LogInitHTTPServer)
		app := httpServer.NewApp(&cfg.HTTP)

		deps := httpServer.Dependencies{
			Auth:        authUseCase,
			Employees:   employeeUseCase,
			Health:      database,
			CORSOrigins: cfg.HTTP.CORSOrigins,
		}
		if cfg.Storage.Backend == config.StorageLocal {
			deps.UploadsDir = cfg.Storage.LocalDir
			deps.UploadsPrefix = cfg.Storage.PublicPrefix
		}
		httpServer.SetupRouter(app, deps)

		log.Info(ctx, LogStartingHTTP, zap.String("address", cfg.HTTP.GetAddress()))
		go func() {
			if err := app.Listen(cfg.HTTP.GetAddress()); err != nil {
				log.Error(ctx, ErrStartHTTPServer, zap.Error(err))
			}
		}()

		shutdown.Wait(ctx, cfg.Shutdown.GetTimeout(),
			// Остановка HTTP сервера.
			func(ctx context.Context) error {
				log.Info(ctx, LogStoppingHTTP)
				return app.ShutdownWithContext(ctx)
			},
			// Закрытие счетчика неудачных входов.
			func(ctx context.Context) error {
				log.Info(ctx, LogClosingThrottle)
				return loginThrottle.Close()
			},
		)

		// Пул закрывается только после остановки HTTP сервера.
		log.Info(ctx, LogClosingDatabase)
		database.Close(ctx)

		log.Info(ctx, LogServiceShutdownDone)
	}()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

// newThrottle возвращает Redis счетчик неудачных входов или заглушку, если Redis отключен.
func newThrottle(ctx context.Context, cfg *config.RedisConfig) (authsvc.LoginThrottle, error) {
	log := logger.Log(ctx)

	if !cfg.Enabled {
		log.Info(ctx, LogThrottleDisabled)
		return throttle.NewNoopThrottle(), nil
	}

	log.Info(ctx, LogInitThrottle, zap.String("address", cfg.GetAddress()))
	client, err := redisclient.NewClient(ctx, redisclient.Config{
		Addr:           cfg.GetAddress(),
		Password:       cfg.Password,
		DB:             cfg.DB,
		PoolSize:       cfg.PoolSize,
		ConnectTimeout: cfg.ConnectTimeout,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrCreateRedisClient, err)
	}

	return throttle.NewRedisThrottle(client, cfg.ThrottleWindow, cfg.ThrottleMaxAttempts), nil
}

// newImageStorage создает хранилище изображений. При ошибке закрывает уже открытый счетчик входов.
func newImageStorage(ctx context.Context, cfg *config.StorageConfig, loginThrottle authsvc.LoginThrottle) (empstorage.ImageStorage, error) {
	log := logger.Log(ctx)

	log.Info(ctx, LogInitStorage, zap.String("backend", cfg.Backend))
	images, err := storage.New(ctx, cfg)
	if err != nil {
		log.Error(ctx, ErrInitStorage, zap.Error(err))
		if closeErr := loginThrottle.Close(); closeErr != nil {
			log.Error(ctx, ErrCloseThrottle, zap.Error(closeErr))
		}
		return nil, err
	}

	return images, nil
}
