// Package http содержит компоненты для HTTP сервера.
package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/static"
	"go.uber.org/zap"

	"employeehub/internal/apperr"
	authapi "employeehub/internal/auth/ports/api"
	"employeehub/internal/config"
	employeeapi "employeehub/internal/employees/ports/api"
	"employeehub/internal/gateway/app/http/auth"
	"employeehub/internal/gateway/app/http/employees"
	"employeehub/internal/gateway/app/http/middleware"
	"employeehub/internal/gateway/app/http/respond"
	"employeehub/pkg/logger"
)

// Константы ответов роутера.
const (
	MsgRouteNotFound = "Route not found"
	StatusOK         = "ok"
	StatusDown       = "unavailable"

	healthTimeout  = 2 * time.Second
	logHealthCheck = "health check failed"
)

// HealthChecker проверяет доступность хранилища.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Dependencies - все, что нужно роутеру для обработки запросов.
type Dependencies struct {
	Auth      authapi.AuthUseCase
	Employees employeeapi.EmployeeUseCase
	Health    HealthChecker

	CORSOrigins []string

	// UploadsDir и UploadsPrefix задают раздачу локально сохраненных изображений.
	// Пустой UploadsDir отключает раздачу.
	UploadsDir    string
	UploadsPrefix string
}

// NewApp создает fiber приложение с таймаутами и лимитом тела из конфигурации.
func NewApp(cfg *config.HTTPConfig) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "employeehub",
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: errorHandler,
	})
}

// errorHandler отвечает на ошибки, не обработанные в хендлерах, в формате {"message": ...}.
func errorHandler(ctx fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return respond.Message(ctx, fiberErr.Code, fiberErr.Message)
	}
	return respond.Error(ctx, err)
}

// SetupRouter настраивает маршрутизацию для HTTP сервера.
func SetupRouter(app *fiber.App, deps Dependencies) {
	authHandler := auth.NewHandler(deps.Auth)
	employeeHandler := employees.NewHandler(deps.Employees)

	// Middleware для всех запросов.
	app.Use(middleware.NewRequestIDMiddleware())
	app.Use(middleware.NewLoggerMiddleware())
	app.Use(middleware.NewRecoveryMiddleware())
	// Без списка источников cors подставляет "*", что с AllowCredentials недопустимо.
	if len(deps.CORSOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions},
			AllowHeaders:     []string{fiber.HeaderContentType, fiber.HeaderAuthorization, fiber.HeaderXRequestedWith},
			AllowCredentials: true,
		}))
	}

	app.Get("/health", healthHandler(deps.Health))

	if deps.UploadsDir != "" {
		app.Get(deps.UploadsPrefix+"*", static.New(deps.UploadsDir))
	}

	api := app.Group("/api")

	// Публичные маршруты.
	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)

	// Защищенные маршруты.
	employeeRoutes := api.Group("/employees", middleware.NewAuthMiddleware(deps.Auth))
	employeeRoutes.Post("/", employeeHandler.Create)
	employeeRoutes.Get("/", employeeHandler.List)
	employeeRoutes.Get("/:id", employeeHandler.Get)
	employeeRoutes.Put("/:id", employeeHandler.Update)
	employeeRoutes.Delete("/:id", employeeHandler.Delete)

	// Обработчик для несуществующих маршрутов.
	app.Use(func(ctx fiber.Ctx) error {
		return respond.Error(ctx, apperr.NotFound(MsgRouteNotFound))
	})
}

func healthHandler(checker HealthChecker) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()

		if checker != nil {
			pingCtx, cancel := context.WithTimeout(requestCtx, healthTimeout)
			defer cancel()

			if err := checker.Ping(pingCtx); err != nil {
				logger.Log(requestCtx).Warn(requestCtx, logHealthCheck, zap.Error(err))
				return respond.JSON(ctx, fiber.StatusServiceUnavailable, fiber.Map{"status": StatusDown})
			}
		}

		return respond.JSON(ctx, fiber.StatusOK, fiber.Map{"status": StatusOK})
	}
}
