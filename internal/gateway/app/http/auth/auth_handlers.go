// Package auth содержит HTTP обработчики регистрации и входа.
package auth

import (
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"employeehub/internal/apperr"
	"employeehub/internal/auth/ports/api"
	"employeehub/internal/gateway/app/dto"
	"employeehub/internal/gateway/app/http/respond"
	"employeehub/pkg/logger"
)

// Константы для логирования и ответов.
const (
	LogHandlerRegister = "auth handler: register"
	LogHandlerLogin    = "auth handler: login"

	MsgUserCreated    = "User created successfully"
	MsgInvalidRequest = "Invalid request body"
	logInvalidRequest = "invalid request"
	logUserRegistered = "user registered"
)

// Handler содержит HTTP обработчики для авторизации.
type Handler struct {
	authUseCase api.AuthUseCase
}

// NewHandler создает новый экземпляр обработчика авторизации.
func NewHandler(authUseCase api.AuthUseCase) *Handler {
	return &Handler{
		authUseCase: authUseCase,
	}
}

// Register обрабатывает запрос на регистрацию нового пользователя.
func (h *Handler) Register(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerRegister)

	var req dto.RegisterRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, logInvalidRequest, zap.Error(err))
		return respond.Error(ctx, apperr.Validation(MsgInvalidRequest))
	}

	user, err := h.authUseCase.Register(requestCtx, req.Username, req.Password, string(req.SerialNumber))
	if err != nil {
		return respond.Error(ctx, err)
	}

	log.Info(requestCtx, logUserRegistered, zap.String("userID", user.ID))
	return respond.Message(ctx, fiber.StatusCreated, MsgUserCreated)
}

// Login обрабатывает запрос на вход пользователя.
func (h *Handler) Login(ctx fiber.Ctx) error {
	requestCtx := ctx.Context()
	log := logger.Log(requestCtx)
	log.Debug(requestCtx, LogHandlerLogin)

	var req dto.LoginRequest
	if err := ctx.Bind().JSON(&req); err != nil {
		log.Debug(requestCtx, logInvalidRequest, zap.Error(err))
		return respond.Error(ctx, apperr.Validation(MsgInvalidRequest))
	}

	result, err := h.authUseCase.Login(requestCtx, req.Username, req.Password)
	if err != nil {
		return respond.Error(ctx, err)
	}

	return respond.JSON(ctx, fiber.StatusOK, dto.NewLoginResponse(result))
}
