package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"employeehub/internal/apperr"
	"employeehub/internal/gateway/app/http/respond"
	"employeehub/pkg/logger"
)

// LocalUserID - ключ ctx.Locals с идентификатором аутентифицированного пользователя.
const LocalUserID = "userID"

const (
	headerAuthorization = "Authorization"
	bearerPrefix        = "Bearer "

	msgNoTokenProvided = "No token provided"
	msgInvalidToken    = "Invalid token"

	logTokenRejected = "access token rejected"
)

// Authenticator проверяет токен доступа и возвращает идентификатор пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (string, error)
}

// NewAuthMiddleware пропускает дальше только запросы с действительным Bearer токеном.
func NewAuthMiddleware(auth Authenticator) fiber.Handler {
	return func(ctx fiber.Ctx) error {
		requestCtx := ctx.Context()
		log := logger.Log(requestCtx).With(zap.String("middleware", "auth"))

		header := strings.TrimSpace(ctx.Get(headerAuthorization))
		if header == "" || header == strings.TrimSpace(bearerPrefix) {
			return respond.Error(ctx, apperr.Unauthorized(msgNoTokenProvided))
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			return respond.Error(ctx, apperr.Unauthorized(msgInvalidToken))
		}

		userID, err := auth.Authenticate(requestCtx, strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			log.Debug(requestCtx, logTokenRejected, zap.Error(err))
			if _, ok := apperr.As(err); !ok {
				err = apperr.Unauthorized(msgInvalidToken)
			}
			return respond.Error(ctx, err)
		}

		ctx.Locals(LocalUserID, userID)
		ctx.SetContext(logger.NewContext(requestCtx, logger.Log(requestCtx).With(zap.String("userID", userID))))

		return ctx.Next()
	}
}
