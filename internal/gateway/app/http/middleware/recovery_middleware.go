package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"employeehub/internal/gateway/app/http/respond"
	"employeehub/pkg/logger"
)

const (
	logServerPanic       = "server panic"
	logPanicResponseFail = "failed to send error response after panic"
)

// NewRecoveryMiddleware перехватывает панику обработчика и отвечает 500.
func NewRecoveryMiddleware() fiber.Handler {
	return func(ctx fiber.Ctx) (err error) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			requestCtx := ctx.Context()
			log := logger.Log(requestCtx)
			log.Error(requestCtx, logServerPanic,
				zap.String("error", fmt.Sprintf("%v", r)),
				zap.String("stack", string(debug.Stack())),
			)

			if sendErr := respond.Message(ctx, fiber.StatusInternalServerError, respond.MsgInternalServerError); sendErr != nil {
				log.Error(requestCtx, logPanicResponseFail, zap.Error(sendErr))
				err = sendErr
			}
		}()

		return ctx.Next()
	}
}
