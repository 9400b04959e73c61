// Package respond переводит ошибки приложения в HTTP ответы.
package respond

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"employeehub/internal/apperr"
	"employeehub/internal/gateway/app/dto"
	"employeehub/pkg/logger"
)

// MsgInternalServerError отдается клиенту, когда у ошибки нет безопасного сообщения.
const MsgInternalServerError = "Internal server error"

const (
	logRequestFailed = "request failed"
	errSendResponse  = "sending response"
)

// StatusFor возвращает HTTP статус для категории ошибки.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
		return fiber.StatusBadRequest
	case errors.Is(err, apperr.ErrAuth), errors.Is(err, apperr.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, apperr.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, apperr.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// Error пишет тело {"message": ...} со статусом, соответствующим err.
// Ошибки 5xx логируются, причина клиенту не раскрывается.
func Error(ctx fiber.Ctx, err error) error {
	status := StatusFor(err)

	msg := MsgInternalServerError
	if appErr, ok := apperr.As(err); ok && appErr.Message != "" {
		msg = appErr.Message
	}

	if status >= fiber.StatusInternalServerError {
		requestCtx := ctx.Context()
		logger.Log(requestCtx).Error(requestCtx, logRequestFailed,
			zap.String("path", ctx.Path()),
			zap.Error(err))
	}

	return Message(ctx, status, msg)
}

// Message пишет тело {"message": msg} с заданным статусом.
func Message(ctx fiber.Ctx, status int, msg string) error {
	if err := ctx.Status(status).JSON(dto.MessageResponse{Message: msg}); err != nil {
		return fmt.Errorf("%s: %w", errSendResponse, err)
	}
	return nil
}

// JSON пишет body с заданным статусом.
func JSON(ctx fiber.Ctx, status int, body any) error {
	if err := ctx.Status(status).JSON(body); err != nil {
		return fmt.Errorf("%s: %w", errSendResponse, err)
	}
	return nil
}
