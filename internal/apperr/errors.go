// Package apperr описывает категории ошибок, которые видит клиент API.
package apperr

import (
	"errors"
)

// Категории ошибок.
var (
	ErrValidation      = errors.New("validation error")
	ErrConflict        = errors.New("conflict")
	ErrAuth            = errors.New("invalid credentials")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrNotFound        = errors.New("not found")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrInternal        = errors.New("internal error")
)

// Error несет категорию, сообщение для клиента и, при наличии, поле и исходную причину.
type Error struct {
	Kind    error
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap позволяет errors.Is сопоставлять как категорию, так и причину.
func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// Validation - некорректный или неполный ввод.
func Validation(msg string) *Error {
	return &Error{Kind: ErrValidation, Message: msg}
}

// Conflict - нарушение уникальности поля.
func Conflict(field, msg string) *Error {
	return &Error{Kind: ErrConflict, Field: field, Message: msg}
}

// Auth - неверные учетные данные.
func Auth(msg string) *Error {
	return &Error{Kind: ErrAuth, Message: msg}
}

// Unauthorized - отсутствующий или недействительный токен.
func Unauthorized(msg string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: msg}
}

// NotFound - запись отсутствует.
func NotFound(msg string) *Error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// TooManyAttempts - превышен лимит неудачных попыток.
func TooManyAttempts(msg string) *Error {
	return &Error{Kind: ErrTooManyAttempts, Message: msg}
}

// Internal - непредвиденный сбой. Сообщение не показывается клиенту как есть.
func Internal(msg string, err error) *Error {
	return &Error{Kind: ErrInternal, Message: msg, Err: err}
}

// As извлекает *Error из цепочки ошибок.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
