package services

import (
	"errors"
)

// Ошибки работы с паролями.
var (
	ErrHashingFailed   = errors.New("failed to hash password")
	ErrInvalidPassword = errors.New("invalid password")
)

// MaxPasswordBytes - предел длины пароля для bcrypt.
const MaxPasswordBytes = 72
