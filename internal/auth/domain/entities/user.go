// Package entities содержит доменные сущности аутентификации.
package entities

import (
	"errors"
	"time"
)

// Ошибки хранилища пользователей.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already exists")
	ErrSerialNumberTaken = errors.New("serial number already exists")
)

// Поля пользователя, которые могут конфликтовать при регистрации.
const (
	FieldUsername     = "username"
	FieldSerialNumber = "sno"
)

// User представляет учетную запись оператора.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	SerialNumber int64
	CreatedAt    time.Time
}
