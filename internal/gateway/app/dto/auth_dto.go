// Package dto содержит объекты передачи данных HTTP API.
package dto

import (
	"bytes"
	"encoding/json"
	"errors"

	"employeehub/internal/auth/domain/services"
)

// ErrInvalidSerialNumberType возвращается, когда sno не число и не строка.
var ErrInvalidSerialNumberType = errors.New("sno must be a number or a string")

// SerialNumber принимает sno как JSON-число или строку и хранит его текстом для строгой проверки в сервисе.
type SerialNumber string

// UnmarshalJSON реализует json.Unmarshaler.
func (s *SerialNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = SerialNumber(str)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return ErrInvalidSerialNumberType
		}
		*s = SerialNumber(num.String())
	}
	return nil
}

// RegisterRequest содержит данные для регистрации пользователя.
type RegisterRequest struct {
	Username     string       `json:"username"`
	Password     string       `json:"password"`
	SerialNumber SerialNumber `json:"sno"`
}

// LoginRequest содержит данные для входа пользователя.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MessageResponse - ответ, состоящий из одного сообщения. Так же выглядят ошибки.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse содержит публичные поля пользователя.
type UserResponse struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	SerialNumber int64  `json:"sno"`
}

// LoginResponse содержит токен и данные пользователя.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// NewLoginResponse строит ответ из результата входа.
func NewLoginResponse(result *services.LoginResult) LoginResponse {
	return LoginResponse{
		Token: result.Token,
		User: UserResponse{
			ID:           result.User.ID,
			Username:     result.User.Username,
			SerialNumber: result.User.SerialNumber,
		},
	}
}
