package services

import (
	"time"
)

// PublicUser - поля пользователя, которые можно отдавать клиенту.
type PublicUser struct {
	ID           string
	Username     string
	SerialNumber int64
}

// LoginResult - результат успешного входа.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      PublicUser
}
