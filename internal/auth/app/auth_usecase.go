// Package app содержит сценарии регистрации, входа и проверки токена.
package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"employeehub/internal/apperr"
	"employeehub/internal/auth/domain/entities"
	"employeehub/internal/auth/domain/services"
	"employeehub/internal/auth/ports/api"
	"employeehub/internal/auth/ports/repositories"
	svc "employeehub/internal/auth/ports/services"
	"employeehub/pkg/logger"
)

// Сообщения, которые видит клиент.
const (
	MsgAllFieldsRequired    = "All fields are required"
	MsgInvalidSerialNumber  = "Serial number must be a valid number"
	MsgPasswordTooLong      = "Password must be at most 72 bytes"
	MsgUsernameExists       = "Username already exists"
	MsgSerialNumberExists   = "Serial number already exists"
	MsgErrorCreatingUser    = "Error creating user"
	MsgCredentialsRequired  = "Username and password are required"
	MsgInvalidCredentials   = "Invalid credentials"
	MsgTooManyAttempts      = "Too many failed login attempts, try again later"
	MsgErrorLoggingIn       = "Error logging in"
	MsgNoTokenProvided      = "No token provided"
	MsgInvalidToken         = "Invalid token"
	msgFieldAlreadyExistsFm = "%s already exists"
)

const (
	methodRegister     = "Register"
	methodLogin        = "Login"
	methodAuthenticate = "Authenticate"

	msgStartRegistration   = "starting user registration"
	msgUserRegistered      = "user registered successfully"
	msgRegistrationInvalid = "registration rejected"
	msgLoginAttempt        = "login attempt"
	msgLoginRejected       = "login rejected"
	msgLoginThrottled      = "login attempt throttled"
	msgUserLoggedIn        = "user logged in successfully"
	msgTokenRejected       = "access token rejected"

	msgErrCheckExistingUser = "failed to check existing user"
	msgErrHashPassword      = "failed to hash password"
	msgErrCreateUser        = "failed to create user"
	msgErrFindingUser       = "error finding user by username"
	msgErrVerifyingPassword = "error verifying password"
	msgErrGenerateToken     = "failed to generate access token"
	msgErrThrottle          = "login throttle unavailable"
)

// dummyPasswordHash сравнивается с паролем, когда пользователь не найден,
// чтобы время ответа не выдавало существование имени.
//
//nolint:gosec
const dummyPasswordHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthUseCaseImpl реализует интерфейс AuthUseCase.
type AuthUseCaseImpl struct {
	userRepo    repositories.UserRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	throttle    svc.LoginThrottle
}

// NewAuthUseCase создает новый экземпляр сервиса аутентификации.
func NewAuthUseCase(
	userRepo repositories.UserRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	throttle svc.LoginThrottle,
) api.AuthUseCase {
	return &AuthUseCaseImpl{
		userRepo:    userRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		throttle:    throttle,
	}
}

// Register создает нового пользователя. Пароль сохраняется только в виде bcrypt-хэша.
func (a *AuthUseCaseImpl) Register(ctx context.Context, username, password, serialNumber string) (*entities.User, error) {
	username = strings.TrimSpace(username)
	serialNumber = strings.TrimSpace(serialNumber)

	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("username", username))
	log.Debug(ctx, msgStartRegistration)

	if username == "" || strings.TrimSpace(password) == "" || serialNumber == "" {
		log.Debug(ctx, msgRegistrationInvalid, zap.String("reason", MsgAllFieldsRequired))
		return nil, apperr.Validation(MsgAllFieldsRequired)
	}

	sno, err := strconv.ParseInt(serialNumber, 10, 64)
	if err != nil {
		log.Debug(ctx, msgRegistrationInvalid, zap.String("reason", MsgInvalidSerialNumber))
		return nil, apperr.Validation(MsgInvalidSerialNumber)
	}

	if len(password) > services.MaxPasswordBytes {
		log.Debug(ctx, msgRegistrationInvalid, zap.String("reason", MsgPasswordTooLong))
		return nil, apperr.Validation(MsgPasswordTooLong)
	}

	if err := a.ensureUnique(ctx, log, username, sno); err != nil {
		return nil, err
	}

	hashedPassword, err := a.passwordSvc.Hash(ctx, password)
	if err != nil {
		log.Error(ctx, msgErrHashPassword, zap.Error(err))
		return nil, apperr.Internal(MsgErrorCreatingUser, err)
	}

	createdUser, err := a.userRepo.Create(ctx, &entities.User{
		Username:     username,
		PasswordHash: hashedPassword,
		SerialNumber: sno,
	})
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrUsernameTaken):
			return nil, apperr.Conflict(entities.FieldUsername, fieldAlreadyExists(entities.FieldUsername))
		case errors.Is(err, entities.ErrSerialNumberTaken):
			return nil, apperr.Conflict(entities.FieldSerialNumber, fieldAlreadyExists(entities.FieldSerialNumber))
		}
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, apperr.Internal(MsgErrorCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))
	return createdUser, nil
}

func (a *AuthUseCaseImpl) ensureUnique(ctx context.Context, log *logger.Logger, username string, sno int64) error {
	existing, err := a.userRepo.FindByUsername(ctx, username)
	switch {
	case err == nil && existing != nil:
		return apperr.Conflict(entities.FieldUsername, MsgUsernameExists)
	case err != nil && !errors.Is(err, entities.ErrUserNotFound):
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return apperr.Internal(MsgErrorCreatingUser, err)
	}

	existing, err = a.userRepo.FindBySerialNumber(ctx, sno)
	switch {
	case err == nil && existing != nil:
		return apperr.Conflict(entities.FieldSerialNumber, MsgSerialNumberExists)
	case err != nil && !errors.Is(err, entities.ErrUserNotFound):
		log.Error(ctx, msgErrCheckExistingUser, zap.Error(err))
		return apperr.Internal(MsgErrorCreatingUser, err)
	}

	return nil
}

// Login проверяет учетные данные и выпускает токен доступа.
func (a *AuthUseCaseImpl) Login(ctx context.Context, username, password string) (*services.LoginResult, error) {
	username = strings.TrimSpace(username)

	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("username", username))
	log.Debug(ctx, msgLoginAttempt)

	if username == "" || password == "" {
		return nil, apperr.Validation(MsgCredentialsRequired)
	}

	allowed, err := a.throttle.Allowed(ctx, username)
	if err != nil {
		log.Warn(ctx, msgErrThrottle, zap.Error(err))
	}
	if !allowed {
		log.Info(ctx, msgLoginThrottled)
		return nil, apperr.TooManyAttempts(MsgTooManyAttempts)
	}

	user, err := a.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, entities.ErrUserNotFound) {
			log.Error(ctx, msgErrFindingUser, zap.Error(err))
			return nil, apperr.Internal(MsgErrorLoggingIn, err)
		}
		_, _ = a.passwordSvc.Verify(ctx, password, dummyPasswordHash)
		return nil, a.rejectLogin(ctx, log, username)
	}

	valid, err := a.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyingPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, apperr.Internal(MsgErrorLoggingIn, err)
	}
	if !valid {
		return nil, a.rejectLogin(ctx, log, username)
	}

	token, expiresAt, err := a.tokenSvc.GenerateAccessToken(ctx, user.ID, user.Username)
	if err != nil {
		log.Error(ctx, msgErrGenerateToken, zap.Error(err), zap.String("userID", user.ID))
		return nil, apperr.Internal(MsgErrorLoggingIn, err)
	}

	if err := a.throttle.Reset(ctx, username); err != nil {
		log.Warn(ctx, msgErrThrottle, zap.Error(err))
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return &services.LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User: services.PublicUser{
			ID:           user.ID,
			Username:     user.Username,
			SerialNumber: user.SerialNumber,
		},
	}, nil
}

func (a *AuthUseCaseImpl) rejectLogin(ctx context.Context, log *logger.Logger, username string) error {
	log.Debug(ctx, msgLoginRejected)
	if err := a.throttle.RegisterFailure(ctx, username); err != nil {
		log.Warn(ctx, msgErrThrottle, zap.Error(err))
	}
	return apperr.Auth(MsgInvalidCredentials)
}

// Authenticate возвращает ID пользователя из действительного токена доступа.
func (a *AuthUseCaseImpl) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthorized(MsgNoTokenProvided)
	}

	userID, err := a.tokenSvc.ValidateAccessToken(ctx, token)
	if err != nil {
		logger.Log(ctx).Debug(ctx, msgTokenRejected, zap.String("method", methodAuthenticate), zap.Error(err))
		return "", &apperr.Error{Kind: apperr.ErrUnauthorized, Message: MsgInvalidToken, Err: err}
	}

	return userID, nil
}

func fieldAlreadyExists(field string) string {
	return fmt.Sprintf(msgFieldAlreadyExistsFm, field)
}
