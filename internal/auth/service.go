package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"shilajit-be/internal/apperror"
	"shilajit-be/internal/logger"

	"go.uber.org/zap"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Session struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type Service interface {
	Login(ctx context.Context, input LoginInput) (*Session, error)
}

// Admin is the single configured back-office account.
type Admin struct {
	Email        string
	PasswordHash string
	Secret       string
}

type service struct {
	admin Admin
	now   func() time.Time
}

func NewService(admin Admin) Service {
	return &service{admin: admin, now: time.Now}
}

func (s *service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
	)

	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if err := apperror.Struct(input); err != nil {
		return nil, err
	}

	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		log.Warn("admin login attempted but no admin account is configured")
		return nil, ErrInvalidCredentials
	}

	emailOK := subtle.ConstantTimeCompare([]byte(input.Email), []byte(strings.ToLower(s.admin.Email))) == 1
	if !CheckPasswordHash(input.Password, s.admin.PasswordHash) || !emailOK {
		log.Warn("admin login rejected", zap.String("email", input.Email))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	token, err := GenerateJWT(s.admin.Secret, input.Email, RoleAdmin, now)
	if err != nil {
		log.Error("failed to generate jwt", zap.Error(err))
		return nil, err
	}

	log.Info("admin logged in", zap.String("email", input.Email))
	return &Session{Token: token, Email: input.Email, Role: RoleAdmin, ExpiresAt: now.Add(tokenTTL)}, nil
}
