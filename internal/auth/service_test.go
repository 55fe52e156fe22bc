package auth

import (
	"context"
	"testing"
	"time"

	"shilajit-be/internal/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAdmin(t *testing.T) Admin {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret!"), bcrypt.MinCost)
	require.NoError(t, err)
	return Admin{Email: "admin@example.com", PasswordHash: string(hash), Secret: "testsecret"}
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		svc := &service{admin: newTestAdmin(t), now: func() time.Time { return fixed }}

		sess, err := svc.Login(ctx, LoginInput{Email: " Admin@Example.com ", Password: "s3cret!"})
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", sess.Email)
		assert.Equal(t, RoleAdmin, sess.Role)
		assert.Equal(t, fixed.Add(24*time.Hour), sess.ExpiresAt)
		assert.NotEmpty(t, sess.Token)
	})

	t.Run("Token parses", func(t *testing.T) {
		sess, err := NewService(newTestAdmin(t)).Login(ctx, LoginInput{Email: "admin@example.com", Password: "s3cret!"})
		require.NoError(t, err)

		claims, err := ParseJWT("testsecret", sess.Token)
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, claims.Role)
	})

	t.Run("Wrong password", func(t *testing.T) {
		_, err := NewService(newTestAdmin(t)).Login(ctx, LoginInput{Email: "admin@example.com", Password: "nope"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Wrong email", func(t *testing.T) {
		_, err := NewService(newTestAdmin(t)).Login(ctx, LoginInput{Email: "other@example.com", Password: "s3cret!"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("No admin configured", func(t *testing.T) {
		_, err := NewService(Admin{Secret: "x"}).Login(ctx, LoginInput{Email: "admin@example.com", Password: "s3cret!"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("Invalid input", func(t *testing.T) {
		_, err := NewService(newTestAdmin(t)).Login(ctx, LoginInput{Email: "not-an-email"})
		assert.ErrorIs(t, err, apperror.ErrValidation)
	})

	t.Run("Missing secret", func(t *testing.T) {
		admin := newTestAdmin(t)
		admin.Secret = ""
		_, err := NewService(admin).Login(ctx, LoginInput{Email: "admin@example.com", Password: "s3cret!"})
		assert.ErrorIs(t, err, ErrSecretNotSet)
	})
}
