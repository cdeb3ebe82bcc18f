package service

import (
	"context"
	"testing"
	"time"

	"github.com/sonoda80/coachlog/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService() (AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	return NewAuthService(users, "test-secret", time.Hour), users
}

func TestRegister_CreatesUserWithHashedPassword(t *testing.T) {
	svc, users := newAuthService()

	user, err := svc.Register(context.Background(), "client@example.com", "password123", domain.RoleClient)
	require.NoError(t, err)

	assert.False(t, user.ID.IsZero())
	assert.Equal(t, domain.RoleClient, user.Role)
	assert.Empty(t, user.PasswordHash)

	stored, err := users.GetByEmail(context.Background(), "client@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "password123", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "client@example.com", "password123", domain.RoleClient)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "client@example.com", "different", domain.RoleTrainer)
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestLogin_ReturnsSignedToken(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "client@example.com", "password123", domain.RoleClient)
	require.NoError(t, err)

	token, user, err := svc.Login(ctx, "client@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Empty(t, user.PasswordHash)

	claims := &jwtClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, registered.ID.Hex(), claims.UserID)
	assert.Equal(t, domain.RoleClient, claims.Role)
	assert.Equal(t, "coachlog", claims.Issuer)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "client@example.com", "password123", domain.RoleClient)
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "client@example.com", "wrong")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _ := newAuthService()

	_, _, err := svc.Login(context.Background(), "nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
