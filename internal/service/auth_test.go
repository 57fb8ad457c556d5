package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	return &AuthService{
		Repo:          &repo.GormRepo{DB: db},
		JWTSecret:     []byte("test-jwt-secret"),
		RefreshSecret: []byte("test-refresh-secret"),
	}
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "password")
	require.NoError(t, err)
	require.Equal(t, "user", user.Role)
	require.NotEqual(t, "password", user.PasswordHash)

	res, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	require.NotEmpty(t, res.RefreshToken)

	_, err = svc.Login(ctx, "alice", "wrong")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRegisterDuplicate(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other")
	require.ErrorIs(t, err, ErrConflict)
}

func TestRotateInvalidatesOldToken(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password")
	require.NoError(t, err)

	first, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	second, err := svc.Rotate(ctx, first.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The consumed token cannot be rotated again.
	_, err = svc.Rotate(ctx, first.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestRotateAfterLogout(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "password")
	require.NoError(t, err)

	res, err := svc.Login(ctx, "alice", "password")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.RefreshToken))

	_, err = svc.Rotate(ctx, res.RefreshToken)
	require.ErrorIs(t, err, ErrUnauthorized)
}
