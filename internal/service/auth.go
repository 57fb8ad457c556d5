package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
}

type LoginResult struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	if _, err := s.Repo.UserByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("user %q already exists: %w", username, ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     username,
		PasswordHash: pwHash,
		Role:         "user",
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invalid username or password: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("invalid username or password: %w", ErrUnauthorized)
	}

	res, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	l.Info("login_successful", "user_id", user.ID)
	return res, nil
}

// Logout revokes the presented refresh token. Unknown tokens revoke to a
// no-op so signing out twice is harmless.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

// Rotate exchanges a live refresh token for a fresh access+refresh pair.
func (s *AuthService) Rotate(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("invalid refresh token: %w", ErrUnauthorized)
	}

	stored, err := s.Repo.RefreshTokenByValue(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("refresh token unknown: %w", ErrUnauthorized)
		}
		return nil, err
	}
	if stored.Revoked {
		return nil, fmt.Errorf("refresh token revoked: %w", ErrUnauthorized)
	}
	if time.Now().After(stored.ExpiresAt) {
		return nil, fmt.Errorf("refresh token expired: %w", ErrUnauthorized)
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, fmt.Errorf("invalid refresh subject: %w", ErrUnauthorized)
	}

	user, err := s.Repo.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user %d not found: %w", userID, ErrUnauthorized)
	}

	if err := s.Repo.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResult, error) {
	accessExp := time.Now().Add(tokens.AccessTTL)
	access, err := tokens.SignAccess(user.ID, user.Role, s.JWTSecret, accessExp)
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(tokens.RefreshTTL)
	refresh, err := tokens.SignRefresh(user.ID, s.RefreshSecret, refreshExp)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.SaveRefreshToken(ctx, refresh, user.ID, refreshExp); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, nil
}
