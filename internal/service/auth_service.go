package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/commerceprecision/cpe-api/internal/service/auth"
	"github.com/commerceprecision/cpe-api/internal/store"
)

// TokenPair is the result of a successful login or token refresh.
type TokenPair struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// AuthService authenticates alpha users by access code and manages their
// token lifecycle.
type AuthService struct {
	userStore  store.UserStore
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthService creates a new AuthService.
// It returns an error if any of the required dependencies are nil.
func NewAuthService(
	userStore store.UserStore,
	jwtService auth.JWTService,
	logger *slog.Logger,
) (*AuthService, error) {
	if userStore == nil {
		return nil, errors.New("userStore cannot be nil")
	}
	if jwtService == nil {
		return nil, errors.New("jwtService cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		userStore:  userStore,
		jwtService: jwtService,
		logger:     logger.With(slog.String("component", "auth_service")),
	}, nil
}

// Login exchanges an access code for a token pair. An unknown or wrong code
// returns auth.ErrInvalidCredentials; the two cases are indistinguishable to
// the caller.
func (s *AuthService) Login(ctx context.Context, accessCode string) (*TokenPair, error) {
	user, err := s.userStore.GetByAccessCode(ctx, accessCode)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.InfoContext(ctx, "login rejected: access code matched no user")
			return nil, auth.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user by access code: %w", err)
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a fresh token pair. The user
// must still exist; deleted users cannot refresh their way back in.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.userStore.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "refresh rejected: user no longer exists",
				"user_id", claims.UserID)
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up user for refresh: %w", err)
	}

	pair, err := s.issueTokens(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "token pair refreshed", "user_id", claims.UserID)
	return pair, nil
}

// issueTokens generates a new access and refresh token pair.
func (s *AuthService) issueTokens(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtService.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
