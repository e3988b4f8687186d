package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"conselhoreal/internal/auth"
	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/metrics"
	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

// AuthUserRepository is what AuthService needs from the repository.
type AuthUserRepository interface {
	repository.AuthRepository
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
}

// AuthService handles authentication operations.
type AuthService interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user model.User, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type authService struct {
	users      AuthUserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	metrics    *metrics.Metrics
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users AuthUserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, m *metrics.Metrics, logger *zap.Logger) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		metrics:    m,
		logger:     logger,
	}
}

// Login authenticates a user and returns access and refresh tokens.
// Every authentication failure is reported as apperrors.ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, user model.User, err error) {
	user, err = s.users.AuthenticateUser(ctx, email, password)
	if err != nil {
		s.metrics.Login("failure")
		if errors.Is(err, apperrors.ErrInvalidCredentials) || errors.Is(err, apperrors.ErrProfileNotFound) {
			return "", "", model.User{}, apperrors.ErrInvalidCredentials
		}
		return "", "", model.User{}, fmt.Errorf("authenticate: %w", err)
	}

	accessToken, err = s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", "", model.User{}, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return "", "", model.User{}, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, user.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", model.User{}, fmt.Errorf("store refresh token: %w", err)
	}

	s.metrics.Login("success")
	s.logger.Info("user signed in", zap.Int64("user_id", user.ID), zap.String("role", string(user.Role)))
	return accessToken, refreshToken, user, nil
}

// RefreshToken validates a refresh token and returns a new access token carrying
// the user's current role.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", apperrors.ErrInvalidRefreshToken
	}
	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", apperrors.ErrInvalidRefreshToken
	}

	user, err := s.users.GetUserByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return "", apperrors.ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("load user: %w", err)
	}
	if model.NormalizeEmail(user.Email) == repository.AdminEmail {
		user.Role = model.RoleAdm
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token and, when given, the current access token.
// Signing out needs nothing from the repository.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if accessToken == "" {
		return nil
	}
	access, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil
	}
	if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, auth.AccessTokenExpiry); err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}
