package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"conselhoreal/internal/auth"
	apperrors "conselhoreal/internal/errors"
	"conselhoreal/internal/metrics"
	"conselhoreal/internal/model"
	"conselhoreal/internal/repository"
)

// MockAuthUserRepository is a mock implementation of AuthUserRepository.
type MockAuthUserRepository struct {
	mock.Mock
}

func (m *MockAuthUserRepository) AuthenticateUser(ctx context.Context, email, password string) (model.User, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockAuthUserRepository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID int64, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (int64, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(int64), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

var testMember = model.User{ID: 2, Name: "Membro Teste", Email: "membro@conselhoreal.com", Role: model.RoleMembro}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockAuthUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "membro@conselhoreal.com",
			password: "visitante123",
			setupMock: func(mRepo *MockAuthUserRepository, mToken *MockTokenStore) {
				mRepo.On("AuthenticateUser", mock.Anything, "membro@conselhoreal.com", "visitante123").Return(testMember, nil)
				mToken.On("StoreRefreshToken", mock.Anything, mock.Anything, int64(2), "membro@conselhoreal.com", auth.RefreshTokenExpiry).Return(nil)
			},
		},
		{
			name:     "wrong password",
			email:    "membro@conselhoreal.com",
			password: "nope",
			setupMock: func(mRepo *MockAuthUserRepository, mToken *MockTokenStore) {
				mRepo.On("AuthenticateUser", mock.Anything, "membro@conselhoreal.com", "nope").Return(model.User{}, apperrors.ErrInvalidCredentials)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "credential without profile",
			email:    "orfao@conselhoreal.com",
			password: "secret",
			setupMock: func(mRepo *MockAuthUserRepository, mToken *MockTokenStore) {
				mRepo.On("AuthenticateUser", mock.Anything, "orfao@conselhoreal.com", "secret").Return(model.User{}, apperrors.ErrProfileNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockAuthUserRepository)
			mockTokenStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockTokenStore)

			jwtService := auth.NewJWTService("test-secret")
			service := NewAuthService(mockRepo, jwtService, mockTokenStore, metrics.New(), nil)

			accessToken, refreshToken, user, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, accessToken)
				assert.Empty(t, refreshToken)
				assert.Zero(t, user.ID)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, accessToken)
				assert.NotEmpty(t, refreshToken)
				assert.Equal(t, tt.email, user.Email)

				claims, err := jwtService.ValidateToken(accessToken)
				require.NoError(t, err)
				assert.Equal(t, model.RoleMembro, claims.Role)
			}

			mockRepo.AssertExpectations(t)
			mockTokenStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_WrapsUnexpectedErrors(t *testing.T) {
	mockRepo := new(MockAuthUserRepository)
	mockRepo.On("AuthenticateUser", mock.Anything, "a@b.c", "x").Return(model.User{}, errors.New("boom"))

	service := NewAuthService(mockRepo, auth.NewJWTService("test-secret"), new(MockTokenStore), nil, nil)
	_, _, _, err := service.Login(context.Background(), "a@b.c", "x")

	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(testMember)
	require.NoError(t, err)

	t.Run("issues a token with the current role", func(t *testing.T) {
		mockRepo := new(MockAuthUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(int64(2), testMember.Email, nil)
		promoted := testMember
		promoted.Role = model.RoleAdm
		mockRepo.On("GetUserByEmail", mock.Anything, testMember.Email).Return(promoted, nil)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil, nil)
		accessToken, err := service.RefreshToken(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdm, claims.Role)
		assert.Equal(t, int64(2), claims.UserID)
	})

	t.Run("revoked token", func(t *testing.T) {
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(int64(0), "", auth.ErrRefreshTokenNotFound)

		service := NewAuthService(new(MockAuthUserRepository), jwtService, mockTokenStore, nil, nil)
		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		service := NewAuthService(new(MockAuthUserRepository), jwtService, new(MockTokenStore), nil, nil)
		_, err := service.RefreshToken(context.Background(), "not-a-token")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})

	t.Run("access token", func(t *testing.T) {
		accessToken, err := jwtService.GenerateAccessToken(testMember)
		require.NoError(t, err)
		mockTokenStore := new(MockTokenStore)

		service := NewAuthService(new(MockAuthUserRepository), jwtService, mockTokenStore, nil, nil)
		_, err = service.RefreshToken(context.Background(), accessToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
		mockTokenStore.AssertNotCalled(t, "GetRefreshToken", mock.Anything, mock.Anything)
	})

	t.Run("user removed", func(t *testing.T) {
		mockRepo := new(MockAuthUserRepository)
		mockTokenStore := new(MockTokenStore)
		mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(int64(2), testMember.Email, nil)
		mockRepo.On("GetUserByEmail", mock.Anything, testMember.Email).Return(model.User{}, apperrors.ErrNotFound)

		service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil, nil)
		_, err := service.RefreshToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	})
}

func TestAuthService_RefreshToken_AdminEmailIsAlwaysAdmin(t *testing.T) {
	admin := model.User{ID: 1, Email: repository.AdminEmail, Role: model.RoleMembro}
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(admin)
	require.NoError(t, err)

	mockRepo := new(MockAuthUserRepository)
	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(int64(1), repository.AdminEmail, nil)
	mockRepo.On("GetUserByEmail", mock.Anything, repository.AdminEmail).Return(admin, nil)

	service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil, nil)
	accessToken, err := service.RefreshToken(context.Background(), refreshToken)
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin())
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(testMember)
	require.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(testMember)
	require.NoError(t, err)
	access, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)

	mockTokenStore := new(MockTokenStore)
	mockTokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
	mockTokenStore.On("BlacklistAccessToken", mock.Anything, access.ID, auth.AccessTokenExpiry).Return(nil)

	mockRepo := new(MockAuthUserRepository)
	service := NewAuthService(mockRepo, jwtService, mockTokenStore, nil, nil)
	require.NoError(t, service.Logout(context.Background(), refreshToken, accessToken))

	mockTokenStore.AssertExpectations(t)
	mockRepo.AssertNotCalled(t, "AuthenticateUser", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
}

func TestAuthService_Logout_InvalidToken(t *testing.T) {
	service := NewAuthService(new(MockAuthUserRepository), auth.NewJWTService("test-secret"), new(MockTokenStore), nil, nil)
	err := service.Logout(context.Background(), "garbage", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
}

func TestAuthService_Logout_RejectsAccessTokenAsRefresh(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(testMember)
	require.NoError(t, err)
	mockTokenStore := new(MockTokenStore)

	service := NewAuthService(new(MockAuthUserRepository), jwtService, mockTokenStore, nil, nil)
	err = service.Logout(context.Background(), accessToken, "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRefreshToken)
	mockTokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}
