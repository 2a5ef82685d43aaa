package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	service          usecase.UserUsecase
	txManager        *mockRepo.MockTransactionManager
	userRepo         *mockRepo.MockUserRepository
	refreshTokenRepo *mockRepo.MockRefreshTokenRepository
	hasher           *mockSvc.MockPasswordHasher
	tokenService     *mockSvc.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	userRepo := mockRepo.NewMockUserRepository(t)
	refreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)
	hasher := mockSvc.NewMockPasswordHasher(t)
	tokenService := mockSvc.NewMockTokenService(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewUserService(UserServiceParams{
		TxManager:        txManager,
		UserRepo:         userRepo,
		RefreshTokenRepo: refreshTokenRepo,
		PasswordHasher:   hasher,
		TokenService:     tokenService,
		Config:           &config.Config{Auth: &config.AuthConfig{MaxActiveSessions: 3}},
		Logger:           logger,
	})

	return userServiceFixtures{
		service:          service,
		txManager:        txManager,
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		hasher:           hasher,
		tokenService:     tokenService,
	}
}

func TestUserService_RegisterUser_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(nil, repository.ErrUserNotFound)
			mockUserRepo.EXPECT().
				Create(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					assert.Equal(t, input.Email, user.Email)
					assert.Nil(t, user.AdminProfile)
				}).
				Return(nil)
			mockAuthRepo.EXPECT().
				CreateAuthentication(ctx, mock.AnythingOfType("*entity.Authentication")).
				Run(func(ctx context.Context, auth *entity.Authentication) {
					assert.Equal(t, entity.ProviderTypeEmail, auth.Provider)
					assert.Equal(t, input.Email, auth.ProviderUserID)
					assert.Equal(t, "hashed_password", auth.PasswordHash)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.RegisterUser(ctx, input)

	require.NoError(t, err)
	require.NotNil(t, output)
	assert.Equal(t, input.Email, output.User.Email)
	assert.Equal(t, entity.Roles{entity.RoleUser}, output.User.UserRoles())
}

func TestUserService_RegisterUser_EmailTaken(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    "taken@example.com",
		Password: "Password123!",
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)

			mockUserRepo.EXPECT().
				FindByEmail(ctx, input.Email).
				Return(&entity.User{ID: uuid.New(), Email: input.Email}, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.RegisterUser(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_RegisterUser_WeakPassword(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterUserInput{
		Name:     "Test User",
		Email:    "test@example.com",
		Password: "short",
	}

	fx.hasher.EXPECT().
		ValidatePasswordStrength(input.Password).
		Return(errors.New("password must be at least 8 characters long"))

	output, err := fx.service.RegisterUser(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestUserService_RegisterAdmin_AttachesProfileToExistingAccount(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterAdminInput{
		Name:      "Shop Owner",
		Email:     "owner@example.com",
		Password:  "Password123!",
		StoreName: "Toko Maju",
	}
	existing := &entity.User{ID: uuid.New(), Email: input.Email, Name: "Shop Owner"}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)

			mockUserRepo.EXPECT().FindByEmail(ctx, input.Email).Return(existing, nil)
			mockUserRepo.EXPECT().
				Update(ctx, mock.AnythingOfType("*entity.User")).
				Run(func(ctx context.Context, user *entity.User) {
					require.NotNil(t, user.AdminProfile)
					assert.Equal(t, "Toko Maju", user.AdminProfile.StoreName)
					assert.Equal(t, existing.ID, user.AdminProfile.UserID)
				}).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.RegisterAdmin(ctx, input)

	require.NoError(t, err)
	// The same user ID now carries both roles.
	assert.Equal(t, existing.ID, output.User.ID)
	assert.True(t, output.User.UserRoles().Contains(entity.RoleAdmin))
}

func TestUserService_RegisterAdmin_AlreadyAdmin(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterAdminInput{
		Name:      "Shop Owner",
		Email:     "owner@example.com",
		Password:  "Password123!",
		StoreName: "Toko Maju",
	}
	existing := &entity.User{
		ID:           uuid.New(),
		Email:        input.Email,
		AdminProfile: &entity.AdminProfile{StoreName: "Toko Lama"},
	}

	fx.hasher.EXPECT().ValidatePasswordStrength(input.Password).Return(nil)
	fx.hasher.EXPECT().Hash(input.Password).Return("hashed_password", nil)

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)

			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)

			mockUserRepo.EXPECT().FindByEmail(ctx, input.Email).Return(existing, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.RegisterAdmin(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrAdminAlreadyExists))
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}
	user := &entity.User{ID: uuid.New(), Email: input.Email}
	auth := &entity.Authentication{
		UserID:       user.ID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed_password",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)
			mockRefreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshTokenRepo)

			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(auth, nil)
			fx.hasher.EXPECT().Check(input.Password, auth.PasswordHash).Return(true)
			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
			mockRefreshTokenRepo.EXPECT().CountActiveSessionsByUserID(ctx, user.ID).Return(1, nil)

			fx.tokenService.EXPECT().
				GenerateTokens(user.ID, []string{"user"}).
				Return("access_token", "refresh_token", nil)
			fx.tokenService.EXPECT().HashToken("refresh_token").Return("token_hash")
			fx.tokenService.EXPECT().GetRefreshTokenDuration().Return(7 * 24 * time.Hour)

			mockRefreshTokenRepo.EXPECT().
				CreateRefreshToken(ctx, mock.AnythingOfType("*entity.RefreshToken")).
				Run(func(ctx context.Context, token *entity.RefreshToken) {
					assert.Equal(t, user.ID, token.UserID)
					assert.Equal(t, "token_hash", token.TokenHash)
					assert.True(t, token.ExpiresAt.After(time.Now()))
				}).
				Return(nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Login(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "access_token", output.AccessToken)
	assert.Equal(t, "refresh_token", output.RefreshToken)
	assert.Equal(t, user.ID, output.User.ID)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{Email: "test@example.com", Password: "wrong"}
	auth := &entity.Authentication{
		UserID:       uuid.New(),
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed_password",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)
			mockRefreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshTokenRepo)

			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(auth, nil)
			fx.hasher.EXPECT().Check(input.Password, auth.PasswordHash).Return(false)

			return fn(mockFactory)
		})

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_SessionLimitExceeded(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.LoginInput{Email: "test@example.com", Password: "Password123!"}
	user := &entity.User{ID: uuid.New(), Email: input.Email}
	auth := &entity.Authentication{
		UserID:       user.ID,
		Provider:     entity.ProviderTypeEmail,
		PasswordHash: "hashed_password",
	}

	fx.txManager.EXPECT().
		Execute(ctx, mock.AnythingOfType("func(repository.RepositoryFactory) error")).
		RunAndReturn(func(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
			mockFactory := mockRepo.NewMockRepositoryFactory(t)
			mockUserRepo := mockRepo.NewMockUserRepository(t)
			mockAuthRepo := mockRepo.NewMockAuthRepository(t)
			mockRefreshTokenRepo := mockRepo.NewMockRefreshTokenRepository(t)

			mockFactory.EXPECT().AuthRepo().Return(mockAuthRepo)
			mockFactory.EXPECT().UserRepo().Return(mockUserRepo)
			mockFactory.EXPECT().RefreshTokenRepo().Return(mockRefreshTokenRepo)

			mockAuthRepo.EXPECT().
				FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email).
				Return(auth, nil)
			fx.hasher.EXPECT().Check(input.Password, auth.PasswordHash).Return(true)
			mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
			// The fixture caps sessions at 3.
			mockRefreshTokenRepo.EXPECT().CountActiveSessionsByUserID(ctx, user.ID).Return(3, nil)

			return fn(mockFactory)
		})

	output, err := fx.service.Login(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrSessionLimitExceeded))
}

func TestUserService_RefreshToken_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), AdminProfile: &entity.AdminProfile{StoreName: "Toko Maju"}}
	input := &usecase.RefreshTokenInput{RefreshToken: "refresh_token"}

	fx.tokenService.EXPECT().
		ValidateRefreshToken("refresh_token").
		Return(&service.Claims{UserID: user.ID, Type: "refresh"}, nil)

	fx.tokenService.EXPECT().HashToken("refresh_token").Return("token_hash")
	fx.refreshTokenRepo.EXPECT().
		FindRefreshTokenByHash(ctx, "token_hash").
		Return(&entity.RefreshToken{UserID: user.ID, TokenHash: "token_hash"}, nil)

	fx.userRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	// Roles are re-read, so the admin role granted after login shows up here.
	fx.tokenService.EXPECT().
		GenerateTokens(user.ID, []string{"user", "admin"}).
		Return("new_access_token", "unused_refresh", nil)

	output, err := fx.service.RefreshToken(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "new_access_token", output.AccessToken)
}

func TestUserService_RefreshToken_SessionGone(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.RefreshTokenInput{RefreshToken: "refresh_token"}

	fx.tokenService.EXPECT().
		ValidateRefreshToken("refresh_token").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	fx.tokenService.EXPECT().HashToken("refresh_token").Return("token_hash")
	fx.refreshTokenRepo.EXPECT().
		FindRefreshTokenByHash(ctx, "token_hash").
		Return(nil, repository.ErrRefreshTokenNotFound)

	output, err := fx.service.RefreshToken(ctx, input)

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Logout_UnknownTokenIsNoop(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.LogoutInput{RefreshToken: "refresh_token"}

	fx.tokenService.EXPECT().HashToken("refresh_token").Return("token_hash")
	fx.refreshTokenRepo.EXPECT().
		DeleteRefreshTokenByHash(ctx, "token_hash").
		Return(repository.ErrRefreshTokenNotFound)

	err := fx.service.Logout(ctx, input)

	assert.NoError(t, err)
}
