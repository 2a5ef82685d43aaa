package impl

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const defaultMaxActiveSessions = 5

// userService implements the UserUsecase interface.
type userService struct {
	txManager        repository.TransactionManager
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	passwordHasher   service.PasswordHasher
	tokenService     service.TokenService

	maxActiveSessions int
	logger            *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager        repository.TransactionManager
	UserRepo         repository.UserRepository
	RefreshTokenRepo repository.RefreshTokenRepository
	PasswordHasher   service.PasswordHasher
	TokenService     service.TokenService
	Config           *config.Config
	Logger           *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	maxSessions := defaultMaxActiveSessions
	if params.Config != nil && params.Config.Auth != nil && params.Config.Auth.MaxActiveSessions > 0 {
		maxSessions = params.Config.Auth.MaxActiveSessions
	}

	return &userService{
		txManager:         params.TxManager,
		userRepo:          params.UserRepo,
		refreshTokenRepo:  params.RefreshTokenRepo,
		passwordHasher:    params.PasswordHasher,
		tokenService:      params.TokenService,
		maxActiveSessions: maxSessions,
		logger:            params.Logger,
	}
}

func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// RegisterUser creates a shopper account with an email/password credential.
func (srv *userService) RegisterUser(ctx context.Context, input *usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	user, err := srv.register(ctx, input.Name, input.Email, input.Password, nil)
	if err != nil {
		return nil, err
	}

	return &usecase.RegisterOutput{User: user}, nil
}

// RegisterAdmin creates a seller/admin account. When the email already belongs
// to a shopper account, the admin profile is attached to it instead, so one
// person keeps a single user ID across both roles.
func (srv *userService) RegisterAdmin(ctx context.Context, input *usecase.RegisterAdminInput) (*usecase.RegisterOutput, error) {
	profile := &entity.AdminProfile{StoreName: input.StoreName}
	user, err := srv.register(ctx, input.Name, input.Email, input.Password, profile)
	if err != nil {
		return nil, err
	}

	return &usecase.RegisterOutput{User: user}, nil
}

func (srv *userService) register(ctx context.Context, name, email, password string, profile *entity.AdminProfile) (*entity.User, error) {
	if err := srv.passwordHasher.ValidatePasswordStrength(password); err != nil {
		return nil, domainerrors.ErrPasswordStrength.WrapMessage(err.Error())
	}

	hashed, err := srv.passwordHasher.Hash(password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	var registered *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		existing, err := userRepo.FindByEmail(ctx, email)
		switch {
		case err == nil:
			// The email is taken. For an admin registration we can still
			// attach the profile to the existing account, once.
			if profile == nil {
				return domainerrors.ErrUserAlreadyExists.WrapMessage("email is already registered")
			}
			if existing.AdminProfile != nil {
				return domainerrors.ErrAdminAlreadyExists.WrapMessage("account already holds the admin role")
			}

			existing.AdminProfile = &entity.AdminProfile{
				UserID:    existing.ID,
				StoreName: profile.StoreName,
			}
			if err := userRepo.Update(ctx, existing); err != nil {
				return errors.Wrap(err, "failed to attach admin profile")
			}

			registered = existing

			return nil
		case errors.Is(err, repository.ErrUserNotFound):
			// New account.
		default:
			return errors.Wrap(err, "failed to check for existing user")
		}

		user := &entity.User{
			ID:    uuid.New(),
			Email: email,
			Name:  name,
		}
		if profile != nil {
			user.AdminProfile = &entity.AdminProfile{
				UserID:    user.ID,
				StoreName: profile.StoreName,
			}
		}

		if err := userRepo.Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		auth := &entity.Authentication{
			ID:             uuid.New(),
			UserID:         user.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   hashed,
		}
		if err := authRepo.CreateAuthentication(ctx, auth); err != nil {
			return errors.Wrap(err, "failed to create authentication")
		}

		registered = user

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute registration")
	}

	srv.log(ctx).Info("User registered",
		slog.Any("userID", registered.ID),
		slog.Bool("admin", registered.AdminProfile != nil),
	)

	return registered, nil
}

// Login verifies an email/password credential and opens a new session.
// The raw refresh token is returned once; only its hash is stored.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	var output *usecase.LoginOutput
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.AuthRepo()
		userRepo := repoFactory.UserRepo()
		refreshTokenRepo := repoFactory.RefreshTokenRepo()

		auth, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, input.Email)
		if err != nil {
			if errors.Is(err, repository.ErrAuthNotFound) {
				return domainerrors.ErrInvalidCredentials.WrapMessage("invalid email or password")
			}

			return errors.Wrap(err, "failed to find authentication")
		}

		if !srv.passwordHasher.Check(input.Password, auth.PasswordHash) {
			return domainerrors.ErrInvalidCredentials.WrapMessage("invalid email or password")
		}

		user, err := userRepo.FindByID(ctx, auth.UserID)
		if err != nil {
			return errors.Wrap(err, "failed to load user")
		}

		active, err := refreshTokenRepo.CountActiveSessionsByUserID(ctx, user.ID)
		if err != nil {
			return errors.Wrap(err, "failed to count active sessions")
		}
		if active >= srv.maxActiveSessions {
			return domainerrors.ErrSessionLimitExceeded.WrapMessage("too many active sessions")
		}

		accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, user.UserRoles().ToStrings())
		if err != nil {
			return errors.Wrap(err, "failed to generate tokens")
		}

		session := &entity.RefreshToken{
			ID:        uuid.New(),
			UserID:    user.ID,
			TokenHash: srv.tokenService.HashToken(refreshToken),
			ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
		}
		if err := refreshTokenRepo.CreateRefreshToken(ctx, session); err != nil {
			return errors.Wrap(err, "failed to persist session")
		}

		output = &usecase.LoginOutput{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			User:         user,
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute login")
	}

	srv.log(ctx).Info("User logged in", slog.Any("userID", output.User.ID))

	return output, nil
}

// RefreshToken exchanges a valid refresh token for a fresh access token.
// The token must both verify cryptographically and still exist as a session.
func (srv *userService) RefreshToken(ctx context.Context, input *usecase.RefreshTokenInput) (*usecase.RefreshTokenOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("refresh token is invalid")
	}

	session, err := srv.refreshTokenRepo.FindRefreshTokenByHash(ctx, srv.tokenService.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) || errors.Is(err, repository.ErrRefreshTokenExpired) {
			return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("session no longer exists")
		}

		return nil, errors.Wrap(err, "failed to find session")
	}
	if session.UserID != claims.UserID {
		return nil, domainerrors.ErrRefreshTokenInvalid.WrapMessage("session does not match token")
	}

	// Re-read the user so a freshly granted or revoked admin role takes
	// effect on the next access token, not only on the next login.
	user, err := srv.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, domainerrors.ErrUserNotFound.WrapMessage("user no longer exists")
		}

		return nil, errors.Wrap(err, "failed to load user")
	}

	accessToken, _, err := srv.tokenService.GenerateTokens(user.ID, user.UserRoles().ToStrings())
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate access token")
	}

	return &usecase.RefreshTokenOutput{AccessToken: accessToken}, nil
}

// Logout ends the session identified by the presented refresh token.
// Logging out an unknown token is a no-op.
func (srv *userService) Logout(ctx context.Context, input *usecase.LogoutInput) error {
	hash := srv.tokenService.HashToken(input.RefreshToken)
	if err := srv.refreshTokenRepo.DeleteRefreshTokenByHash(ctx, hash); err != nil {
		if errors.Is(err, repository.ErrRefreshTokenNotFound) {
			return nil
		}

		return errors.Wrap(err, "failed to delete session")
	}

	return nil
}
