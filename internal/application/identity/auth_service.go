package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/infrastructure/auth"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before the account locks
	LockDuration     time.Duration // how long a lock lasts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles login, customer registration and token refresh
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	config     AuthServiceConfig
}

// NewAuthService creates a new authentication service
func NewAuthService(userRepo identity.UserRepository, jwtService *auth.JWTService, config AuthServiceConfig) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		config:     config,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// Login authenticates a user by email and password and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	log := logger.FromContext(ctx)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Login for unknown email", zap.String("ip", input.IP))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			log.Warn("Login attempt for locked account", zap.String("user_id", user.ID.String()))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		log.Warn("Login attempt for deactivated account", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			log.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			log.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID.String()),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		log.Warn("Invalid password attempt",
			zap.String("user_id", user.ID.String()),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, errInvalidCredentials
	}

	result, err := s.issue(user)
	if err != nil {
		log.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Update(ctx, user); err != nil {
		// the tokens are valid; a stale last-login is not worth failing the login
		log.Error("Failed to update user after successful login", zap.Error(err))
	}

	log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("ip", input.IP))
	return result, nil
}

// Register creates a customer account and signs it in.
// Dealer and administrator accounts are provisioned out of band.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(input.Email, input.Password, input.FullName, identity.RoleCustomer, nil)
	if err != nil {
		return nil, err
	}
	user.Phone = strings.TrimSpace(input.Phone)

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_EXISTS", "An account with this email already exists")
		}
		return nil, err
	}

	logger.FromContext(ctx).Info("Customer registered", zap.String("user_id", user.ID.String()))
	return s.issue(user)
}

// Refresh exchanges a refresh token for a new pair.
// The user is reloaded so role, store and lock changes apply immediately.
func (s *AuthService) Refresh(ctx context.Context, input RefreshTokenInput) (*AuthResult, error) {
	log := logger.FromContext(ctx)

	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		log.Warn("Refresh token validation failed", zap.Error(err))
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		}
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
		return nil, err
	}
	if !user.CanLogin() {
		log.Warn("Token refresh for inactive user", zap.String("user_id", user.ID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	return s.issue(user)
}

// Me returns the account behind the session
func (s *AuthService) Me(ctx context.Context, session identity.Session) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	info := ToUserInfo(user)
	return &info, nil
}

func (s *AuthService) issue(user *identity.User) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserInfo(user),
	}, nil
}
