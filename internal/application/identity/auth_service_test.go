package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/infrastructure/auth"
	"github.com/lastikpazari/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

const testPassword = "lastik2026"

func newJWT() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-access-secret-at-least-32-characters",
		RefreshSecret:          "test-refresh-secret-at-least-32-characters",
		Issuer:                 "lastikpazari-test",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
	})
}

func setupAuthService(t *testing.T) (*AuthService, *MockUserRepository, *auth.JWTService) {
	t.Helper()
	repo := new(MockUserRepository)
	jwtSvc := newJWT()
	svc := NewAuthService(repo, jwtSvc, AuthServiceConfig{MaxLoginAttempts: 3, LockDuration: time.Minute})
	return svc, repo, jwtSvc
}

func newCustomer(t *testing.T) *identity.User {
	t.Helper()
	u, err := identity.NewUser("musteri@example.com", testPassword, "Ayşe Yılmaz", identity.RoleCustomer, nil)
	require.NoError(t, err)
	return u
}

func errorCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	return de.Code
}

func TestAuthService_Login_Success(t *testing.T) {
	svc, repo, jwtSvc := setupAuthService(t)
	user := newCustomer(t)
	repo.On("FindByEmail", mock.Anything, "musteri@example.com").Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	result, err := svc.Login(context.Background(), LoginInput{Email: " Musteri@Example.com ", Password: testPassword})

	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.Equal(t, identity.RoleCustomer, result.User.Role)
	assert.NotNil(t, user.LastLoginAt)

	claims, err := jwtSvc.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "customer", claims.Role)
	repo.AssertExpectations(t)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	repo.On("FindByEmail", mock.Anything, "yok@example.com").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(context.Background(), LoginInput{Email: "yok@example.com", Password: testPassword})

	assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, err))
}

func TestAuthService_Login_LocksAfterMaxAttempts(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	user := newCustomer(t)
	repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)
	repo.On("Update", mock.Anything, user).Return(nil)

	for i := 0; i < 2; i++ {
		_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "wrong-pass1"})
		assert.Equal(t, "INVALID_CREDENTIALS", errorCode(t, err))
	}
	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: "wrong-pass1"})
	assert.Equal(t, "ACCOUNT_LOCKED", errorCode(t, err))

	// the right password does not help while the lock holds
	_, err = svc.Login(context.Background(), LoginInput{Email: user.Email, Password: testPassword})
	assert.Equal(t, "ACCOUNT_LOCKED", errorCode(t, err))
	assert.Equal(t, identity.UserStatusLocked, user.Status)
}

func TestAuthService_Login_Deactivated(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	user := newCustomer(t)
	user.Deactivate()
	repo.On("FindByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := svc.Login(context.Background(), LoginInput{Email: user.Email, Password: testPassword})

	assert.Equal(t, "ACCOUNT_DEACTIVATED", errorCode(t, err))
}

func TestAuthService_Register(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	repo.On("ExistsByEmail", mock.Anything, "yeni@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *identity.User) bool {
		return u.Email == "yeni@example.com" && u.Role == identity.RoleCustomer && u.Phone == "05551234567"
	})).Return(nil)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:    "yeni@example.com",
		Password: testPassword,
		FullName: "Mehmet Demir",
		Phone:    " 05551234567 ",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AccessToken)
	assert.Nil(t, result.User.StoreID)
	repo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	repo.On("ExistsByEmail", mock.Anything, "var@example.com").Return(true, nil)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "var@example.com", Password: testPassword, FullName: "X"})

	assert.Equal(t, "EMAIL_EXISTS", errorCode(t, err))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_Register_WeakPassword(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	repo.On("ExistsByEmail", mock.Anything, "zayif@example.com").Return(false, nil)

	_, err := svc.Register(context.Background(), RegisterInput{Email: "zayif@example.com", Password: "short", FullName: "X"})

	assert.Equal(t, "INVALID_PASSWORD", errorCode(t, err))
}

func TestAuthService_Refresh_ReloadsUser(t *testing.T) {
	svc, repo, jwtSvc := setupAuthService(t)
	store := int64(7)
	dealer, err := identity.NewUser("bayi@example.com", testPassword, "Bayi", identity.RoleDealer, &store)
	require.NoError(t, err)
	pair, err := jwtSvc.GenerateTokenPair(dealer)
	require.NoError(t, err)

	moved := int64(9)
	dealer.StoreID = &moved
	repo.On("FindByID", mock.Anything, dealer.ID).Return(dealer, nil)

	result, err := svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)

	claims, err := jwtSvc.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, claims.StoreID)
	assert.Equal(t, int64(9), *claims.StoreID)
}

func TestAuthService_Refresh_RejectsAccessToken(t *testing.T) {
	svc, _, jwtSvc := setupAuthService(t)
	pair, err := jwtSvc.GenerateTokenPair(newCustomer(t))
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: pair.AccessToken})

	assert.Equal(t, "TOKEN_INVALID", errorCode(t, err))
}

func TestAuthService_Refresh_DeactivatedUser(t *testing.T) {
	svc, repo, jwtSvc := setupAuthService(t)
	user := newCustomer(t)
	pair, err := jwtSvc.GenerateTokenPair(user)
	require.NoError(t, err)
	user.Deactivate()
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	_, err = svc.Refresh(context.Background(), RefreshTokenInput{RefreshToken: pair.RefreshToken})

	assert.Equal(t, "ACCOUNT_INACTIVE", errorCode(t, err))
}

func TestAuthService_Me(t *testing.T) {
	svc, repo, _ := setupAuthService(t)
	user := newCustomer(t)
	repo.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	info, err := svc.Me(context.Background(), identity.SessionFor(user))

	require.NoError(t, err)
	assert.Equal(t, "Ayşe Yılmaz", info.FullName)
}
