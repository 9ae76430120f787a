package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/identity"
)

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
	IP       string // for the audit log only
}

// RegisterInput contains the input for customer self-registration
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Phone    string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// AuthResult is returned by login, register and refresh
type AuthResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo is the public view of an account
type UserInfo struct {
	ID       uuid.UUID
	Email    string
	FullName string
	Phone    string
	Role     identity.Role
	StoreID  *int64
}

// ToUserInfo converts a domain user
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Email:    u.Email,
		FullName: u.FullName,
		Phone:    u.Phone,
		Role:     u.Role,
		StoreID:  u.StoreID,
	}
}
