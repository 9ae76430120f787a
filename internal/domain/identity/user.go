package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/lastikpazari/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the portal a user signs in to
type Role string

const (
	RoleCustomer Role = "customer"
	RoleDealer   Role = "dealer"
	RoleAdmin    Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleCustomer, RoleDealer, RoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

const bcryptCost = bcrypt.DefaultCost

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetterRegex = regexp.MustCompile(`\pL`)
	hasNumberRegex = regexp.MustCompile(`[0-9]`)
)

// User is a customer, dealer ("bayi") or administrator ("yönetici") account
type User struct {
	shared.BaseAggregateRoot
	Email          string
	PasswordHash   string
	FullName       string
	Phone          string
	Role           Role
	StoreID        *int64 // dealers only
	Status         UserStatus
	FailedAttempts int
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
}

// NewUser creates an active user. Dealers must be bound to a store.
func NewUser(email, password, fullName string, role Role, storeID *int64) (*User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if strings.TrimSpace(fullName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}
	if role == RoleDealer && (storeID == nil || *storeID <= 0) {
		return nil, shared.NewDomainError("INVALID_STORE", "Dealer accounts must be bound to a store")
	}
	if role != RoleDealer {
		storeID = nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             strings.ToLower(strings.TrimSpace(email)),
		PasswordHash:      hash,
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		StoreID:           storeID,
		Status:            UserStatusActive,
	}, nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword replaces the password
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.UpdatedAt = now
}

// RecordLoginFailure records a failed login attempt.
// Returns true if the account got locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()

	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		return true
	}
	return false
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
}

// IsLocked returns true while a lock is in force
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	return u.LockedUntil == nil || time.Now().Before(*u.LockedUntil)
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	if u.Status == UserStatusDeactivated {
		return false
	}
	return !u.IsLocked()
}

// StoreIDValue returns the dealer store, or 0
func (u *User) StoreIDValue() int64 {
	if u.StoreID == nil {
		return 0
	}
	return *u.StoreID
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetterRegex.MatchString(password) || !hasNumberRegex.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
