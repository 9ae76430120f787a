package identity

import (
	"errors"
	"testing"
	"time"

	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codeOf(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func TestNewUser(t *testing.T) {
	t.Run("creates customer", func(t *testing.T) {
		u, err := NewUser("  Ayse@Example.com ", "lastik2026", "Ayşe Yılmaz", RoleCustomer, nil)
		require.NoError(t, err)
		assert.Equal(t, "ayse@example.com", u.Email)
		assert.Equal(t, RoleCustomer, u.Role)
		assert.Equal(t, UserStatusActive, u.Status)
		assert.Nil(t, u.StoreID)
		assert.True(t, u.VerifyPassword("lastik2026"))
		assert.False(t, u.VerifyPassword("wrong"))
	})

	t.Run("dealer requires store", func(t *testing.T) {
		_, err := NewUser("bayi@example.com", "lastik2026", "Bayi", RoleDealer, nil)
		assert.Equal(t, "INVALID_STORE", codeOf(err))

		storeID := int64(7)
		u, err := NewUser("bayi@example.com", "lastik2026", "Bayi", RoleDealer, &storeID)
		require.NoError(t, err)
		assert.Equal(t, int64(7), u.StoreIDValue())
	})

	t.Run("store id dropped for non-dealers", func(t *testing.T) {
		storeID := int64(7)
		u, err := NewUser("admin@example.com", "lastik2026", "Yönetici", RoleAdmin, &storeID)
		require.NoError(t, err)
		assert.Nil(t, u.StoreID)
	})

	tests := []struct {
		name     string
		email    string
		password string
		fullName string
		role     Role
		code     string
	}{
		{"bad email", "not-an-email", "lastik2026", "A", RoleCustomer, "INVALID_EMAIL"},
		{"short password", "a@example.com", "abc1", "A", RoleCustomer, "INVALID_PASSWORD"},
		{"password without digit", "a@example.com", "lastiklastik", "A", RoleCustomer, "INVALID_PASSWORD"},
		{"empty name", "a@example.com", "lastik2026", " ", RoleCustomer, "INVALID_NAME"},
		{"unknown role", "a@example.com", "lastik2026", "A", Role("guest"), "INVALID_ROLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(tt.email, tt.password, tt.fullName, tt.role, nil)
			assert.Equal(t, tt.code, codeOf(err))
		})
	}
}

func TestUser_LoginFailuresLockAccount(t *testing.T) {
	u, err := NewUser("a@example.com", "lastik2026", "A", RoleCustomer, nil)
	require.NoError(t, err)

	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.False(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.RecordLoginFailure(3, time.Minute))
	assert.True(t, u.IsLocked())
	assert.False(t, u.CanLogin())

	u.RecordLoginSuccess()
	assert.Equal(t, 0, u.FailedAttempts)
	assert.True(t, u.CanLogin())
	assert.NotNil(t, u.LastLoginAt)
}

func TestUser_ExpiredLock(t *testing.T) {
	u, err := NewUser("a@example.com", "lastik2026", "A", RoleCustomer, nil)
	require.NoError(t, err)

	u.RecordLoginFailure(1, -time.Second)
	assert.False(t, u.IsLocked())
	assert.True(t, u.CanLogin())
}

func TestUser_Deactivate(t *testing.T) {
	u, err := NewUser("a@example.com", "lastik2026", "A", RoleCustomer, nil)
	require.NoError(t, err)
	u.Deactivate()
	assert.False(t, u.CanLogin())
}

func TestUser_SetPassword(t *testing.T) {
	u, err := NewUser("a@example.com", "lastik2026", "A", RoleCustomer, nil)
	require.NoError(t, err)

	require.NoError(t, u.SetPassword("yenisifre99"))
	assert.True(t, u.VerifyPassword("yenisifre99"))
	assert.Equal(t, 2, u.GetVersion())
	assert.Equal(t, "INVALID_PASSWORD", codeOf(u.SetPassword("short")))
}
