package identity

import (
	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/shared"
)

// Session is the authenticated caller of a request
type Session struct {
	UserID  uuid.UUID
	Role    Role
	StoreID *int64
}

// NewSession validates the claims of an authenticated caller
func NewSession(userID uuid.UUID, role Role, storeID *int64) (Session, error) {
	if userID == uuid.Nil {
		return Session{}, shared.ErrUnauthorized
	}
	if !role.IsValid() {
		return Session{}, shared.ErrUnauthorized
	}
	if role == RoleDealer && (storeID == nil || *storeID <= 0) {
		return Session{}, shared.NewDomainError("FORBIDDEN", "Dealer account is not bound to a store")
	}
	return Session{UserID: userID, Role: role, StoreID: storeID}, nil
}

// SessionFor builds the session of a loaded user
func SessionFor(u *User) Session {
	return Session{UserID: u.ID, Role: u.Role, StoreID: u.StoreID}
}

func (s Session) IsCustomer() bool { return s.Role == RoleCustomer }
func (s Session) IsDealer() bool   { return s.Role == RoleDealer }
func (s Session) IsAdmin() bool    { return s.Role == RoleAdmin }

// StoreIDValue returns the dealer store, or 0
func (s Session) StoreIDValue() int64 {
	if s.StoreID == nil {
		return 0
	}
	return *s.StoreID
}
