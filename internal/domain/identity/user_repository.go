package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists accounts. Lookups return shared.ErrNotFound on a miss.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	// Update persists password and login-state changes
	Update(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindByEmail ignores case
	FindByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
