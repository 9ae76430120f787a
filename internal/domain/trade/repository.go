package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/shared"
)

// OrderScope restricts which orders a query may see.
// The zero value sees every order (administrator view).
type OrderScope struct {
	CustomerID *uuid.UUID
	StoreID    *int64
}

// CustomerScope returns the scope of a customer's own orders
func CustomerScope(customerID uuid.UUID) OrderScope {
	return OrderScope{CustomerID: &customerID}
}

// StoreScope returns the scope of a dealer store
func StoreScope(storeID int64) OrderScope {
	return OrderScope{StoreID: &storeID}
}

// Allows reports whether an order is visible within the scope
func (s OrderScope) Allows(o *Order) bool {
	if s.CustomerID != nil && o.CustomerID != *s.CustomerID {
		return false
	}
	if s.StoreID != nil && o.StoreID() != *s.StoreID {
		return false
	}
	return true
}

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by ID with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDs finds the orders with the given IDs, in no particular order
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Order, error)

	// FindByOrderNumber finds an order by its order number
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindAll finds the orders visible in scope, with filtering and pagination
	FindAll(ctx context.Context, scope OrderScope, filter shared.Filter) ([]Order, error)

	// Count counts the orders visible in scope matching the filter
	Count(ctx context.Context, scope OrderScope, filter shared.Filter) (int64, error)

	// Create writes the order, its items and its initial status log in one transaction
	Create(ctx context.Context, order *Order) error

	// SaveStatus writes the status fields and pending status logs.
	// Returns ErrConcurrencyConflict if the order was modified since it was loaded.
	SaveStatus(ctx context.Context, order *Order) error

	// ExistsByOrderNumber checks if an order number is taken
	ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error)

	// FindStatusLogs returns the status history of an order, oldest first
	FindStatusLogs(ctx context.Context, orderID uuid.UUID) ([]StatusLog, error)
}
