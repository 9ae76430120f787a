package trade

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/shared"
)

// DeliveryType selects how the customer receives the tires
type DeliveryType string

const (
	// DeliveryTypeAddress ships the order to a customer address
	DeliveryTypeAddress DeliveryType = "adres"
	// DeliveryTypeStore is picked up at a dealer store, optionally with montaj
	DeliveryTypeStore DeliveryType = "magaza"
)

// IsValid checks if the delivery type is known
func (d DeliveryType) IsValid() bool {
	return d == DeliveryTypeAddress || d == DeliveryTypeStore
}

// Label returns the Turkish display label
func (d DeliveryType) Label() string {
	switch d {
	case DeliveryTypeAddress:
		return "Adrese Teslimat"
	case DeliveryTypeStore:
		return "Mağazadan Teslim"
	}
	return string(d)
}

// Installation holds the in-store mounting ("montaj") appointment
type Installation struct {
	Date     time.Time
	TimeSlot string
	Note     string
	DealerID *int64
}

// HasDealer reports whether an installation dealer is assigned
func (i *Installation) HasDealer() bool {
	return i != nil && i.DealerID != nil
}

// Delivery captures where and how an order is handed over.
// Address delivery carries an address; store pickup carries a store and
// optionally an installation appointment.
type Delivery struct {
	Type              DeliveryType
	DeliveryAddressID *uuid.UUID
	BillingAddressID  *uuid.UUID
	StoreID           *int64
	Installation      *Installation
}

// Validate enforces the delivery invariant
func (d *Delivery) Validate() error {
	switch d.Type {
	case DeliveryTypeAddress:
		if d.DeliveryAddressID == nil || *d.DeliveryAddressID == uuid.Nil {
			return shared.NewDomainError("INVALID_DELIVERY", "Delivery address is required for address delivery")
		}
		if d.StoreID != nil || d.Installation != nil {
			return shared.NewDomainError("INVALID_DELIVERY", "Address delivery cannot carry store or installation details")
		}
	case DeliveryTypeStore:
		if d.StoreID == nil || *d.StoreID <= 0 {
			return shared.NewDomainError("INVALID_DELIVERY", "Store is required for store pickup")
		}
		if d.DeliveryAddressID != nil {
			return shared.NewDomainError("INVALID_DELIVERY", "Store pickup cannot carry a delivery address")
		}
		if d.Installation == nil {
			return nil
		}
		if d.Installation.Date.IsZero() {
			return shared.NewDomainError("INVALID_DELIVERY", "Installation date is required")
		}
		if strings.TrimSpace(d.Installation.TimeSlot) == "" {
			return shared.NewDomainError("INVALID_DELIVERY", "Installation time is required")
		}
	default:
		return shared.NewDomainError("INVALID_DELIVERY", "Unknown delivery type")
	}
	return nil
}

// normalize assigns the pickup store as installation dealer when none was chosen
func (d *Delivery) normalize() {
	if d.Type == DeliveryTypeStore && d.Installation != nil && d.Installation.DealerID == nil && d.StoreID != nil {
		storeID := *d.StoreID
		d.Installation.DealerID = &storeID
	}
}
