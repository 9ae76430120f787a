package trade

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusReceived       OrderStatus = "received"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusInTransit      OrderStatus = "in_transit"
	OrderStatusReadyForPickup OrderStatus = "ready_for_pickup"
	OrderStatusCompleted      OrderStatus = "completed"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// AllOrderStatuses lists every status in canonical forward order, cancelled last.
var AllOrderStatuses = []OrderStatus{
	OrderStatusReceived,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusInTransit,
	OrderStatusReadyForPickup,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// RevertTargets are the statuses an administrator may send a completed order back to.
var RevertTargets = []OrderStatus{
	OrderStatusReceived,
	OrderStatusConfirmed,
	OrderStatusPreparing,
}

var statusLabels = map[OrderStatus]string{
	OrderStatusReceived:       "Sipariş Alındı",
	OrderStatusConfirmed:      "Onaylandı",
	OrderStatusPreparing:      "Hazırlanıyor",
	OrderStatusInTransit:      "Kargoda",
	OrderStatusReadyForPickup: "Teslim Almaya Hazır",
	OrderStatusCompleted:      "Tamamlandı",
	OrderStatusCancelled:      "İptal Edildi",
}

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	_, ok := statusLabels[s]
	return ok
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// Label returns the Turkish display label shown in every portal
func (s OrderStatus) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return string(s)
}

// IsClosed reports whether the status ends the forward flow.
// Closed orders cannot be cancelled.
func (s OrderStatus) IsClosed() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Ordinal returns the position of the status on the five-step forward path.
// in_transit and ready_for_pickup share a position. Cancelled returns -1.
func (s OrderStatus) Ordinal() int {
	switch s {
	case OrderStatusReceived:
		return 0
	case OrderStatusConfirmed:
		return 1
	case OrderStatusPreparing:
		return 2
	case OrderStatusInTransit, OrderStatusReadyForPickup:
		return 3
	case OrderStatusCompleted:
		return 4
	}
	return -1
}

// NextStatuses returns the statuses an operator may move an order to.
// hasInstallationDealer selects between ready_for_pickup and in_transit.
// Completed orders return nothing here; reverting them is a separate operation.
func (s OrderStatus) NextStatuses(hasInstallationDealer bool) []OrderStatus {
	switch s {
	case OrderStatusReceived:
		return []OrderStatus{OrderStatusConfirmed, OrderStatusCancelled}
	case OrderStatusConfirmed:
		if hasInstallationDealer {
			return []OrderStatus{OrderStatusPreparing, OrderStatusCancelled}
		}
		return []OrderStatus{OrderStatusPreparing, OrderStatusInTransit, OrderStatusCancelled}
	case OrderStatusPreparing:
		if hasInstallationDealer {
			return []OrderStatus{OrderStatusReadyForPickup, OrderStatusCancelled}
		}
		return []OrderStatus{OrderStatusInTransit, OrderStatusCancelled}
	case OrderStatusInTransit, OrderStatusReadyForPickup:
		return []OrderStatus{OrderStatusCompleted, OrderStatusCancelled}
	case OrderStatusCancelled:
		return []OrderStatus{OrderStatusReceived}
	}
	return nil
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus, hasInstallationDealer bool) bool {
	for _, next := range s.NextStatuses(hasInstallationDealer) {
		if next == target {
			return true
		}
	}
	return false
}

// IsRevertTarget reports whether a completed order may be reverted to s
func (s OrderStatus) IsRevertTarget() bool {
	for _, t := range RevertTargets {
		if t == s {
			return true
		}
	}
	return false
}
