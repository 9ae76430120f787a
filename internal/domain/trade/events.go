package trade

import (
	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderReverted      = "OrderReverted"
)

// OrderPlacedEvent is raised when checkout creates an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID      uuid.UUID       `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	DeliveryType DeliveryType    `json:"delivery_type"`
	StoreID      int64           `json:"store_id,omitempty"`
	GrandTotal   decimal.Decimal `json:"grand_total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(order *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerID:      order.CustomerID,
		DeliveryType:    order.Delivery.Type,
		StoreID:         order.StoreID(),
		GrandTotal:      order.GrandTotal,
	}
}

// EventType returns the event type name
func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}

// OrderStatusChangedEvent is raised on every forward, cancel or undo transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID   `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	FromStatus  OrderStatus `json:"from_status"`
	ToStatus    OrderStatus `json:"to_status"`
	ActorID     uuid.UUID   `json:"actor_id"`
	ActorRole   string      `json:"actor_role"`
	Reason      string      `json:"reason,omitempty"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(order *Order, from OrderStatus, actor Actor, reason string) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		FromStatus:      from,
		ToStatus:        order.Status,
		ActorID:         actor.UserID,
		ActorRole:       actor.Role,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *OrderStatusChangedEvent) EventType() string {
	return EventTypeOrderStatusChanged
}

// OrderRevertedEvent is raised when an administrator reopens a completed order.
// Consumers that track payment or stock use it to compensate.
type OrderRevertedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	FromStatus  OrderStatus     `json:"from_status"`
	ToStatus    OrderStatus     `json:"to_status"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	PaymentRef  string          `json:"payment_reference,omitempty"`
	ActorID     uuid.UUID       `json:"actor_id"`
	Reason      string          `json:"reason,omitempty"`
}

// NewOrderRevertedEvent creates a new OrderRevertedEvent
func NewOrderRevertedEvent(order *Order, from OrderStatus, actor Actor, reason string) *OrderRevertedEvent {
	return &OrderRevertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderReverted, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		FromStatus:      from,
		ToStatus:        order.Status,
		GrandTotal:      order.GrandTotal,
		PaymentRef:      order.Payment.Reference,
		ActorID:         actor.UserID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *OrderRevertedEvent) EventType() string {
	return EventTypeOrderReverted
}
