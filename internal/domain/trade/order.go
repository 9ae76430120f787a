package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderItem is one tire line within an order
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	StockCode   string
	ProductName string
	TireSize    string
	Quantity    int
	UnitPrice   decimal.Decimal
	Amount      decimal.Decimal
	CreatedAt   time.Time
}

// NewOrderItem creates a new order line
func NewOrderItem(orderID uuid.UUID, stockCode, productName, tireSize string, quantity int, unitPrice decimal.Decimal) (*OrderItem, error) {
	if strings.TrimSpace(stockCode) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Stock code is required")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if !unitPrice.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be positive")
	}
	if !unitPrice.Equal(unitPrice.Round(2)) {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot have more than two decimals")
	}

	return &OrderItem{
		ID:          uuid.New(),
		OrderID:     orderID,
		StockCode:   stockCode,
		ProductName: productName,
		TireSize:    tireSize,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      valueobject.NewMoneyTRY(unitPrice).Times(quantity).Amount(),
		CreatedAt:   time.Now(),
	}, nil
}

// Actor identifies who performed a status change
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// Order is the aggregate root for one checkout transaction
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber  string
	CustomerID   uuid.UUID
	Delivery     Delivery
	Payment      PaymentInfo
	Items        []OrderItem
	Subtotal     decimal.Decimal
	ShippingFee  decimal.Decimal
	GrandTotal   decimal.Decimal
	Status       OrderStatus
	CancelReason string
	ConfirmedAt  *time.Time
	CompletedAt  *time.Time
	CancelledAt  *time.Time

	pendingLogs []StatusLog
}

// LineInput describes an item to add at checkout
type LineInput struct {
	StockCode   string
	ProductName string
	TireSize    string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// NewOrder creates a received order with its items.
// Store pickup orders carry no shipping fee.
func NewOrder(orderNumber string, customerID uuid.UUID, delivery Delivery, payment PaymentInfo, shippingFee decimal.Decimal, lines []LineInput) (*Order, error) {
	if strings.TrimSpace(orderNumber) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	if shippingFee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SHIPPING_FEE", "Shipping fee cannot be negative")
	}
	if payment.Method != "" && !payment.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT", "Unknown payment method")
	}
	delivery.normalize()
	if err := delivery.Validate(); err != nil {
		return nil, err
	}
	if delivery.Type == DeliveryTypeStore {
		shippingFee = decimal.Zero
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		Delivery:          delivery,
		Payment:           payment,
		ShippingFee:       shippingFee,
		Status:            OrderStatusReceived,
		Items:             make([]OrderItem, 0, len(lines)),
	}

	for _, line := range lines {
		item, err := NewOrderItem(order.ID, line.StockCode, line.ProductName, line.TireSize, line.Quantity, line.UnitPrice)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, *item)
	}
	order.recalculateTotals()
	if order.Payment.Amount.IsZero() {
		order.Payment.Amount = order.GrandTotal
	}
	if order.Payment.Status == "" {
		order.Payment.Status = PaymentStatusPending
	}

	order.pendingLogs = append(order.pendingLogs, newStatusLog(order.ID, "", OrderStatusReceived, Actor{UserID: customerID, Role: "customer"}, ""))
	order.AddDomainEvent(NewOrderPlacedEvent(order))

	return order, nil
}

func (o *Order) recalculateTotals() {
	subtotal := valueobject.ZeroTRY()
	for _, item := range o.Items {
		subtotal = subtotal.Add(valueobject.NewMoneyTRY(item.Amount))
	}
	o.Subtotal = subtotal.Amount()
	o.GrandTotal = subtotal.Add(o.ShippingFeeMoney()).Amount()
}

// HasInstallationDealer reports whether an installation dealer is assigned
func (o *Order) HasInstallationDealer() bool {
	return o.Delivery.Installation.HasDealer()
}

// StoreID returns the fulfilling store, or 0 for address deliveries
func (o *Order) StoreID() int64 {
	if o.Delivery.StoreID == nil {
		return 0
	}
	return *o.Delivery.StoreID
}

// AvailableTransitions returns the statuses an operator may move the order to
func (o *Order) AvailableTransitions() []OrderStatus {
	return o.Status.NextStatuses(o.HasInstallationDealer())
}

// DispatchStatus returns the hand-over status for this order:
// ready_for_pickup with an installation dealer, in_transit otherwise
func (o *Order) DispatchStatus() OrderStatus {
	if o.HasInstallationDealer() {
		return OrderStatusReadyForPickup
	}
	return OrderStatusInTransit
}

// TransitionTo moves the order to target if the transition table allows it
func (o *Order) TransitionTo(target OrderStatus, actor Actor, reason string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status: %s", target))
	}
	if !o.Status.CanTransitionTo(target, o.HasInstallationDealer()) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot move order from %s to %s", o.Status, target))
	}

	from := o.Status
	now := time.Now()
	o.Status = target
	o.UpdatedAt = now

	switch target {
	case OrderStatusConfirmed:
		o.ConfirmedAt = &now
	case OrderStatusCompleted:
		o.CompletedAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = reason
	case OrderStatusReceived:
		// undo of a cancellation
		o.CancelledAt = nil
		o.CancelReason = ""
		o.ConfirmedAt = nil
	}

	o.pendingLogs = append(o.pendingLogs, newStatusLog(o.ID, from, target, actor, reason))
	o.AddDomainEvent(NewOrderStatusChangedEvent(o, from, actor, reason))
	return nil
}

// Revert sends a completed order back to an earlier step.
// Payment and stock effects are not reversed here; OrderReverted carries
// the information a compensating consumer needs.
func (o *Order) Revert(target OrderStatus, actor Actor, reason string) error {
	if o.Status != OrderStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Only completed orders can be reverted, current status is %s", o.Status))
	}
	if !target.IsRevertTarget() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Cannot revert a completed order to %s", target))
	}

	from := o.Status
	o.Status = target
	o.UpdatedAt = time.Now()
	o.CompletedAt = nil
	if target == OrderStatusReceived {
		o.ConfirmedAt = nil
	}

	o.pendingLogs = append(o.pendingLogs, newStatusLog(o.ID, from, target, actor, reason))
	o.AddDomainEvent(NewOrderRevertedEvent(o, from, actor, reason))
	return nil
}

// Confirm moves a received order to confirmed
func (o *Order) Confirm(actor Actor) error {
	return o.TransitionTo(OrderStatusConfirmed, actor, "")
}

// StartPreparing moves a confirmed order to preparing
func (o *Order) StartPreparing(actor Actor) error {
	return o.TransitionTo(OrderStatusPreparing, actor, "")
}

// Dispatch hands the order over for shipping or pickup
func (o *Order) Dispatch(actor Actor) error {
	return o.TransitionTo(o.DispatchStatus(), actor, "")
}

// Complete marks a dispatched order as delivered
func (o *Order) Complete(actor Actor) error {
	return o.TransitionTo(OrderStatusCompleted, actor, "")
}

// Cancel cancels an order that is still in progress
func (o *Order) Cancel(actor Actor, reason string) error {
	return o.TransitionTo(OrderStatusCancelled, actor, reason)
}

// Reopen undoes a cancellation
func (o *Order) Reopen(actor Actor) error {
	return o.TransitionTo(OrderStatusReceived, actor, "")
}

// Renumber replaces the order number of an unsaved order, keeping the
// pending OrderPlaced event in step
func (o *Order) Renumber(orderNumber string) error {
	if strings.TrimSpace(orderNumber) == "" {
		return shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	o.OrderNumber = orderNumber
	for _, e := range o.GetDomainEvents() {
		if placed, ok := e.(*OrderPlacedEvent); ok {
			placed.OrderNumber = orderNumber
		}
	}
	return nil
}

// PendingStatusLogs returns status changes not yet persisted
func (o *Order) PendingStatusLogs() []StatusLog {
	return o.pendingLogs
}

// ClearPendingStatusLogs is called by the repository after persisting
func (o *Order) ClearPendingStatusLogs() {
	o.pendingLogs = nil
}

// ItemCount returns the total number of tires ordered
func (o *Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// GrandTotalMoney returns the grand total as money
func (o *Order) GrandTotalMoney() valueobject.Money {
	return valueobject.NewMoneyTRY(o.GrandTotal)
}

// SubtotalMoney returns the subtotal as money
func (o *Order) SubtotalMoney() valueobject.Money {
	return valueobject.NewMoneyTRY(o.Subtotal)
}

// ShippingFeeMoney returns the shipping fee as money
func (o *Order) ShippingFeeMoney() valueobject.Money {
	return valueobject.NewMoneyTRY(o.ShippingFee)
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}
