package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate.
// Installation columns are NULL for address deliveries.
type OrderModel struct {
	AggregateModel
	OrderNumber          string             `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID           uuid.UUID          `gorm:"type:uuid;not null;index"`
	DeliveryType         trade.DeliveryType `gorm:"type:varchar(10);not null"`
	DeliveryAddressID    *uuid.UUID         `gorm:"type:uuid"`
	BillingAddressID     *uuid.UUID         `gorm:"type:uuid"`
	StoreID              *int64             `gorm:"index"`
	InstallationDate     *time.Time
	InstallationTimeSlot string            `gorm:"type:varchar(50)"`
	InstallationNote     string            `gorm:"type:text"`
	InstallationDealerID *int64            `gorm:"index"`
	Payment              trade.PaymentInfo `gorm:"type:jsonb;serializer:json;not null"`
	Subtotal             decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	ShippingFee          decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	GrandTotal           decimal.Decimal   `gorm:"type:decimal(12,2);not null;default:0"`
	Status               trade.OrderStatus `gorm:"type:varchar(20);not null;index"`
	CancelReason         string            `gorm:"type:varchar(500)"`
	ConfirmedAt          *time.Time
	CompletedAt          *time.Time
	CancelledAt          *time.Time
	Items                []OrderItemModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		CustomerID:        m.CustomerID,
		Delivery: trade.Delivery{
			Type:              m.DeliveryType,
			DeliveryAddressID: m.DeliveryAddressID,
			BillingAddressID:  m.BillingAddressID,
			StoreID:           m.StoreID,
		},
		Payment:      m.Payment,
		Subtotal:     m.Subtotal,
		ShippingFee:  m.ShippingFee,
		GrandTotal:   m.GrandTotal,
		Status:       m.Status,
		CancelReason: m.CancelReason,
		ConfirmedAt:  m.ConfirmedAt,
		CompletedAt:  m.CompletedAt,
		CancelledAt:  m.CancelledAt,
		Items:        make([]trade.OrderItem, len(m.Items)),
	}
	if m.InstallationDate != nil || m.InstallationDealerID != nil {
		inst := &trade.Installation{
			TimeSlot: m.InstallationTimeSlot,
			Note:     m.InstallationNote,
			DealerID: m.InstallationDealerID,
		}
		if m.InstallationDate != nil {
			inst.Date = *m.InstallationDate
		}
		order.Delivery.Installation = inst
	}
	for i := range m.Items {
		order.Items[i] = m.Items[i].ToDomain()
	}
	return order
}

// OrderModelFromDomain creates a persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		DeliveryType:      o.Delivery.Type,
		DeliveryAddressID: o.Delivery.DeliveryAddressID,
		BillingAddressID:  o.Delivery.BillingAddressID,
		StoreID:           o.Delivery.StoreID,
		Payment:           o.Payment,
		Subtotal:          o.Subtotal,
		ShippingFee:       o.ShippingFee,
		GrandTotal:        o.GrandTotal,
		Status:            o.Status,
		CancelReason:      o.CancelReason,
		ConfirmedAt:       o.ConfirmedAt,
		CompletedAt:       o.CompletedAt,
		CancelledAt:       o.CancelledAt,
		Items:             make([]OrderItemModel, len(o.Items)),
	}
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	if inst := o.Delivery.Installation; inst != nil {
		if !inst.Date.IsZero() {
			date := inst.Date
			m.InstallationDate = &date
		}
		m.InstallationTimeSlot = inst.TimeSlot
		m.InstallationNote = inst.Note
		m.InstallationDealerID = inst.DealerID
	}
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(&o.Items[i])
	}
	return m
}

// OrderItemModel is the persistence model for an order line
type OrderItemModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	StockCode   string          `gorm:"type:varchar(64);not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	TireSize    string          `gorm:"type:varchar(50)"`
	Quantity    int             `gorm:"not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt   time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	return trade.OrderItem{
		ID:          m.ID,
		OrderID:     m.OrderID,
		StockCode:   m.StockCode,
		ProductName: m.ProductName,
		TireSize:    m.TireSize,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Amount:      m.Amount,
		CreatedAt:   m.CreatedAt,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain OrderItem
func OrderItemModelFromDomain(item *trade.OrderItem) OrderItemModel {
	return OrderItemModel{
		ID:          item.ID,
		OrderID:     item.OrderID,
		StockCode:   item.StockCode,
		ProductName: item.ProductName,
		TireSize:    item.TireSize,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		Amount:      item.Amount,
		CreatedAt:   item.CreatedAt,
	}
}

// OrderStatusLogModel is one row of an order's status history
type OrderStatusLogModel struct {
	ID         uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrderID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	FromStatus trade.OrderStatus `gorm:"type:varchar(20)"`
	ToStatus   trade.OrderStatus `gorm:"type:varchar(20);not null"`
	ActorID    uuid.UUID         `gorm:"type:uuid;not null"`
	ActorRole  string            `gorm:"type:varchar(20);not null"`
	Reason     string            `gorm:"type:varchar(500)"`
	CreatedAt  time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (OrderStatusLogModel) TableName() string {
	return "order_status_logs"
}

// ToDomain converts the persistence model to a domain StatusLog
func (m *OrderStatusLogModel) ToDomain() trade.StatusLog {
	return trade.StatusLog{
		ID:         m.ID,
		OrderID:    m.OrderID,
		FromStatus: m.FromStatus,
		ToStatus:   m.ToStatus,
		ActorID:    m.ActorID,
		ActorRole:  m.ActorRole,
		Reason:     m.Reason,
		CreatedAt:  m.CreatedAt,
	}
}

// OrderStatusLogModelFromDomain creates a persistence model from a domain StatusLog
func OrderStatusLogModelFromDomain(l trade.StatusLog) OrderStatusLogModel {
	return OrderStatusLogModel{
		ID:         l.ID,
		OrderID:    l.OrderID,
		FromStatus: l.FromStatus,
		ToStatus:   l.ToStatus,
		ActorID:    l.ActorID,
		ActorRole:  l.ActorRole,
		Reason:     l.Reason,
		CreatedAt:  l.CreatedAt,
	}
}

// AllModels lists the models for AutoMigrate in tests
func AllModels() []any {
	return []any{&UserModel{}, &OrderModel{}, &OrderItemModel{}, &OrderStatusLogModel{}}
}
