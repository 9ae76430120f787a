package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// CheckoutRequest is the customer checkout payload
type CheckoutRequest struct {
	DeliveryType      string              `json:"teslimatTipi" binding:"required,delivery_type"`
	DeliveryAddressID *uuid.UUID          `json:"teslimatAdresiId"`
	BillingAddressID  *uuid.UUID          `json:"faturaAdresiId"`
	StoreID           *int64              `json:"magazaId"`
	Installation      *InstallationInput  `json:"montajBilgisi"`
	Payment           PaymentInput        `json:"odemeBilgisi"`
	Items             []CheckoutItemInput `json:"urunler" binding:"required,min=1,max=50,dive"`
}

// InstallationInput is the mounting appointment of a store pickup
type InstallationInput struct {
	Date     time.Time `json:"tarih" binding:"required"`
	TimeSlot string    `json:"saat" binding:"max=20"`
	Note     string    `json:"not" binding:"max=500"`
	DealerID *int64    `json:"bayiId"`
}

// PaymentInput is the payment outcome reported by the storefront
type PaymentInput struct {
	Method    string     `json:"yontem" binding:"omitempty,oneof=kredi_karti havale kapida_odeme"`
	Status    string     `json:"durum" binding:"omitempty,oneof=pending paid failed"`
	Reference string     `json:"referans" binding:"max=100"`
	PaidAt    *time.Time `json:"odemeTarihi"`
}

// CheckoutItemInput is one tire line of the checkout
type CheckoutItemInput struct {
	StockCode   string          `json:"stokKodu" binding:"required,max=64"`
	ProductName string          `json:"urunAdi" binding:"max=200"`
	TireSize    string          `json:"ebat" binding:"max=50"`
	Quantity    int             `json:"adet" binding:"required,min=1,max=100"`
	UnitPrice   decimal.Decimal `json:"birimFiyat" binding:"required"`
}

// TransitionRequest moves an order to another status.
// Version, when sent, must match the order's current version.
type TransitionRequest struct {
	Status  string `json:"durum" binding:"required,order_status"`
	Reason  string `json:"neden" binding:"max=500"`
	Version *int   `json:"version"`
}

// RevertRequest sends a completed order back to an earlier step
type RevertRequest struct {
	Status  string `json:"durum" binding:"required,order_status"`
	Reason  string `json:"neden" binding:"required,min=3,max=500"`
	Version *int   `json:"version"`
}

// PrintRequest selects the orders of a dealer print batch
type PrintRequest struct {
	OrderIDs []uuid.UUID `json:"siparisIdleri" binding:"required,min=1,max=100"`
	Format   string      `json:"format" binding:"omitempty,oneof=html pdf"`
}

// OrderListFilter holds the list query parameters of every portal
type OrderListFilter struct {
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search       string     `form:"search"`
	Status       []string   `form:"status"`
	DeliveryType string     `form:"delivery_type" binding:"omitempty,delivery_type"`
	StoreID      *int64     `form:"store_id"`
	CustomerID   *uuid.UUID `form:"customer_id"`
	CreatedFrom  *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo    *time.Time `form:"created_to" time_format:"2006-01-02"`
}

// ==================== Responses ====================

// OrderItemResponse is one order line
type OrderItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	StockCode   string          `json:"stokKodu"`
	ProductName string          `json:"urunAdi"`
	TireSize    string          `json:"ebat"`
	Quantity    int             `json:"adet"`
	UnitPrice   decimal.Decimal `json:"birimFiyat"`
	Amount      decimal.Decimal `json:"tutar"`
	Formatted   struct {
		UnitPrice string `json:"birimFiyat"`
		Amount    string `json:"tutar"`
	} `json:"formatted"`
}

// InstallationResponse is the mounting appointment
type InstallationResponse struct {
	Date     time.Time `json:"tarih"`
	TimeSlot string    `json:"saat,omitempty"`
	Note     string    `json:"not,omitempty"`
	DealerID *int64    `json:"bayiId,omitempty"`
}

// PaymentResponse is the payment snapshot
type PaymentResponse struct {
	Method    string          `json:"yontem,omitempty"`
	Status    string          `json:"durum"`
	Reference string          `json:"referans,omitempty"`
	Amount    decimal.Decimal `json:"tutar"`
	PaidAt    *time.Time      `json:"odemeTarihi,omitempty"`
}

// FormattedOrder carries the display strings every portal renders
type FormattedOrder struct {
	Subtotal      string `json:"araToplam"`
	ShippingFee   string `json:"kargoUcreti"`
	GrandTotal    string `json:"genelToplam"`
	CreatedAt     string `json:"olusturmaTarihi"`
	UpdatedAt     string `json:"guncellemeTarihi"`
	Status        string `json:"durum"`
	DeliveryType  string `json:"teslimatTipi"`
	PaymentMethod string `json:"odemeYontemi"`
	Installation  string `json:"montajTarihi,omitempty"`
}

// StatusOption is a status a caller may move the order to
type StatusOption struct {
	Status trade.OrderStatus `json:"durum"`
	Label  string            `json:"etiket"`
}

// OrderResponse is the order as seen through one portal
type OrderResponse struct {
	ID                   uuid.UUID             `json:"id"`
	OrderNumber          string                `json:"siparisNo"`
	CustomerID           uuid.UUID             `json:"musteriId"`
	DeliveryType         trade.DeliveryType    `json:"teslimatTipi"`
	DeliveryAddressID    *uuid.UUID            `json:"teslimatAdresiId,omitempty"`
	BillingAddressID     *uuid.UUID            `json:"faturaAdresiId,omitempty"`
	StoreID              *int64                `json:"magazaId,omitempty"`
	Installation         *InstallationResponse `json:"montajBilgisi,omitempty"`
	Payment              PaymentResponse       `json:"odemeBilgisi"`
	Items                []OrderItemResponse   `json:"urunler"`
	ItemCount            int                   `json:"urunAdedi"`
	Subtotal             decimal.Decimal       `json:"araToplam"`
	ShippingFee          decimal.Decimal       `json:"kargoUcreti"`
	GrandTotal           decimal.Decimal       `json:"genelToplam"`
	Status               trade.OrderStatus     `json:"durum"`
	CancelReason         string                `json:"iptalNedeni,omitempty"`
	Version              int                   `json:"version"`
	CreatedAt            time.Time             `json:"olusturmaTarihi"`
	UpdatedAt            time.Time             `json:"guncellemeTarihi"`
	Formatted            FormattedOrder        `json:"formatted"`
	Timeline             []trade.TimelineStep  `json:"timeline,omitempty"`
	AvailableTransitions []StatusOption        `json:"availableTransitions,omitempty"`
	RevertTargets        []StatusOption        `json:"revertTargets,omitempty"`
}

// StatusLogResponse is one entry of the status history
type StatusLogResponse struct {
	ID         uuid.UUID         `json:"id"`
	FromStatus trade.OrderStatus `json:"oncekiDurum,omitempty"`
	ToStatus   trade.OrderStatus `json:"yeniDurum"`
	ActorID    uuid.UUID         `json:"islemYapanId"`
	ActorRole  string            `json:"islemYapanRol"`
	Reason     string            `json:"neden,omitempty"`
	CreatedAt  time.Time         `json:"tarih"`
	Formatted  struct {
		FromStatus string `json:"oncekiDurum,omitempty"`
		ToStatus   string `json:"yeniDurum"`
		CreatedAt  string `json:"tarih"`
	} `json:"formatted"`
}

// ==================== Mapping ====================

// ToOrderResponse formats an order for display. Portal specific fields
// (timeline, transitions) are filled in by the service.
func ToOrderResponse(o *trade.Order) OrderResponse {
	resp := OrderResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		CustomerID:        o.CustomerID,
		DeliveryType:      o.Delivery.Type,
		DeliveryAddressID: o.Delivery.DeliveryAddressID,
		BillingAddressID:  o.Delivery.BillingAddressID,
		StoreID:           o.Delivery.StoreID,
		Payment: PaymentResponse{
			Method:    string(o.Payment.Method),
			Status:    string(o.Payment.Status),
			Reference: o.Payment.Reference,
			Amount:    o.Payment.Amount,
			PaidAt:    o.Payment.PaidAt,
		},
		Items:        make([]OrderItemResponse, len(o.Items)),
		ItemCount:    o.ItemCount(),
		Subtotal:     o.Subtotal,
		ShippingFee:  o.ShippingFee,
		GrandTotal:   o.GrandTotal,
		Status:       o.Status,
		CancelReason: o.CancelReason,
		Version:      o.Version,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Formatted: FormattedOrder{
			Subtotal:      o.SubtotalMoney().FormatTR(),
			ShippingFee:   o.ShippingFeeMoney().FormatTR(),
			GrandTotal:    o.GrandTotalMoney().FormatTR(),
			CreatedAt:     valueobject.FormatDateTimeTR(o.CreatedAt),
			UpdatedAt:     valueobject.FormatDateTimeTR(o.UpdatedAt),
			Status:        o.Status.Label(),
			DeliveryType:  o.Delivery.Type.Label(),
			PaymentMethod: o.Payment.Method.Label(),
		},
	}

	if inst := o.Delivery.Installation; inst != nil {
		resp.Installation = &InstallationResponse{
			Date:     inst.Date,
			TimeSlot: inst.TimeSlot,
			Note:     inst.Note,
			DealerID: inst.DealerID,
		}
		resp.Formatted.Installation = valueobject.FormatDateTR(inst.Date)
		if inst.TimeSlot != "" {
			resp.Formatted.Installation += " " + inst.TimeSlot
		}
	}

	for i := range o.Items {
		item := &o.Items[i]
		r := OrderItemResponse{
			ID:          item.ID,
			StockCode:   item.StockCode,
			ProductName: item.ProductName,
			TireSize:    item.TireSize,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Amount:      item.Amount,
		}
		r.Formatted.UnitPrice = valueobject.NewMoneyTRY(item.UnitPrice).FormatTR()
		r.Formatted.Amount = valueobject.NewMoneyTRY(item.Amount).FormatTR()
		resp.Items[i] = r
	}
	return resp
}

// ToStatusLogResponses converts the status history
func ToStatusLogResponses(logs []trade.StatusLog) []StatusLogResponse {
	out := make([]StatusLogResponse, len(logs))
	for i, l := range logs {
		r := StatusLogResponse{
			ID:         l.ID,
			FromStatus: l.FromStatus,
			ToStatus:   l.ToStatus,
			ActorID:    l.ActorID,
			ActorRole:  l.ActorRole,
			Reason:     l.Reason,
			CreatedAt:  l.CreatedAt,
		}
		if l.FromStatus != "" {
			r.Formatted.FromStatus = l.FromStatus.Label()
		}
		r.Formatted.ToStatus = l.ToStatus.Label()
		r.Formatted.CreatedAt = valueobject.FormatDateTimeTR(l.CreatedAt)
		out[i] = r
	}
	return out
}

func toStatusOptions(statuses []trade.OrderStatus) []StatusOption {
	out := make([]StatusOption, len(statuses))
	for i, s := range statuses {
		out[i] = StatusOption{Status: s, Label: s.Label()}
	}
	return out
}
