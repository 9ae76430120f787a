package event

import (
	"context"

	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// OrderAuditHandler writes one structured log line per order lifecycle event.
// Reverts are logged at warn level: payment and stock are not compensated
// automatically and need an operator to follow up.
type OrderAuditHandler struct {
	logger *zap.Logger
}

// NewOrderAuditHandler creates the handler
func NewOrderAuditHandler(logger *zap.Logger) *OrderAuditHandler {
	return &OrderAuditHandler{logger: logger.Named("order_audit")}
}

// EventTypes returns the order events the handler consumes
func (h *OrderAuditHandler) EventTypes() []string {
	return []string{trade.EventTypeOrderPlaced, trade.EventTypeOrderStatusChanged, trade.EventTypeOrderReverted}
}

// Handle logs the event with the request-scoped fields when present
func (h *OrderAuditHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	log := h.logger
	if reqID := logger.GetRequestID(ctx); reqID != "" {
		log = log.With(zap.String("request_id", reqID))
	}

	switch e := event.(type) {
	case *trade.OrderPlacedEvent:
		log.Info("Order placed",
			zap.String("order_number", e.OrderNumber),
			zap.String("customer_id", e.CustomerID.String()),
			zap.String("delivery_type", string(e.DeliveryType)),
			zap.Int64("store_id", e.StoreID),
			zap.String("grand_total", e.GrandTotal.StringFixed(2)),
		)
	case *trade.OrderStatusChangedEvent:
		log.Info("Order status changed",
			zap.String("order_number", e.OrderNumber),
			zap.String("from", string(e.FromStatus)),
			zap.String("to", string(e.ToStatus)),
			zap.String("actor_id", e.ActorID.String()),
			zap.String("actor_role", e.ActorRole),
			zap.String("reason", e.Reason),
		)
	case *trade.OrderRevertedEvent:
		log.Warn("Completed order reverted",
			zap.String("order_number", e.OrderNumber),
			zap.String("to", string(e.ToStatus)),
			zap.String("actor_id", e.ActorID.String()),
			zap.String("reason", e.Reason),
		)
	default:
		log.Debug("Unhandled event", zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*OrderAuditHandler)(nil)
