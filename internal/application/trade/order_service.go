package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"github.com/lastikpazari/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrCheckoutInFlight is returned when a checkout with the same idempotency key is still running
var ErrCheckoutInFlight = shared.NewDomainError("IDEMPOTENCY_IN_FLIGHT", "A checkout with this idempotency key is already in progress")

// OrderServiceConfig holds the checkout settings
type OrderServiceConfig struct {
	NumberPrefix      string
	ShippingFee       decimal.Decimal
	IdempotencyTTL    time.Duration
	MaxNumberAttempts int
}

// DefaultOrderServiceConfig returns the default checkout settings
func DefaultOrderServiceConfig() OrderServiceConfig {
	return OrderServiceConfig{
		NumberPrefix:      trade.DefaultOrderNumberPrefix,
		ShippingFee:       decimal.Zero,
		IdempotencyTTL:    24 * time.Hour,
		MaxNumberAttempts: 5,
	}
}

// CheckoutResult is the outcome of a checkout.
// Replayed is set when the idempotency key matched an earlier checkout.
type CheckoutResult struct {
	Order    OrderResponse
	Replayed bool
}

// OrderService implements checkout and the three order portals
type OrderService struct {
	orderRepo      trade.OrderRepository
	idempotency    shared.IdempotencyStore
	eventPublisher shared.EventPublisher
	config         OrderServiceConfig
	now            func() time.Time
}

// NewOrderService creates a new OrderService. idempotency may be nil,
// in which case Idempotency-Key headers are ignored.
func NewOrderService(orderRepo trade.OrderRepository, idempotency shared.IdempotencyStore, config OrderServiceConfig) *OrderService {
	if config.NumberPrefix == "" {
		config.NumberPrefix = trade.DefaultOrderNumberPrefix
	}
	if config.MaxNumberAttempts <= 0 {
		config.MaxNumberAttempts = 5
	}
	if config.IdempotencyTTL <= 0 {
		config.IdempotencyTTL = 24 * time.Hour
	}
	// totals are stored as DECIMAL(12,2)
	config.ShippingFee = config.ShippingFee.Round(2)
	return &OrderService{
		orderRepo:   orderRepo,
		idempotency: idempotency,
		config:      config,
		now:         time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ==================== Checkout ====================

// Checkout places an order for the session customer.
// A repeated idempotency key returns the order of the first request.
func (s *OrderService) Checkout(ctx context.Context, session identity.Session, req CheckoutRequest, idempotencyKey string) (*CheckoutResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "checkout",
		telemetry.SpanAttrUserRole, string(session.Role))
	defer span.End()

	if !session.IsCustomer() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only customers can place orders")
	}

	key := ""
	if idempotencyKey != "" && s.idempotency != nil {
		key = "checkout:" + session.UserID.String() + ":" + idempotencyKey
		reserved, err := s.idempotency.Reserve(ctx, key, s.config.IdempotencyTTL)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if !reserved {
			return s.replay(ctx, session, key)
		}
	}

	order, err := s.placeOrder(ctx, session, req)
	if err != nil {
		telemetry.RecordError(span, err)
		if key != "" {
			if releaseErr := s.idempotency.Release(ctx, key); releaseErr != nil {
				logger.FromContext(ctx).Warn("Failed to release idempotency key", zap.Error(releaseErr))
			}
		}
		return nil, err
	}

	if key != "" {
		if err := s.idempotency.Complete(ctx, key, order.ID.String(), s.config.IdempotencyTTL); err != nil {
			logger.FromContext(ctx).Warn("Failed to complete idempotency key",
				zap.String("order_id", order.ID.String()), zap.Error(err))
		}
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrOrderNumber, order.OrderNumber,
		telemetry.SpanAttrCount, len(order.Items))
	logger.FromContext(ctx).Info("Checkout completed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.String("delivery_type", string(order.Delivery.Type)),
		zap.String("grand_total", order.GrandTotal.StringFixed(2)))

	return &CheckoutResult{Order: s.customerView(order)}, nil
}

func (s *OrderService) placeOrder(ctx context.Context, session identity.Session, req CheckoutRequest) (*trade.Order, error) {
	delivery := trade.Delivery{
		Type:              trade.DeliveryType(req.DeliveryType),
		DeliveryAddressID: req.DeliveryAddressID,
		BillingAddressID:  req.BillingAddressID,
		StoreID:           req.StoreID,
	}
	if req.Installation != nil {
		delivery.Installation = &trade.Installation{
			Date:     req.Installation.Date,
			TimeSlot: req.Installation.TimeSlot,
			Note:     req.Installation.Note,
			DealerID: req.Installation.DealerID,
		}
	}

	payment := trade.PaymentInfo{
		Method:    trade.PaymentMethod(req.Payment.Method),
		Status:    trade.PaymentStatus(req.Payment.Status),
		Reference: req.Payment.Reference,
		PaidAt:    req.Payment.PaidAt,
	}

	lines := make([]trade.LineInput, len(req.Items))
	for i, item := range req.Items {
		lines[i] = trade.LineInput{
			StockCode:   item.StockCode,
			ProductName: item.ProductName,
			TireSize:    item.TireSize,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	number, err := s.nextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}
	order, err := trade.NewOrder(number, session.UserID, delivery, payment, s.config.ShippingFee, lines)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		err = s.orderRepo.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt >= s.config.MaxNumberAttempts {
			return nil, err
		}
		// lost a race on the order number
		if number, err = s.nextOrderNumber(ctx); err != nil {
			return nil, err
		}
		if err = order.Renumber(number); err != nil {
			return nil, err
		}
	}

	s.publishEvents(ctx, order)
	return order, nil
}

func (s *OrderService) nextOrderNumber(ctx context.Context) (string, error) {
	for i := 0; i < s.config.MaxNumberAttempts; i++ {
		number, err := trade.NewOrderNumber(s.config.NumberPrefix, s.now())
		if err != nil {
			return "", err
		}
		exists, err := s.orderRepo.ExistsByOrderNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", shared.NewDomainError("ORDER_NUMBER_EXHAUSTED", "Could not allocate a unique order number")
}

func (s *OrderService) replay(ctx context.Context, session identity.Session, key string) (*CheckoutResult, error) {
	result, err := s.idempotency.Result(ctx, key)
	if err != nil {
		return nil, err
	}
	if result == "" {
		return nil, ErrCheckoutInFlight
	}
	orderID, err := uuid.Parse(result)
	if err != nil {
		return nil, shared.NewDomainError("IDEMPOTENCY_CORRUPT", "Stored checkout result is not an order id")
	}
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != session.UserID {
		return nil, shared.ErrNotFound
	}
	logger.FromContext(ctx).Info("Checkout replayed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber))
	return &CheckoutResult{Order: s.customerView(order), Replayed: true}, nil
}

// ==================== Portals ====================

// ListForCustomer lists the session customer's own orders
func (s *OrderService) ListForCustomer(ctx context.Context, session identity.Session, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if !session.IsCustomer() {
		return nil, 0, shared.ErrForbidden
	}
	// the customer portal never filters by another customer or store
	filter.CustomerID = nil
	filter.StoreID = nil
	orders, total, err := s.list(ctx, trade.CustomerScope(session.UserID), filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = s.customerView(&orders[i])
	}
	return out, total, nil
}

// ListForDealer lists the orders of the session dealer's store
func (s *OrderService) ListForDealer(ctx context.Context, session identity.Session, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if !session.IsDealer() || session.StoreIDValue() <= 0 {
		return nil, 0, shared.ErrForbidden
	}
	filter.StoreID = nil
	orders, total, err := s.list(ctx, trade.StoreScope(session.StoreIDValue()), filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = s.operatorView(session, &orders[i])
	}
	return out, total, nil
}

// ListAll lists orders across every store
func (s *OrderService) ListAll(ctx context.Context, session identity.Session, filter OrderListFilter) ([]OrderResponse, int64, error) {
	if !session.IsAdmin() {
		return nil, 0, shared.ErrForbidden
	}
	orders, total, err := s.list(ctx, trade.OrderScope{}, filter)
	if err != nil {
		return nil, 0, err
	}
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = s.operatorView(session, &orders[i])
	}
	return out, total, nil
}

func (s *OrderService) list(ctx context.Context, scope trade.OrderScope, filter OrderListFilter) ([]trade.Order, int64, error) {
	domainFilter := toDomainFilter(filter)
	orders, err := s.orderRepo.FindAll(ctx, scope, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, scope, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func toDomainFilter(filter OrderListFilter) shared.Filter {
	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if len(filter.Status) > 0 {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.DeliveryType != "" {
		domainFilter.Filters["delivery_type"] = filter.DeliveryType
	}
	if filter.StoreID != nil {
		domainFilter.Filters["store_id"] = *filter.StoreID
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.CreatedFrom != nil {
		domainFilter.Filters["created_from"] = *filter.CreatedFrom
	}
	if filter.CreatedTo != nil {
		// inclusive end date
		domainFilter.Filters["created_to"] = filter.CreatedTo.AddDate(0, 0, 1)
	}
	return domainFilter
}

// Get returns one order as seen through the session's portal.
// Customers get NOT_FOUND for orders that are not theirs;
// dealers get FORBIDDEN for another store's order.
func (s *OrderService) Get(ctx context.Context, session identity.Session, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.loadForSession(ctx, session, orderID)
	if err != nil {
		return nil, err
	}
	var resp OrderResponse
	if session.IsCustomer() {
		resp = s.customerView(order)
	} else {
		resp = s.operatorView(session, order)
	}
	return &resp, nil
}

// Timeline returns the five-step progress timeline of a customer's order
func (s *OrderService) Timeline(ctx context.Context, session identity.Session, orderID uuid.UUID) ([]trade.TimelineStep, error) {
	if !session.IsCustomer() {
		return nil, shared.ErrForbidden
	}
	order, err := s.loadForSession(ctx, session, orderID)
	if err != nil {
		return nil, err
	}
	return order.Timeline(), nil
}

// History returns the status history of an order, oldest first
func (s *OrderService) History(ctx context.Context, session identity.Session, orderID uuid.UUID) ([]StatusLogResponse, error) {
	if session.IsCustomer() {
		return nil, shared.ErrForbidden
	}
	order, err := s.loadForSession(ctx, session, orderID)
	if err != nil {
		return nil, err
	}
	logs, err := s.orderRepo.FindStatusLogs(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return ToStatusLogResponses(logs), nil
}

func (s *OrderService) loadForSession(ctx context.Context, session identity.Session, orderID uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	switch {
	case session.IsAdmin():
		return order, nil
	case session.IsDealer():
		if !trade.StoreScope(session.StoreIDValue()).Allows(order) {
			return nil, shared.NewDomainError("FORBIDDEN", "Order belongs to another store")
		}
		return order, nil
	case session.IsCustomer():
		if !trade.CustomerScope(session.UserID).Allows(order) {
			return nil, shared.ErrNotFound
		}
		return order, nil
	}
	return nil, shared.ErrUnauthorized
}

// ==================== Status changes ====================

// Transition moves an order along the status table on behalf of a dealer or administrator
func (s *OrderService) Transition(ctx context.Context, session identity.Session, orderID uuid.UUID, req TransitionRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "transition",
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrOrderStatus, req.Status,
		telemetry.SpanAttrUserRole, string(session.Role))
	defer span.End()

	if !session.IsDealer() && !session.IsAdmin() {
		return nil, shared.ErrForbidden
	}
	order, err := s.loadForUpdate(ctx, session, orderID, req.Version)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	from := order.Status
	if err := order.TransitionTo(trade.OrderStatus(req.Status), actorOf(session), req.Reason); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.orderRepo.SaveStatus(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, order)

	logger.FromContext(ctx).Debug("Order status saved",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(from)),
		zap.String("to", string(order.Status)))

	resp := s.operatorView(session, order)
	return &resp, nil
}

// Revert sends a completed order back to received, confirmed or preparing.
// Administrators only; a reason is mandatory.
func (s *OrderService) Revert(ctx context.Context, session identity.Session, orderID uuid.UUID, req RevertRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "revert",
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrOrderStatus, req.Status)
	defer span.End()

	if !session.IsAdmin() {
		return nil, shared.NewDomainError("FORBIDDEN", "Only administrators can revert completed orders")
	}
	if req.Reason == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "A reason is required to revert an order")
	}
	order, err := s.loadForUpdate(ctx, session, orderID, req.Version)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := order.Revert(trade.OrderStatus(req.Status), actorOf(session), req.Reason); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.orderRepo.SaveStatus(ctx, order); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	s.publishEvents(ctx, order)

	logger.FromContext(ctx).Info("Order revert saved",
		zap.String("order_id", order.ID.String()),
		zap.String("to", string(order.Status)),
		zap.String("reason", req.Reason))

	resp := s.operatorView(session, order)
	return &resp, nil
}

func (s *OrderService) loadForUpdate(ctx context.Context, session identity.Session, orderID uuid.UUID, version *int) (*trade.Order, error) {
	order, err := s.loadForSession(ctx, session, orderID)
	if err != nil {
		return nil, err
	}
	if version != nil && *version != order.Version {
		return nil, shared.ErrConcurrencyConflict
	}
	return order, nil
}

func actorOf(session identity.Session) trade.Actor {
	return trade.Actor{UserID: session.UserID, Role: string(session.Role)}
}

// publishEvents hands the order's events to the publisher. The write has
// already committed, so a failing handler is logged and not returned.
func (s *OrderService) publishEvents(ctx context.Context, order *trade.Order) {
	events := order.GetDomainEvents()
	order.ClearDomainEvents()
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.FromContext(ctx).Error("Failed to publish order events",
			zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}

// ==================== Views ====================

func (s *OrderService) customerView(order *trade.Order) OrderResponse {
	resp := ToOrderResponse(order)
	resp.Timeline = order.Timeline()
	return resp
}

func (s *OrderService) operatorView(session identity.Session, order *trade.Order) OrderResponse {
	resp := ToOrderResponse(order)
	resp.AvailableTransitions = toStatusOptions(order.AvailableTransitions())
	if session.IsAdmin() && order.IsCompleted() {
		resp.RevertTargets = toStatusOptions(trade.RevertTargets)
	}
	return resp
}
