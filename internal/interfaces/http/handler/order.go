package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lastikpazari/backend/internal/application/trade"
	"github.com/lastikpazari/backend/internal/domain/identity"
	domaintrade "github.com/lastikpazari/backend/internal/domain/trade"
)

// IdempotencyKeyHeader lets a storefront retry a checkout safely
const IdempotencyKeyHeader = "Idempotency-Key"

// maxIdempotencyKeyLength caps the header value stored in the idempotency store
const maxIdempotencyKeyLength = 128

// OrderHandler serves the customer, dealer and administrator order portals.
// Which orders and fields a caller sees is decided by the service from the session.
type OrderHandler struct {
	BaseHandler
	orderService *trade.OrderService
	printService *trade.PrintService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *trade.OrderService, printService *trade.PrintService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		printService: printService,
	}
}

// Checkout godoc
// @Summary      Place an order
// @Description  Customer checkout. A repeated Idempotency-Key returns the first order with 200.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Retry key"
// @Param        request body trade.CheckoutRequest true "Checkout payload"
// @Success      201 {object} dto.Response{data=trade.OrderResponse}
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	key := strings.TrimSpace(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLength {
		h.BadRequest(c, "Idempotency-Key is too long")
		return
	}

	var req trade.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.orderService.Checkout(c.Request.Context(), session, req, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if result.Replayed {
		h.Success(c, result.Order)
		return
	}
	h.Created(c, result.Order)
}

type listFunc func(ctx context.Context, session identity.Session, filter trade.OrderListFilter) ([]trade.OrderResponse, int64, error)

// ListCustomerOrders godoc
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size"
// @Param        status query []string false "Status filter"
// @Success      200 {object} dto.Response{data=[]trade.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /orders [get]
func (h *OrderHandler) ListCustomerOrders(c *gin.Context) {
	h.list(c, h.orderService.ListForCustomer)
}

// ListDealerOrders lists the orders of the dealer's store
func (h *OrderHandler) ListDealerOrders(c *gin.Context) {
	h.list(c, h.orderService.ListForDealer)
}

// ListAllOrders lists orders across every store
func (h *OrderHandler) ListAllOrders(c *gin.Context) {
	h.list(c, h.orderService.ListAll)
}

func (h *OrderHandler) list(c *gin.Context, fn listFunc) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var filter trade.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}
	filter.Status = splitStatuses(filter.Status)
	for _, s := range filter.Status {
		if !domaintrade.OrderStatus(s).IsValid() {
			h.BadRequest(c, "Unknown order status: "+s)
			return
		}
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := fn(c.Request.Context(), session, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// splitStatuses accepts both ?status=a&status=b and ?status=a,b
func splitStatuses(values []string) []string {
	var out []string
	for _, v := range values {
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// GetOrder godoc
// @Summary      Get an order
// @Description  Customers see their own orders with the timeline; dealers and administrators get available transitions.
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	order, err := h.orderService.Get(c.Request.Context(), session, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetTimeline returns the customer progress steps of an order
func (h *OrderHandler) GetTimeline(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	steps, err := h.orderService.Timeline(c.Request.Context(), session, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, steps)
}

// GetHistory returns the status log of an order
func (h *OrderHandler) GetHistory(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	history, err := h.orderService.History(c.Request.Context(), session, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, history)
}

// UpdateStatus godoc
// @Summary      Change order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body trade.TransitionRequest true "Target status"
// @Success      200 {object} dto.Response{data=trade.OrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dealer/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req trade.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Transition(c.Request.Context(), session, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// RevertStatus sends a completed order back to an earlier step
func (h *OrderHandler) RevertStatus(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	var req trade.RevertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.orderService.Revert(c.Request.Context(), session, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// PrintOrders godoc
// @Summary      Print order sheets
// @Description  Renders the selected store orders as one HTML or PDF document
// @Tags         orders
// @Accept       json
// @Produce      text/html
// @Produce      application/pdf
// @Param        request body trade.PrintRequest true "Orders to print"
// @Success      200 {file} file
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      504 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dealer/orders/print [post]
func (h *OrderHandler) PrintOrders(c *gin.Context) {
	session, ok := h.session(c)
	if !ok {
		return
	}

	var req trade.PrintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if req.Format == "" {
		req.Format = c.DefaultQuery("format", trade.PrintFormatHTML)
	}
	if req.Format != trade.PrintFormatHTML && req.Format != trade.PrintFormatPDF {
		h.BadRequest(c, "format must be html or pdf")
		return
	}

	doc, err := h.printService.Print(c.Request.Context(), session, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	// HTML opens in the browser print dialog, PDF downloads
	disposition := "inline"
	if doc.ContentType == "application/pdf" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", contentDisposition(disposition, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Content)
}
