package trade

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lastikpazari/backend/internal/domain/identity"
	"github.com/lastikpazari/backend/internal/domain/shared"
	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/lastikpazari/backend/internal/infrastructure/logger"
	"github.com/lastikpazari/backend/internal/infrastructure/printing"
	"github.com/lastikpazari/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// MaxPrintBatch is the largest number of orders printed in one document
const MaxPrintBatch = 100

// Print formats
const (
	PrintFormatHTML = "html"
	PrintFormatPDF  = "pdf"
)

// PDFRenderer converts an HTML document to PDF
type PDFRenderer interface {
	Render(ctx context.Context, req *printing.RenderRequest) (*printing.RenderResult, error)
}

// PrintDocument is a rendered print batch
type PrintDocument struct {
	Content     []byte
	ContentType string
	Filename    string
}

// PrintService renders dealer order sheets
type PrintService struct {
	orderRepo trade.OrderRepository
	renderer  PDFRenderer
	now       func() time.Time
}

// NewPrintService creates a new PrintService. With a nil renderer every
// batch is returned as HTML.
func NewPrintService(orderRepo trade.OrderRepository, renderer PDFRenderer) *PrintService {
	return &PrintService{orderRepo: orderRepo, renderer: renderer, now: time.Now}
}

// PDFEnabled reports whether PDF output is available
func (s *PrintService) PDFEnabled() bool {
	return s.renderer != nil
}

// Print renders the requested orders of the dealer's store in request order.
// Every id must exist and belong to the store.
func (s *PrintService) Print(ctx context.Context, session identity.Session, req PrintRequest) (*PrintDocument, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "print",
		telemetry.SpanAttrStoreID, session.StoreIDValue(),
		telemetry.SpanAttrCount, len(req.OrderIDs),
		telemetry.SpanAttrFormat, req.Format)
	defer span.End()

	if !session.IsDealer() || session.StoreIDValue() <= 0 {
		return nil, shared.NewDomainError("FORBIDDEN", "Only dealers can print orders")
	}
	ids := dedupe(req.OrderIDs)
	if len(ids) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one order is required")
	}
	if len(ids) > MaxPrintBatch {
		return nil, shared.NewDomainError("INVALID_INPUT", "Too many orders in one print batch")
	}

	orders, err := s.orderRepo.FindByIDs(ctx, ids)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	byID := make(map[uuid.UUID]trade.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	scope := trade.StoreScope(session.StoreIDValue())
	sorted := make([]trade.Order, 0, len(ids))
	for _, id := range ids {
		o, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", "Order not found: "+id.String())
		}
		if !scope.Allows(&o) {
			return nil, shared.NewDomainError("FORBIDDEN", "Order belongs to another store: "+o.OrderNumber)
		}
		sorted = append(sorted, o)
	}

	now := s.now()
	html, err := printing.RenderHTML(sorted, now)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	name := filename(sorted, now)
	htmlDoc := &PrintDocument{
		Content:     html,
		ContentType: "text/html; charset=utf-8",
		Filename:    name + ".html",
	}
	if req.Format != PrintFormatPDF || s.renderer == nil {
		if req.Format == PrintFormatPDF {
			logger.FromContext(ctx).Info("PDF rendering disabled, returning HTML")
		}
		return htmlDoc, nil
	}

	result, err := s.renderer.Render(ctx, &printing.RenderRequest{
		HTML:       string(html),
		Title:      printing.SheetTitle,
		Margins:    printing.DefaultMargins(),
		FooterHTML: printing.FooterHTML(now),
	})
	if err != nil {
		telemetry.RecordError(span, err)
		// timeouts surface as 504; other render failures degrade to HTML
		var renderErr *printing.RenderError
		if errors.As(err, &renderErr) && renderErr.Code != printing.ErrCodeRenderTimeout {
			logger.FromContext(ctx).Warn("PDF rendering failed, returning HTML",
				zap.Int("orders", len(sorted)), zap.String("code", renderErr.Code), zap.Error(err))
			return htmlDoc, nil
		}
		logger.FromContext(ctx).Error("Order print failed",
			zap.Int("orders", len(sorted)), zap.Error(err))
		return nil, err
	}
	return &PrintDocument{
		Content:     result.PDFData,
		ContentType: "application/pdf",
		Filename:    name + ".pdf",
	}, nil
}

func filename(orders []trade.Order, now time.Time) string {
	if len(orders) == 1 {
		return "siparis-" + orders[0].OrderNumber
	}
	return "siparisler-" + now.In(valueobject.Istanbul).Format("20060102-150405")
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
