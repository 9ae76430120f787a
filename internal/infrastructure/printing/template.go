package printing

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/lastikpazari/backend/internal/domain/shared/valueobject"
	"github.com/lastikpazari/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SheetTitle is the document title of a printed order batch
const SheetTitle = "Sipariş Formu"

var turkishUpper = cases.Upper(language.Turkish)

// UpperTR upper-cases s with Turkish rules (i → İ, ı → I)
func UpperTR(s string) string {
	return turkishUpper.String(s)
}

// orderSheetFuncs are the helpers available to the order sheet template
var orderSheetFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string {
		return valueobject.NewMoneyTRY(d).FormatTR()
	},
	"datetime": valueobject.FormatDateTimeTR,
	"date":     valueobject.FormatDateTR,
	"upper":    UpperTR,
	"add":      func(a, b int) int { return a + b },
	"dash": func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "-"
		}
		return s
	},
	"storeID": func(id *int64) string {
		if id == nil {
			return "-"
		}
		return fmt.Sprintf("#%d", *id)
	},
}

var orderSheetTemplate = template.Must(template.New("order_sheet").Funcs(orderSheetFuncs).Parse(orderSheetHTML))

type orderSheetData struct {
	Title       string
	GeneratedAt time.Time
	Orders      []trade.Order
}

// RenderHTML renders the orders as one printable HTML document,
// one order per page.
func RenderHTML(orders []trade.Order, now time.Time) ([]byte, error) {
	if len(orders) == 0 {
		return nil, NewRenderError(ErrCodeInvalidHTML, "no orders to print", nil)
	}

	var buf bytes.Buffer
	data := orderSheetData{Title: SheetTitle, GeneratedAt: now, Orders: orders}
	if err := orderSheetTemplate.Execute(&buf, data); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "order sheet template failed", err)
	}
	return buf.Bytes(), nil
}

// FooterHTML is the Chrome footer template with page numbers
func FooterHTML(now time.Time) string {
	return `<div style="font-size:8px;width:100%;padding:0 10mm;display:flex;justify-content:space-between;color:#6B7280;">` +
		`<span>` + template.HTMLEscapeString(valueobject.FormatDateTimeTR(now)) + `</span>` +
		`<span><span class="pageNumber"></span> / <span class="totalPages"></span></span></div>`
}

const orderSheetHTML = `<!DOCTYPE html>
<html lang="tr">
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: "DejaVu Sans", Arial, sans-serif; font-size: 11px; color: #111827; margin: 0; }
.sheet { page-break-after: always; padding: 4mm 0; }
.sheet:last-child { page-break-after: auto; }
h1 { font-size: 18px; margin: 0 0 4px; }
.meta { color: #6B7280; margin-bottom: 12px; }
table { width: 100%; border-collapse: collapse; margin-bottom: 10px; }
th, td { border: 1px solid #D1D5DB; padding: 4px 6px; text-align: left; }
th { background: #F3F4F6; }
td.num { text-align: right; white-space: nowrap; }
.totals td { border: none; }
.status { font-weight: bold; }
</style>
</head>
<body>
{{- range .Orders}}
<section class="sheet">
  <h1>{{upper $.Title}}</h1>
  <div class="meta">{{.OrderNumber}} &middot; {{datetime .CreatedAt}} &middot; <span class="status">{{.Status.Label}}</span></div>
  <table>
    <tr><th>Teslimat</th><td>{{.Delivery.Type.Label}}</td><th>Mağaza</th><td>{{storeID .Delivery.StoreID}}</td></tr>
    <tr><th>Ödeme</th><td>{{.Payment.Method.Label}}</td><th>Müşteri</th><td>{{.CustomerID}}</td></tr>
    {{- with .Delivery.Installation}}
    <tr><th>Montaj Tarihi</th><td>{{date .Date}} {{dash .TimeSlot}}</td><th>Montaj Notu</th><td>{{dash .Note}}</td></tr>
    {{- end}}
  </table>
  <table>
    <thead><tr><th>#</th><th>Stok Kodu</th><th>Ürün</th><th>Ebat</th><th>Adet</th><th>Birim Fiyat</th><th>Tutar</th></tr></thead>
    <tbody>
    {{- range $i, $item := .Items}}
      <tr><td>{{add $i 1}}</td><td>{{$item.StockCode}}</td><td>{{dash $item.ProductName}}</td><td>{{dash $item.TireSize}}</td><td class="num">{{$item.Quantity}}</td><td class="num">{{money $item.UnitPrice}}</td><td class="num">{{money $item.Amount}}</td></tr>
    {{- end}}
    </tbody>
  </table>
  <table class="totals">
    <tr><td></td><th>Ara Toplam</th><td class="num">{{money .Subtotal}}</td></tr>
    <tr><td></td><th>Kargo</th><td class="num">{{money .ShippingFee}}</td></tr>
    <tr><td></td><th>Genel Toplam</th><td class="num"><strong>{{money .GrandTotal}}</strong></td></tr>
  </table>
</section>
{{- end}}
<div class="meta">{{datetime .GeneratedAt}}</div>
</body>
</html>
`
