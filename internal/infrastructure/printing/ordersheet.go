package printing

import (
	"bytes"
	"context"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/agoramall/backend/internal/domain/commerce"
)

// OrderSheetData carries everything the order sheet template needs.
// The application layer assembles it from the order aggregate and the
// buyer's account record.
type OrderSheetData struct {
	OrderNumber   string
	OrderedAt     time.Time
	Status        string
	BuyerNickname string
	PaymentMethod string
	Shipping      commerce.ShippingInfo
	Items         []OrderSheetItem
	TotalAmount   decimal.Decimal
}

// OrderSheetItem is a single line on the order sheet
type OrderSheetItem struct {
	ProductName string
	UnitPrice   decimal.Decimal
	Quantity    int
	Subtotal    decimal.Decimal
}

// NewOrderSheetData builds sheet data from an order aggregate
func NewOrderSheetData(order *commerce.Order, buyerNickname string) *OrderSheetData {
	data := &OrderSheetData{
		OrderNumber:   order.OrderNumber,
		OrderedAt:     order.CreatedAt,
		Status:        order.Status.DisplayName(),
		BuyerNickname: buyerNickname,
		PaymentMethod: string(order.PaymentMethod),
		Shipping:      order.Shipping,
		TotalAmount:   order.TotalAmount,
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, OrderSheetItem{
			ProductName: item.ProductName,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    item.Subtotal,
		})
	}
	return data
}

// orderSheetTemplate renders the A4 order sheet. Amounts are formatted
// with Korean digit grouping by the krw template function.
const orderSheetTemplate = `<!DOCTYPE html>
<html lang="ko">
<head>
<meta charset="UTF-8">
<title>주문서 {{.OrderNumber}}</title>
<style>
  body { font-family: 'Noto Sans KR', 'Malgun Gothic', sans-serif; font-size: 12px; color: #222; }
  h1 { font-size: 20px; border-bottom: 2px solid #222; padding-bottom: 8px; }
  table { width: 100%; border-collapse: collapse; margin-top: 12px; }
  th, td { border: 1px solid #999; padding: 6px 8px; }
  th { background: #f2f2f2; text-align: left; }
  td.num { text-align: right; }
  .meta td { border: none; padding: 2px 4px; }
  .total { font-weight: bold; background: #fafafa; }
</style>
</head>
<body>
<h1>주문서</h1>
<table class="meta">
  <tr><td>주문번호</td><td>{{.OrderNumber}}</td></tr>
  <tr><td>주문일시</td><td>{{.OrderedAt.Format "2006-01-02 15:04"}}</td></tr>
  <tr><td>주문상태</td><td>{{.Status}}</td></tr>
  <tr><td>주문자</td><td>{{.BuyerNickname}}</td></tr>
  <tr><td>결제수단</td><td>{{.PaymentMethod}}</td></tr>
</table>
<h1>배송 정보</h1>
<table class="meta">
  <tr><td>수령인</td><td>{{.Shipping.Name}}</td></tr>
  <tr><td>연락처</td><td>{{.Shipping.Phone}}</td></tr>
  <tr><td>주소</td><td>{{.Shipping.Address}}</td></tr>
  {{if .Shipping.Memo}}<tr><td>배송메모</td><td>{{.Shipping.Memo}}</td></tr>{{end}}
</table>
<h1>주문 상품</h1>
<table>
  <tr><th>상품명</th><th>단가</th><th>수량</th><th>금액</th></tr>
  {{range .Items}}
  <tr>
    <td>{{.ProductName}}</td>
    <td class="num">{{krw .UnitPrice}}</td>
    <td class="num">{{.Quantity}}</td>
    <td class="num">{{krw .Subtotal}}</td>
  </tr>
  {{end}}
  <tr class="total"><td colspan="3">합계</td><td class="num">{{krw .TotalAmount}}</td></tr>
</table>
</body>
</html>`

// OrderSheetPrinter renders order sheets to PDF
type OrderSheetPrinter struct {
	renderer PDFRenderer
	tmpl     *template.Template
}

// NewOrderSheetPrinter creates a printer backed by the given renderer
func NewOrderSheetPrinter(renderer PDFRenderer) (*OrderSheetPrinter, error) {
	printer := message.NewPrinter(language.Korean)
	tmpl, err := template.New("ordersheet").Funcs(template.FuncMap{
		"krw": func(amount decimal.Decimal) string {
			return printer.Sprintf("%d원", amount.IntPart())
		},
	}).Parse(orderSheetTemplate)
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "failed to parse order sheet template", err)
	}
	return &OrderSheetPrinter{renderer: renderer, tmpl: tmpl}, nil
}

// BuildHTML renders the order sheet template to an HTML document
func (p *OrderSheetPrinter) BuildHTML(data *OrderSheetData) (string, error) {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute order sheet template", err)
	}
	return buf.String(), nil
}

// Print renders the order sheet to a PDF document
func (p *OrderSheetPrinter) Print(ctx context.Context, data *OrderSheetData) (*RenderResult, error) {
	html, err := p.BuildHTML(data)
	if err != nil {
		return nil, err
	}

	return p.renderer.Render(ctx, &RenderRequest{
		HTML:        html,
		PaperSize:   PaperSizeA4,
		Orientation: OrientationPortrait,
		Margins:     DefaultMargins(),
		Title:       "주문서 " + data.OrderNumber,
	})
}
