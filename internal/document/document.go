package document

import (
	"bytes"
	"encoding/base64"
	"encoding/csv"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"motoparts/backend/internal/domain"
)

const receiptWidth = 32

// Renderer produces the printable forms of quotations, invoices and daily
// reports: a plain-text preview, ESC/POS bytes for thermal receipt
// printers, an HTML page, and CSV for the daily report.
type Renderer struct {
	storeName    string
	storeAddress string
}

func NewRenderer(storeName, storeAddress string) *Renderer {
	return &Renderer{storeName: storeName, storeAddress: storeAddress}
}

func (r *Renderer) Quotation(id string, issuedAt time.Time, customerName string, items []domain.CartLineItem, totals domain.DocumentTotals) (*domain.DocumentRender, error) {
	preview := r.receiptText("COTIZACIÓN", id, issuedAt, customerName, items, totals, false)
	html, err := r.documentHTML("Cotización", id, issuedAt, customerName, items, totals, false)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentRender{
		Kind:         domain.DocumentKindQuotation,
		ReferenceID:  id,
		PreviewText:  preview,
		EscposBase64: escposBase64(preview),
		HTML:         html,
		FileName:     fmt.Sprintf("cotizacion-%s.html", id),
	}, nil
}

func (r *Renderer) Invoice(inv domain.Invoice) (*domain.DocumentRender, error) {
	voided := inv.Status == domain.InvoiceStatusVoided
	preview := r.receiptText("FACTURA DE VENTA", inv.ID, inv.IssuedAt, inv.CustomerName, inv.Items, inv.Totals, voided)
	html, err := r.documentHTML("Factura de Venta", inv.ID, inv.IssuedAt, inv.CustomerName, inv.Items, inv.Totals, voided)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentRender{
		Kind:         domain.DocumentKindInvoice,
		ReferenceID:  inv.ID,
		PreviewText:  preview,
		EscposBase64: escposBase64(preview),
		HTML:         html,
		FileName:     fmt.Sprintf("factura-%s.html", inv.ID),
	}, nil
}

func (r *Renderer) DailyReport(report domain.DailyReport) (*domain.DocumentRender, error) {
	preview := r.reportText(report)
	html, err := r.reportHTML(report)
	if err != nil {
		return nil, err
	}
	csvText, err := reportCSV(report)
	if err != nil {
		return nil, err
	}
	return &domain.DocumentRender{
		Kind:         domain.DocumentKindDailyReport,
		ReferenceID:  report.Date,
		PreviewText:  preview,
		EscposBase64: escposBase64(preview),
		HTML:         html,
		CSV:          csvText,
		FileName:     fmt.Sprintf("reporte-diario-%s.csv", report.Date),
	}, nil
}

func (r *Renderer) receiptText(title, id string, issuedAt time.Time, customerName string, items []domain.CartLineItem, totals domain.DocumentTotals, voided bool) string {
	var b strings.Builder

	writeCentered(&b, r.storeName)
	writeCentered(&b, r.storeAddress)
	writeRule(&b)
	writeCentered(&b, title)
	if voided {
		writeCentered(&b, "*** ANULADA ***")
	}
	fmt.Fprintf(&b, "No: %s\n", id)
	fmt.Fprintf(&b, "Fecha: %s\n", issuedAt.Format("2006-01-02 15:04"))
	fmt.Fprintf(&b, "Cliente: %s\n", customerName)
	writeRule(&b)
	for _, item := range items {
		fmt.Fprintf(&b, "%s\n", item.Name)
		line := fmt.Sprintf("%d x %s", item.Quantity, formatMoney(item.UnitPrice))
		lineTotal := formatMoney(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
		writeJustified(&b, line, lineTotal)
	}
	writeRule(&b)
	writeJustified(&b, "Subtotal", formatMoney(totals.Subtotal))
	writeJustified(&b, "IVA", formatMoney(totals.Tax))
	writeJustified(&b, "TOTAL", formatMoney(totals.Total))
	writeRule(&b)
	writeCentered(&b, "Gracias por su compra")
	return b.String()
}

func (r *Renderer) reportText(report domain.DailyReport) string {
	var b strings.Builder

	writeCentered(&b, r.storeName)
	writeCentered(&b, "REPORTE DIARIO DE VENTAS")
	fmt.Fprintf(&b, "Fecha: %s\n", report.Date)
	fmt.Fprintf(&b, "Facturas: %d\n", report.Invoices)
	writeRule(&b)
	for _, line := range report.Lines {
		fmt.Fprintf(&b, "%s\n", line.InvoiceID)
		writeJustified(&b, line.CustomerName, formatMoney(line.Total))
	}
	writeRule(&b)
	writeJustified(&b, "Subtotal", formatMoney(report.Totals.Subtotal))
	writeJustified(&b, "IVA", formatMoney(report.Totals.Tax))
	writeJustified(&b, "TOTAL", formatMoney(report.Totals.Total))
	return b.String()
}

// escposBase64 wraps the text preview in an ESC/POS job: printer init,
// body, feed and full cut.
func escposBase64(preview string) string {
	var buf bytes.Buffer
	buf.Write([]byte{0x1b, 0x40}) // initialize
	buf.WriteString(preview)
	buf.WriteString("\n\n\n")
	buf.Write([]byte{0x1d, 0x56, 0x41, 0x10}) // feed and cut
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func writeCentered(b *strings.Builder, text string) {
	runes := []rune(text)
	if len(runes) >= receiptWidth {
		b.WriteString(text)
		b.WriteByte('\n')
		return
	}
	pad := (receiptWidth - len(runes)) / 2
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(text)
	b.WriteByte('\n')
}

func writeJustified(b *strings.Builder, left, right string) {
	gap := receiptWidth - len([]rune(left)) - len([]rune(right))
	if gap < 1 {
		gap = 1
	}
	b.WriteString(left)
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(right)
	b.WriteByte('\n')
}

func writeRule(b *strings.Builder) {
	b.WriteString(strings.Repeat("-", receiptWidth))
	b.WriteByte('\n')
}

// formatMoney renders an amount in Colombian peso style: dot-grouped
// thousands, comma decimals, whole amounts without a fraction.
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")

	var groups []string
	for len(intPart) > 3 {
		groups = append([]string{intPart[len(intPart)-3:]}, groups...)
		intPart = intPart[:len(intPart)-3]
	}
	groups = append([]string{intPart}, groups...)

	out := "$" + strings.Join(groups, ".")
	if fracPart != "00" {
		out += "," + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

var documentTmpl = template.Must(template.New("document").Funcs(template.FuncMap{
	"money": formatMoney,
	"lineTotal": func(item domain.CartLineItem) decimal.Decimal {
		return item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	},
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.ID}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 2rem; color: #1a1a1a; position: relative; }
h1 { font-size: 1.3rem; margin-bottom: 0; }
.meta { color: #555; margin-bottom: 1.5rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
td.num, th.num { text-align: right; }
tfoot td { font-weight: bold; border-bottom: none; }
.watermark { position: absolute; top: 35%; left: 15%; font-size: 5rem; color: rgba(200, 30, 30, 0.25); transform: rotate(-25deg); letter-spacing: 0.5rem; }
</style>
</head>
<body>
{{if .Voided}}<div class="watermark">ANULADA</div>{{end}}
<h1>{{.StoreName}}</h1>
<div class="meta">{{.StoreAddress}}</div>
<h2>{{.Title}} {{.ID}}</h2>
<div class="meta">Fecha: {{.IssuedAt}} &middot; Cliente: {{.CustomerName}}</div>
<table>
<thead>
<tr><th>Producto</th><th class="num">Cant.</th><th class="num">Precio</th><th class="num">Total</th></tr>
</thead>
<tbody>
{{range .Items}}<tr><td>{{.Name}}</td><td class="num">{{.Quantity}}</td><td class="num">{{money .UnitPrice}}</td><td class="num">{{money (lineTotal .)}}</td></tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="3">Subtotal</td><td class="num">{{money .Totals.Subtotal}}</td></tr>
<tr><td colspan="3">IVA</td><td class="num">{{money .Totals.Tax}}</td></tr>
<tr><td colspan="3">TOTAL</td><td class="num">{{money .Totals.Total}}</td></tr>
</tfoot>
</table>
</body>
</html>
`))

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": formatMoney,
}).Parse(`<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>Reporte Diario {{.Report.Date}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 2rem; color: #1a1a1a; }
h1 { font-size: 1.3rem; margin-bottom: 0; }
.meta { color: #555; margin-bottom: 1.5rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #ddd; }
td.num, th.num { text-align: right; }
tfoot td { font-weight: bold; border-bottom: none; }
</style>
</head>
<body>
<h1>{{.StoreName}}</h1>
<div class="meta">Reporte Diario de Ventas &middot; {{.Report.Date}} &middot; {{.Report.Invoices}} facturas</div>
<table>
<thead>
<tr><th>Factura</th><th>Cliente</th><th class="num">Subtotal</th><th class="num">IVA</th><th class="num">Total</th></tr>
</thead>
<tbody>
{{range .Report.Lines}}<tr><td>{{.InvoiceID}}</td><td>{{.CustomerName}}</td><td class="num">{{money .Subtotal}}</td><td class="num">{{money .Tax}}</td><td class="num">{{money .Total}}</td></tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="2">TOTAL</td><td class="num">{{money .Report.Totals.Subtotal}}</td><td class="num">{{money .Report.Totals.Tax}}</td><td class="num">{{money .Report.Totals.Total}}</td></tr>
</tfoot>
</table>
</body>
</html>
`))

type documentData struct {
	StoreName    string
	StoreAddress string
	Title        string
	ID           string
	IssuedAt     string
	CustomerName string
	Items        []domain.CartLineItem
	Totals       domain.DocumentTotals
	Voided       bool
}

func (r *Renderer) documentHTML(title, id string, issuedAt time.Time, customerName string, items []domain.CartLineItem, totals domain.DocumentTotals, voided bool) (string, error) {
	var buf bytes.Buffer
	err := documentTmpl.Execute(&buf, documentData{
		StoreName:    r.storeName,
		StoreAddress: r.storeAddress,
		Title:        title,
		ID:           id,
		IssuedAt:     issuedAt.Format("2006-01-02 15:04"),
		CustomerName: customerName,
		Items:        items,
		Totals:       totals,
		Voided:       voided,
	})
	if err != nil {
		return "", fmt.Errorf("render document html: %w", err)
	}
	return buf.String(), nil
}

func (r *Renderer) reportHTML(report domain.DailyReport) (string, error) {
	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, struct {
		StoreName string
		Report    domain.DailyReport
	}{StoreName: r.storeName, Report: report})
	if err != nil {
		return "", fmt.Errorf("render report html: %w", err)
	}
	return buf.String(), nil
}

func reportCSV(report domain.DailyReport) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{{"invoice_id", "customer_name", "subtotal", "tax", "total"}}
	for _, line := range report.Lines {
		rows = append(rows, []string{
			line.InvoiceID,
			line.CustomerName,
			line.Subtotal.String(),
			line.Tax.String(),
			line.Total.String(),
		})
	}
	rows = append(rows, []string{"TOTAL", "", report.Totals.Subtotal.String(), report.Totals.Tax.String(), report.Totals.Total.String()})

	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("render report csv: %w", err)
	}
	return buf.String(), nil
}
