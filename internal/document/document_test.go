package document

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"motoparts/backend/internal/domain"
)

var issuedAt = time.Date(2026, 8, 28, 10, 30, 0, 0, time.Local)

func testRenderer() *Renderer {
	return NewRenderer("Motorepuestos STARCV", "Calle 45 #12-30, Bogotá")
}

func testItems() []domain.CartLineItem {
	return []domain.CartLineItem{
		{ProductID: "prod-001", Name: "Aceite Motul 5100 10W40", UnitPrice: decimal.NewFromInt(35000), Quantity: 2},
	}
}

func testTotals() domain.DocumentTotals {
	return domain.DocumentTotals{
		Subtotal: decimal.NewFromInt(70000),
		Tax:      decimal.NewFromInt(13300),
		Total:    decimal.NewFromInt(83300),
	}
}

func TestQuotationRender(t *testing.T) {
	doc, err := testRenderer().Quotation("cot-abc", issuedAt, "Cliente General", testItems(), testTotals())
	if err != nil {
		t.Fatalf("render quotation: %v", err)
	}

	if doc.Kind != domain.DocumentKindQuotation {
		t.Fatalf("expected quotation kind, got %s", doc.Kind)
	}
	for _, want := range []string{"COTIZACIÓN", "cot-abc", "Cliente General", "Aceite Motul 5100 10W40", "$83.300"} {
		if !strings.Contains(doc.PreviewText, want) {
			t.Fatalf("preview missing %q:\n%s", want, doc.PreviewText)
		}
	}
	if strings.Contains(doc.PreviewText, "ANULADA") {
		t.Fatalf("quotation must not carry a void watermark")
	}
	if !strings.Contains(doc.HTML, "Cotización") {
		t.Fatalf("html missing document title")
	}
	if doc.CSV != "" {
		t.Fatalf("quotations have no CSV form")
	}
}

func TestInvoiceRenderEscposJob(t *testing.T) {
	inv := domain.Invoice{
		ID:           "fact-abc",
		IssuedAt:     issuedAt,
		CustomerName: "Carlos Pérez",
		Items:        testItems(),
		Totals:       testTotals(),
		Status:       domain.InvoiceStatusCompleted,
	}

	doc, err := testRenderer().Invoice(inv)
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}

	raw, err := base64.StdEncoding.DecodeString(doc.EscposBase64)
	if err != nil {
		t.Fatalf("escpos payload is not valid base64: %v", err)
	}
	if raw[0] != 0x1b || raw[1] != 0x40 {
		t.Fatalf("escpos job must start with printer init, got % x", raw[:2])
	}
	tail := raw[len(raw)-4:]
	if tail[0] != 0x1d || tail[1] != 0x56 {
		t.Fatalf("escpos job must end with a cut command, got % x", tail)
	}
	if !strings.Contains(string(raw), "FACTURA DE VENTA") {
		t.Fatalf("escpos body missing document title")
	}
}

func TestVoidedInvoiceCarriesWatermark(t *testing.T) {
	inv := domain.Invoice{
		ID:           "fact-abc",
		IssuedAt:     issuedAt,
		CustomerName: "Carlos Pérez",
		Items:        testItems(),
		Totals:       testTotals(),
		Status:       domain.InvoiceStatusVoided,
	}

	doc, err := testRenderer().Invoice(inv)
	if err != nil {
		t.Fatalf("render invoice: %v", err)
	}
	if !strings.Contains(doc.PreviewText, "*** ANULADA ***") {
		t.Fatalf("preview missing watermark:\n%s", doc.PreviewText)
	}
	if !strings.Contains(doc.HTML, `class="watermark"`) {
		t.Fatalf("html missing watermark element")
	}
}

func TestDailyReportRenderIncludesCSV(t *testing.T) {
	report := domain.DailyReport{
		Date:     "2026-08-28",
		Invoices: 1,
		Lines: []domain.DailyReportLine{
			{
				InvoiceID:    "fact-abc",
				CustomerName: "Carlos Pérez",
				Subtotal:     decimal.NewFromInt(3000),
				Tax:          decimal.NewFromInt(570),
				Total:        decimal.NewFromInt(3570),
			},
		},
		Totals: domain.DocumentTotals{
			Subtotal: decimal.NewFromInt(3000),
			Tax:      decimal.NewFromInt(570),
			Total:    decimal.NewFromInt(3570),
		},
	}

	doc, err := testRenderer().DailyReport(report)
	if err != nil {
		t.Fatalf("render report: %v", err)
	}

	if !strings.Contains(doc.CSV, "invoice_id,customer_name,subtotal,tax,total") {
		t.Fatalf("csv missing header:\n%s", doc.CSV)
	}
	if !strings.Contains(doc.CSV, "fact-abc,Carlos Pérez,3000,570,3570") {
		t.Fatalf("csv missing invoice row:\n%s", doc.CSV)
	}
	if doc.FileName != "reporte-diario-2026-08-28.csv" {
		t.Fatalf("unexpected file name %s", doc.FileName)
	}
}

func TestFormatMoneyColombianStyle(t *testing.T) {
	cases := []struct {
		in   decimal.Decimal
		want string
	}{
		{decimal.NewFromInt(0), "$0"},
		{decimal.NewFromInt(950), "$950"},
		{decimal.NewFromInt(35000), "$35.000"},
		{decimal.NewFromInt(1250000), "$1.250.000"},
		{decimal.RequireFromString("1234.50"), "$1.234,50"},
		{decimal.NewFromInt(-35000), "-$35.000"},
	}
	for _, tc := range cases {
		if got := formatMoney(tc.in); got != tc.want {
			t.Fatalf("formatMoney(%s) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
