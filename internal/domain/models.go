package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductLocation string

const (
	LocationWarehouse ProductLocation = "warehouse"
	LocationShowroom  ProductLocation = "showroom"
)

func (l ProductLocation) Valid() bool {
	return l == LocationWarehouse || l == LocationShowroom
}

type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Stock     int             `json:"stock"`
	Location  ProductLocation `json:"location"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type ProductCreateRequest struct {
	Name      string          `json:"name"`
	Stock     int             `json:"stock"`
	Location  ProductLocation `json:"location"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type ProductUpdateRequest struct {
	Name      *string          `json:"name,omitempty"`
	Stock     *int             `json:"stock,omitempty"`
	Location  *ProductLocation `json:"location,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// CartLineItem is a snapshot of a product at the moment it was added to the
// cart. Later catalog edits never alter an open cart or an issued invoice.
type CartLineItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CartLineView joins a cart line with the product's live stock so the
// presentation layer can cap quantity inputs without holding a product
// reference of its own.
type CartLineView struct {
	CartLineItem
	MaxStock int `json:"max_stock"`
}

type CartView struct {
	TerminalID string         `json:"terminal_id"`
	Lines      []CartLineView `json:"lines"`
	Totals     DocumentTotals `json:"totals"`
}

type DocumentTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

type InvoiceStatus string

const (
	InvoiceStatusCompleted InvoiceStatus = "completed"
	InvoiceStatusVoided    InvoiceStatus = "voided"
)

// Invoice is a binding sale record. Items and totals are immutable after
// creation; only Status ever changes, and only completed -> voided.
type Invoice struct {
	ID           string         `json:"id"`
	IssuedAt     time.Time      `json:"issued_at"`
	CustomerName string         `json:"customer_name"`
	Items        []CartLineItem `json:"items"`
	Totals       DocumentTotals `json:"totals"`
	Status       InvoiceStatus  `json:"status"`
}

type CartAddItemRequest struct {
	TerminalID string `json:"terminal_id"`
	ProductID  string `json:"product_id"`
}

type CartQuantityRequest struct {
	TerminalID string `json:"terminal_id"`
	Quantity   int    `json:"quantity"`
}

type QuotationRequest struct {
	TerminalID   string `json:"terminal_id"`
	CustomerName string `json:"customer_name"`
}

type QuotationResponse struct {
	QuotationID string         `json:"quotation_id"`
	Totals      DocumentTotals `json:"totals"`
	Document    DocumentRender `json:"document"`
}

type SaleRequest struct {
	TerminalID   string `json:"terminal_id"`
	CustomerName string `json:"customer_name"`
}

type SaleResponse struct {
	Invoice  Invoice        `json:"invoice"`
	Document DocumentRender `json:"document"`
}

type VoidInvoiceResponse struct {
	InvoiceID string        `json:"invoice_id"`
	Status    InvoiceStatus `json:"status"`
	Changed   bool          `json:"changed"`
}

// DocumentRender carries every printable form of a document: a plain-text
// preview, raw ESC/POS bytes for receipt printers, and a standalone HTML
// page. CSV is only populated for the daily report.
type DocumentRender struct {
	Kind         string `json:"kind"`
	ReferenceID  string `json:"reference_id"`
	PreviewText  string `json:"preview_text"`
	EscposBase64 string `json:"escpos_base64"`
	HTML         string `json:"html"`
	CSV          string `json:"csv,omitempty"`
	FileName     string `json:"file_name"`
}

const (
	DocumentKindQuotation   = "quotation"
	DocumentKindInvoice     = "invoice"
	DocumentKindDailyReport = "daily_report"
)

type DailyReportLine struct {
	InvoiceID    string          `json:"invoice_id"`
	CustomerName string          `json:"customer_name"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Tax          decimal.Decimal `json:"tax"`
	Total        decimal.Decimal `json:"total"`
}

type DailyReport struct {
	Date     string            `json:"date"`
	Invoices int               `json:"invoices"`
	Lines    []DailyReportLine `json:"lines"`
	Totals   DocumentTotals    `json:"totals"`
}
