package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"motoparts/backend/internal/cache"
	"motoparts/backend/internal/cart"
	"motoparts/backend/internal/document"
	"motoparts/backend/internal/domain"
	"motoparts/backend/internal/pricing"
	"motoparts/backend/internal/store"
	"motoparts/backend/internal/xid"
)

// DefaultCustomerName is used on quotations when the caller leaves the
// customer field blank. Invoices always require a real name.
const DefaultCustomerName = "Cliente General"

type Service struct {
	repo     store.Repository
	carts    *cart.Manager
	renderer *document.Renderer
	docs     cache.DocumentCache
	docTTL   time.Duration
	vatRate  decimal.Decimal
	now      func() time.Time
}

func New(repo store.Repository, carts *cart.Manager, renderer *document.Renderer, docs cache.DocumentCache, docTTL time.Duration, vatRate decimal.Decimal) *Service {
	return &Service{
		repo:     repo,
		carts:    carts,
		renderer: renderer,
		docs:     docs,
		docTTL:   docTTL,
		vatRate:  vatRate,
		now:      time.Now,
	}
}

// ListProducts returns the catalog, optionally narrowed by a
// case-insensitive name search and/or a location.
func (s *Service) ListProducts(ctx context.Context, search string, location domain.ProductLocation) ([]domain.Product, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" && !location.Valid() {
		return products, nil
	}

	filtered := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if location.Valid() && p.Location != location {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

func (s *Service) CreateProduct(ctx context.Context, req domain.ProductCreateRequest) (*domain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: product name is required", store.ErrInvalidInput)
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("%w: stock cannot be negative", store.ErrInvalidInput)
	}
	if req.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit price cannot be negative", store.ErrInvalidInput)
	}
	if !req.Location.Valid() {
		return nil, fmt.Errorf("%w: location must be warehouse or showroom", store.ErrInvalidInput)
	}

	return s.repo.CreateProduct(ctx, domain.Product{
		ID:        xid.New("prod"),
		Name:      name,
		Stock:     req.Stock,
		Location:  req.Location,
		UnitPrice: req.UnitPrice,
	})
}

func (s *Service) UpdateProduct(ctx context.Context, id string, req domain.ProductUpdateRequest) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: product id is required", store.ErrInvalidInput)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: product name cannot be empty", store.ErrInvalidInput)
	}
	return s.repo.UpdateProduct(ctx, id, req)
}

// Cart joins the terminal's cart lines with live catalog stock so the
// caller can cap quantity edits, and prices the cart as it stands.
func (s *Service) Cart(ctx context.Context, terminalID string) (*domain.CartView, error) {
	if strings.TrimSpace(terminalID) == "" {
		return nil, fmt.Errorf("%w: terminal id is required", store.ErrInvalidInput)
	}

	lines := s.carts.Lines(terminalID)
	views := make([]domain.CartLineView, 0, len(lines))
	for _, line := range lines {
		view := domain.CartLineView{CartLineItem: line, MaxStock: line.Quantity}
		if p, err := s.repo.GetProductByID(ctx, line.ProductID); err == nil {
			view.MaxStock = p.Stock
		}
		views = append(views, view)
	}

	return &domain.CartView{
		TerminalID: terminalID,
		Lines:      views,
		Totals:     pricing.Calculate(s.vatRate, lines),
	}, nil
}

// AddCartItem adds one unit of the product to the terminal's cart,
// capped at current stock. An unknown product is ignored.
func (s *Service) AddCartItem(ctx context.Context, req domain.CartAddItemRequest) error {
	if strings.TrimSpace(req.TerminalID) == "" {
		return fmt.Errorf("%w: terminal id is required", store.ErrInvalidInput)
	}

	p, err := s.repo.GetProductByID(ctx, req.ProductID)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[service] WARN: add to cart ignored unknown product %s", req.ProductID)
		return nil
	}
	if err != nil {
		return err
	}

	s.carts.AddItem(req.TerminalID, *p)
	return nil
}

// SetCartQuantity sets a cart line's quantity, clamped to the range
// [1, current stock]. An unknown product or absent line is ignored.
func (s *Service) SetCartQuantity(ctx context.Context, terminalID, productID string, quantity int) error {
	if strings.TrimSpace(terminalID) == "" {
		return fmt.Errorf("%w: terminal id is required", store.ErrInvalidInput)
	}

	p, err := s.repo.GetProductByID(ctx, productID)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[service] WARN: quantity change ignored unknown product %s", productID)
		return nil
	}
	if err != nil {
		return err
	}

	s.carts.SetQuantity(terminalID, productID, quantity, p.Stock)
	return nil
}

func (s *Service) RemoveCartItem(ctx context.Context, terminalID, productID string) error {
	if strings.TrimSpace(terminalID) == "" {
		return fmt.Errorf("%w: terminal id is required", store.ErrInvalidInput)
	}
	s.carts.RemoveItem(terminalID, productID)
	return nil
}

func (s *Service) ClearCart(ctx context.Context, terminalID string) error {
	if strings.TrimSpace(terminalID) == "" {
		return fmt.Errorf("%w: terminal id is required", store.ErrInvalidInput)
	}
	s.carts.Clear(terminalID)
	return nil
}

// Quote prices the terminal's cart and renders a quotation document.
// Nothing changes: stock, the cart and the invoice ledger are untouched.
func (s *Service) Quote(ctx context.Context, req domain.QuotationRequest) (*domain.QuotationResponse, error) {
	lines := s.carts.Lines(req.TerminalID)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", store.ErrInvalidInput)
	}

	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		customer = DefaultCustomerName
	}

	// Quotations are one-shot and carry a fresh id, so there is no reprint
	// lookup to cache for.
	id := xid.New("cot")
	totals := pricing.Calculate(s.vatRate, lines)
	doc, err := s.renderer.Quotation(id, s.now(), customer, lines, totals)
	if err != nil {
		return nil, err
	}

	return &domain.QuotationResponse{QuotationID: id, Totals: totals, Document: *doc}, nil
}

// FinalizeSale turns the terminal's cart into a completed invoice:
// stock is decremented, the invoice is appended to the ledger, the cart
// is cleared, and the printable document is rendered.
func (s *Service) FinalizeSale(ctx context.Context, req domain.SaleRequest) (*domain.SaleResponse, error) {
	customer := strings.TrimSpace(req.CustomerName)
	if customer == "" {
		return nil, fmt.Errorf("%w: customer name is required to issue an invoice", store.ErrInvalidInput)
	}

	lines := s.carts.Lines(req.TerminalID)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: cart is empty", store.ErrInvalidInput)
	}

	invoice := domain.Invoice{
		ID:           xid.New("fact"),
		IssuedAt:     s.now(),
		CustomerName: customer,
		Items:        lines,
		Totals:       pricing.Calculate(s.vatRate, lines),
		Status:       domain.InvoiceStatusCompleted,
	}

	stored, err := s.repo.RecordSale(ctx, invoice)
	if err != nil {
		return nil, err
	}
	s.carts.Clear(req.TerminalID)

	doc, err := s.renderer.Invoice(*stored)
	if err != nil {
		return nil, err
	}
	s.cacheDocument(ctx, documentKey(domain.DocumentKindInvoice, stored.ID, string(stored.Status)), doc)

	return &domain.SaleResponse{Invoice: *stored, Document: *doc}, nil
}

// VoidInvoice cancels a completed invoice and restores the stock it
// consumed. Voiding an invoice that is already voided succeeds with
// Changed=false so retries stay harmless.
func (s *Service) VoidInvoice(ctx context.Context, id string) (*domain.VoidInvoiceResponse, error) {
	inv, err := s.repo.VoidInvoice(ctx, id)
	if errors.Is(err, store.ErrAlreadyVoided) {
		return &domain.VoidInvoiceResponse{InvoiceID: id, Status: domain.InvoiceStatusVoided, Changed: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.VoidInvoiceResponse{InvoiceID: inv.ID, Status: inv.Status, Changed: true}, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

// InvoiceDocument renders the printable forms of a stored invoice. The
// cache key includes the status so a reprint after a void never serves
// the un-watermarked render.
func (s *Service) InvoiceDocument(ctx context.Context, id string) (*domain.DocumentRender, error) {
	inv, err := s.repo.GetInvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := documentKey(domain.DocumentKindInvoice, inv.ID, string(inv.Status))
	if doc, ok := s.cachedDocument(ctx, key); ok {
		return doc, nil
	}

	doc, err := s.renderer.Invoice(*inv)
	if err != nil {
		return nil, err
	}
	s.cacheDocument(ctx, key, doc)
	return doc, nil
}

// DailyReport summarizes the completed invoices issued on the given
// day (format 2006-01-02). Voided invoices are listed nowhere and
// contribute nothing to the totals.
func (s *Service) DailyReport(ctx context.Context, date string) (*domain.DailyReport, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", store.ErrInvalidInput)
	}

	invoices, err := s.repo.InvoicesOn(ctx, day)
	if err != nil {
		return nil, err
	}

	report := &domain.DailyReport{Date: date, Totals: pricing.Aggregate(invoices)}
	for _, inv := range invoices {
		if inv.Status != domain.InvoiceStatusCompleted {
			continue
		}
		report.Invoices++
		report.Lines = append(report.Lines, domain.DailyReportLine{
			InvoiceID:    inv.ID,
			CustomerName: inv.CustomerName,
			Subtotal:     inv.Totals.Subtotal,
			Tax:          inv.Totals.Tax,
			Total:        inv.Totals.Total,
		})
	}
	return report, nil
}

func (s *Service) DailyReportDocument(ctx context.Context, date string) (*domain.DocumentRender, error) {
	report, err := s.DailyReport(ctx, date)
	if err != nil {
		return nil, err
	}
	return s.renderer.DailyReport(*report)
}

func documentKey(kind, id, status string) string {
	return fmt.Sprintf("doc:%s:%s:%s", kind, id, status)
}

func (s *Service) cachedDocument(ctx context.Context, key string) (*domain.DocumentRender, bool) {
	doc, ok, err := s.docs.Get(ctx, key)
	if err != nil {
		log.Printf("[service] WARN: document cache get failed for %s: %v", key, err)
		return nil, false
	}
	return doc, ok
}

func (s *Service) cacheDocument(ctx context.Context, key string, doc *domain.DocumentRender) {
	if err := s.docs.Set(ctx, key, doc, s.docTTL); err != nil {
		log.Printf("[service] WARN: document cache set failed for %s: %v", key, err)
	}
}
