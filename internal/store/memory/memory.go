package memory

import (
	"context"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"motoparts/backend/internal/domain"
	"motoparts/backend/internal/store"
)

// Store is an in-memory implementation of store.Repository. All reads
// return clones so callers never alias internal state.
type Store struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	invoices []domain.Invoice
}

func New() *Store {
	return &Store{products: make(map[string]domain.Product)}
}

// NewSeeded returns a store preloaded with the shop's starting catalog.
func NewSeeded() *Store {
	s := New()
	for _, p := range seedProducts() {
		s.products[p.ID] = p
	}
	return s
}

func seedProducts() []domain.Product {
	return []domain.Product{
		{ID: "prod-001", Name: "Aceite Motul 5100 10W40", Stock: 15, Location: domain.LocationShowroom, UnitPrice: decimal.NewFromInt(35000)},
		{ID: "prod-002", Name: "Filtro de Aire K&N", Stock: 8, Location: domain.LocationShowroom, UnitPrice: decimal.NewFromInt(120000)},
		{ID: "prod-003", Name: "Pastillas de Freno EBC", Stock: 25, Location: domain.LocationWarehouse, UnitPrice: decimal.NewFromInt(85000)},
		{ID: "prod-004", Name: "Bujía NGK Iridium", Stock: 50, Location: domain.LocationWarehouse, UnitPrice: decimal.NewFromInt(45000)},
		{ID: "prod-005", Name: "Llanta Michelin Pilot Street 140/70-17", Stock: 12, Location: domain.LocationShowroom, UnitPrice: decimal.NewFromInt(320000)},
		{ID: "prod-006", Name: "Kit de Arrastre DID", Stock: 10, Location: domain.LocationWarehouse, UnitPrice: decimal.NewFromInt(250000)},
	}
}

func cloneProduct(p domain.Product) *domain.Product {
	clone := p
	return &clone
}

func cloneInvoice(inv domain.Invoice) *domain.Invoice {
	clone := inv
	clone.Items = make([]domain.CartLineItem, len(inv.Items))
	copy(clone.Items, inv.Items)
	return &clone
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		return strings.Compare(a.ID, b.ID)
	})
	return products, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if product.ID == "" {
		return nil, store.ErrInvalidInput
	}
	if _, exists := s.products[product.ID]; exists {
		return nil, store.ErrInvalidInput
	}
	s.products[product.ID] = product
	return cloneProduct(product), nil
}

func (s *Store) GetProductByID(ctx context.Context, id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, update domain.ProductUpdateRequest) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Stock != nil {
		if *update.Stock < 0 {
			return nil, store.ErrInvalidInput
		}
		p.Stock = *update.Stock
	}
	if update.Location != nil {
		if !update.Location.Valid() {
			return nil, store.ErrInvalidInput
		}
		p.Location = *update.Location
	}
	if update.UnitPrice != nil {
		if update.UnitPrice.IsNegative() {
			return nil, store.ErrInvalidInput
		}
		p.UnitPrice = *update.UnitPrice
	}
	s.products[id] = p
	return cloneProduct(p), nil
}

func (s *Store) RecordSale(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(invoice.Items) == 0 {
		return nil, store.ErrInvalidInput
	}

	// Validate every line before touching stock so a failed sale leaves
	// the catalog untouched.
	for _, item := range invoice.Items {
		p, ok := s.products[item.ProductID]
		if !ok {
			continue
		}
		if item.Quantity > p.Stock {
			return nil, store.ErrInsufficientStock
		}
	}

	for _, item := range invoice.Items {
		p, ok := s.products[item.ProductID]
		if !ok {
			log.Printf("[store] WARN: sale %s references missing product %s, skipping stock adjustment", invoice.ID, item.ProductID)
			continue
		}
		p.Stock -= item.Quantity
		s.products[item.ProductID] = p
	}

	stored := *cloneInvoice(invoice)
	s.invoices = append(s.invoices, stored)
	return cloneInvoice(stored), nil
}

func (s *Store) VoidInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, inv := range s.invoices {
		if inv.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, store.ErrNotFound
	}
	if s.invoices[idx].Status == domain.InvoiceStatusVoided {
		return nil, store.ErrAlreadyVoided
	}

	for _, item := range s.invoices[idx].Items {
		p, ok := s.products[item.ProductID]
		if !ok {
			log.Printf("[store] WARN: void %s references missing product %s, skipping stock restore", id, item.ProductID)
			continue
		}
		p.Stock += item.Quantity
		s.products[item.ProductID] = p
	}

	s.invoices[idx].Status = domain.InvoiceStatusVoided
	return cloneInvoice(s.invoices[idx]), nil
}

func (s *Store) GetInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, inv := range s.invoices {
		if inv.ID == id {
			return cloneInvoice(inv), nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	invoices := make([]domain.Invoice, 0, len(s.invoices))
	for _, inv := range s.invoices {
		invoices = append(invoices, *cloneInvoice(inv))
	}
	slices.SortFunc(invoices, func(a, b domain.Invoice) int {
		if c := b.IssuedAt.Compare(a.IssuedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	return invoices, nil
}

// InvoicesOn returns the invoices issued on the given local calendar day,
// newest first.
func (s *Store) InvoicesOn(ctx context.Context, day time.Time) ([]domain.Invoice, error) {
	invoices, err := s.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}
	y, m, d := day.Date()
	filtered := invoices[:0]
	for _, inv := range invoices {
		iy, im, id := inv.IssuedAt.Date()
		if iy == y && im == m && id == d {
			filtered = append(filtered, inv)
		}
	}
	return filtered, nil
}
