package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"motoparts/backend/internal/domain"
	"motoparts/backend/internal/store"
)

func testInvoice(id string, issuedAt time.Time, items ...domain.CartLineItem) domain.Invoice {
	return domain.Invoice{
		ID:           id,
		IssuedAt:     issuedAt,
		CustomerName: "Carlos Pérez",
		Items:        items,
		Status:       domain.InvoiceStatusCompleted,
	}
}

func TestSeededCatalog(t *testing.T) {
	s := NewSeeded()

	products, err := s.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 6 {
		t.Fatalf("expected 6 seeded products, got %d", len(products))
	}
	if products[0].ID != "prod-001" {
		t.Fatalf("expected listing ordered by id, first was %s", products[0].ID)
	}
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	inv := testInvoice("fact-1", time.Now(),
		domain.CartLineItem{ProductID: "prod-001", Quantity: 3, UnitPrice: decimal.NewFromInt(35000)},
	)
	if _, err := s.RecordSale(ctx, inv); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	p, err := s.GetProductByID(ctx, "prod-001")
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if p.Stock != 12 {
		t.Fatalf("expected stock 15-3=12, got %d", p.Stock)
	}
}

func TestRecordSaleInsufficientStockLeavesCatalogUntouched(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	inv := testInvoice("fact-1", time.Now(),
		domain.CartLineItem{ProductID: "prod-001", Quantity: 1},
		domain.CartLineItem{ProductID: "prod-002", Quantity: 999},
	)
	_, err := s.RecordSale(ctx, inv)
	if !errors.Is(err, store.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	p, _ := s.GetProductByID(ctx, "prod-001")
	if p.Stock != 15 {
		t.Fatalf("failed sale must not touch stock, prod-001 stock %d", p.Stock)
	}
	if invoices, _ := s.ListInvoices(ctx); len(invoices) != 0 {
		t.Fatalf("failed sale must not be recorded")
	}
}

func TestRecordSaleSkipsMissingProduct(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	inv := testInvoice("fact-1", time.Now(),
		domain.CartLineItem{ProductID: "prod-404", Quantity: 2},
		domain.CartLineItem{ProductID: "prod-003", Quantity: 1},
	)
	if _, err := s.RecordSale(ctx, inv); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	p, _ := s.GetProductByID(ctx, "prod-003")
	if p.Stock != 24 {
		t.Fatalf("expected prod-003 stock 24, got %d", p.Stock)
	}
}

func TestVoidInvoiceRestoresStockOnce(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	inv := testInvoice("fact-1", time.Now(),
		domain.CartLineItem{ProductID: "prod-004", Quantity: 5},
	)
	if _, err := s.RecordSale(ctx, inv); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	voided, err := s.VoidInvoice(ctx, "fact-1")
	if err != nil {
		t.Fatalf("void invoice: %v", err)
	}
	if voided.Status != domain.InvoiceStatusVoided {
		t.Fatalf("expected voided status, got %s", voided.Status)
	}

	p, _ := s.GetProductByID(ctx, "prod-004")
	if p.Stock != 50 {
		t.Fatalf("expected stock restored to 50, got %d", p.Stock)
	}

	if _, err := s.VoidInvoice(ctx, "fact-1"); !errors.Is(err, store.ErrAlreadyVoided) {
		t.Fatalf("expected ErrAlreadyVoided on second void, got %v", err)
	}
	p, _ = s.GetProductByID(ctx, "prod-004")
	if p.Stock != 50 {
		t.Fatalf("second void must not restore stock again, got %d", p.Stock)
	}
}

func TestVoidPreservesItemsAndTotals(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	inv := testInvoice("fact-1", time.Now(),
		domain.CartLineItem{ProductID: "prod-001", Quantity: 2, UnitPrice: decimal.NewFromInt(35000)},
	)
	inv.Totals = domain.DocumentTotals{
		Subtotal: decimal.NewFromInt(70000),
		Tax:      decimal.NewFromInt(13300),
		Total:    decimal.NewFromInt(83300),
	}
	if _, err := s.RecordSale(ctx, inv); err != nil {
		t.Fatalf("record sale: %v", err)
	}

	voided, err := s.VoidInvoice(ctx, "fact-1")
	if err != nil {
		t.Fatalf("void invoice: %v", err)
	}
	if len(voided.Items) != 1 || voided.Items[0].Quantity != 2 {
		t.Fatalf("void must not alter items, got %+v", voided.Items)
	}
	if !voided.Totals.Total.Equal(decimal.NewFromInt(83300)) {
		t.Fatalf("void must not alter totals, got %s", voided.Totals.Total)
	}
}

func TestVoidUnknownInvoice(t *testing.T) {
	s := NewSeeded()

	if _, err := s.VoidInvoice(context.Background(), "fact-404"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListInvoicesNewestFirst(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.Local)

	for i, id := range []string{"fact-a", "fact-b", "fact-c"} {
		inv := testInvoice(id, base.Add(time.Duration(i)*time.Hour),
			domain.CartLineItem{ProductID: "prod-003", Quantity: 1},
		)
		if _, err := s.RecordSale(ctx, inv); err != nil {
			t.Fatalf("record sale %s: %v", id, err)
		}
	}

	invoices, err := s.ListInvoices(ctx)
	if err != nil {
		t.Fatalf("list invoices: %v", err)
	}
	if invoices[0].ID != "fact-c" || invoices[2].ID != "fact-a" {
		t.Fatalf("expected newest first, got %s, %s, %s", invoices[0].ID, invoices[1].ID, invoices[2].ID)
	}
}

func TestInvoicesOnFiltersByCalendarDay(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	today := time.Date(2026, 8, 28, 14, 0, 0, 0, time.Local)
	yesterday := today.AddDate(0, 0, -1)

	for _, inv := range []domain.Invoice{
		testInvoice("fact-today", today, domain.CartLineItem{ProductID: "prod-003", Quantity: 1}),
		testInvoice("fact-yesterday", yesterday, domain.CartLineItem{ProductID: "prod-003", Quantity: 1}),
	} {
		if _, err := s.RecordSale(ctx, inv); err != nil {
			t.Fatalf("record sale: %v", err)
		}
	}

	invoices, err := s.InvoicesOn(ctx, today)
	if err != nil {
		t.Fatalf("invoices on: %v", err)
	}
	if len(invoices) != 1 || invoices[0].ID != "fact-today" {
		t.Fatalf("expected only today's invoice, got %+v", invoices)
	}
}

func TestUpdateProductValidation(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	negative := -1
	if _, err := s.UpdateProduct(ctx, "prod-001", domain.ProductUpdateRequest{Stock: &negative}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for negative stock, got %v", err)
	}

	bad := domain.ProductLocation("garage")
	if _, err := s.UpdateProduct(ctx, "prod-001", domain.ProductUpdateRequest{Location: &bad}); !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad location, got %v", err)
	}

	stock := 30
	loc := domain.LocationWarehouse
	updated, err := s.UpdateProduct(ctx, "prod-001", domain.ProductUpdateRequest{Stock: &stock, Location: &loc})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Stock != 30 || updated.Location != domain.LocationWarehouse {
		t.Fatalf("unexpected updated product %+v", updated)
	}
}
