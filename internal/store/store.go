package store

import (
	"context"
	"errors"
	"time"

	"motoparts/backend/internal/domain"
)

var (
	ErrNotFound          = errors.New("store: not found")
	ErrInvalidInput      = errors.New("store: invalid input")
	ErrInsufficientStock = errors.New("store: insufficient stock")
	ErrAlreadyVoided     = errors.New("store: invoice already voided")
)

// Repository is the persistence boundary for the catalog and the invoice
// ledger. Implementations must be safe for concurrent use and must return
// copies so callers cannot mutate stored state.
type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, update domain.ProductUpdateRequest) (*domain.Product, error)

	// RecordSale appends the invoice and decrements stock for each line
	// atomically. Any line exceeding current stock fails the whole sale
	// with ErrInsufficientStock.
	RecordSale(ctx context.Context, invoice domain.Invoice) (*domain.Invoice, error)

	// VoidInvoice flips a completed invoice to voided and restores the
	// stock its lines consumed. Voiding an already-voided invoice returns
	// ErrAlreadyVoided; stock is never restored twice.
	VoidInvoice(ctx context.Context, id string) (*domain.Invoice, error)

	GetInvoiceByID(ctx context.Context, id string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)

	// InvoicesOn returns the invoices issued on the given local calendar
	// day, newest first, in every status.
	InvoicesOn(ctx context.Context, day time.Time) ([]domain.Invoice, error)
}
