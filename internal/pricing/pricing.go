package pricing

import (
	"github.com/shopspring/decimal"

	"motoparts/backend/internal/domain"
)

// Calculate derives document totals for an ordered sequence of cart lines:
// subtotal is the sum of unitPrice*quantity, tax is subtotal*rate, total is
// subtotal+tax. Pure; an empty sequence yields all-zero totals.
func Calculate(rate decimal.Decimal, items []domain.CartLineItem) domain.DocumentTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	tax := subtotal.Mul(rate)
	return domain.DocumentTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// Aggregate sums subtotal/tax/total across completed invoices. Voided
// invoices are excluded; nothing is mutated.
func Aggregate(invoices []domain.Invoice) domain.DocumentTotals {
	totals := domain.DocumentTotals{
		Subtotal: decimal.Zero,
		Tax:      decimal.Zero,
		Total:    decimal.Zero,
	}
	for _, inv := range invoices {
		if inv.Status != domain.InvoiceStatusCompleted {
			continue
		}
		totals.Subtotal = totals.Subtotal.Add(inv.Totals.Subtotal)
		totals.Tax = totals.Tax.Add(inv.Totals.Tax)
		totals.Total = totals.Total.Add(inv.Totals.Total)
	}
	return totals
}
