package cart

import (
	"sync"

	"motoparts/backend/internal/domain"
)

// Manager holds one in-progress cart per terminal session. Lines are
// product snapshots; the live catalog is only consulted by the caller to
// cap quantities, never referenced from here. Stock is not reserved while
// items sit in a cart.
type Manager struct {
	mu    sync.Mutex
	lines map[string][]domain.CartLineItem
}

func NewManager() *Manager {
	return &Manager{lines: make(map[string][]domain.CartLineItem)}
}

// AddItem inserts a line with quantity 1 for a product not yet in the cart
// (only if it has stock), or increments the existing line by 1 capped at
// the product's current stock. Adding at the cap is a no-op.
func (m *Manager) AddItem(terminalID string, product domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.lines[terminalID]
	for i, line := range lines {
		if line.ProductID != product.ID {
			continue
		}
		if line.Quantity < product.Stock {
			lines[i].Quantity++
		}
		return
	}

	if product.Stock < 1 {
		return
	}
	m.lines[terminalID] = append(lines, domain.CartLineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.UnitPrice,
		Quantity:  1,
	})
}

// SetQuantity sets a line's quantity, clamped to [1, maxStock]. The floor
// wins when stock has dropped to 0 under an existing line. Out-of-range
// requests are clamped, not rejected; an absent line is a no-op.
func (m *Manager) SetQuantity(terminalID string, productID string, quantity int, maxStock int) {
	if quantity > maxStock {
		quantity = maxStock
	}
	if quantity < 1 {
		quantity = 1
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.lines[terminalID]
	for i, line := range lines {
		if line.ProductID == productID {
			lines[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes a line; no error if absent.
func (m *Manager) RemoveItem(terminalID string, productID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.lines[terminalID]
	for i, line := range lines {
		if line.ProductID == productID {
			m.lines[terminalID] = append(lines[:i], lines[i+1:]...)
			return
		}
	}
}

// Clear empties the terminal's cart. Called after a successful sale
// finalization; quotations leave the cart alone.
func (m *Manager) Clear(terminalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.lines, terminalID)
}

// Lines returns a copy of the terminal's cart lines in insertion order.
func (m *Manager) Lines(terminalID string) []domain.CartLineItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.lines[terminalID]
	result := make([]domain.CartLineItem, len(lines))
	copy(result, lines)
	return result
}
