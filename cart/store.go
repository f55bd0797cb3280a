package cart

import (
	"time"

	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
)

// Store owns the normalized cart and guarantees its invariants under every
// mutation: no empty manufacturer or product branches, unique inventory ids
// per product, all quantities >= 1. Every operation is synchronous and does
// no I/O; persistence is the caller's concern.
type Store struct {
	cart *models.Cart
}

// NewStore wraps an existing cart, typically one hydrated from storage.
// A nil cart starts a fresh one.
func NewStore(c *models.Cart) *Store {
	if c == nil {
		c = models.NewCart()
	}

	if c.Manufacturers == nil {
		c.Manufacturers = make(map[int64]models.Products)
	}

	return &Store{cart: c}
}

// Cart exposes the underlying cart for persistence. Callers must not mutate
// the returned value directly.
func (s *Store) Cart() *models.Cart {
	return s.cart
}

// Clone returns a deep copy of the current cart.
func (s *Store) Clone() *models.Cart {
	return s.cart.Clone()
}

// AddItem creates missing branches and either increments the quantity of an
// existing line or appends a new one. The quantity is added on top of what
// the cart already holds, not overwritten.
func (s *Store) AddItem(req models.AddItemRequest) {
	products, ok := s.cart.Manufacturers[req.ManufacturerID]
	if !ok {
		products = make(models.Products)
		s.cart.Manufacturers[req.ManufacturerID] = products
	}

	lines := products[req.ProductID]
	for i := range lines {
		if lines[i].InventoryID == req.InventoryID {
			lines[i].Quantity += req.Quantity
			s.touch()

			return
		}
	}

	products[req.ProductID] = append(lines, models.InventoryLine{
		InventoryID: req.InventoryID,
		Quantity:    req.Quantity,
	})
	s.touch()
}

// UpdateItem sets the absolute quantity of an existing line. A quantity of
// zero or less deletes the line and cascades the cleanup. A positive quantity
// for a line that does not exist is a no-op: only AddItem creates lines.
func (s *Store) UpdateItem(req models.UpdateItemRequest) {
	if req.Quantity <= 0 {
		s.RemoveItem(models.RemoveItemRequest{
			ManufacturerID: req.ManufacturerID,
			ProductID:      req.ProductID,
			InventoryID:    req.InventoryID,
		})

		return
	}

	products, ok := s.cart.Manufacturers[req.ManufacturerID]
	if !ok {
		return
	}

	lines := products[req.ProductID]
	for i := range lines {
		if lines[i].InventoryID == req.InventoryID {
			lines[i].Quantity = req.Quantity
			s.touch()

			return
		}
	}
}

// RemoveItem deletes the matching line. Empty product and manufacturer
// branches are pruned so no empty subtree ever survives a mutation.
// Removing a line that is already gone leaves the store untouched.
func (s *Store) RemoveItem(req models.RemoveItemRequest) {
	products, ok := s.cart.Manufacturers[req.ManufacturerID]
	if !ok {
		return
	}

	lines, ok := products[req.ProductID]
	if !ok {
		return
	}

	for i := range lines {
		if lines[i].InventoryID != req.InventoryID {
			continue
		}

		lines = append(lines[:i], lines[i+1:]...)

		if len(lines) == 0 {
			delete(products, req.ProductID)
		} else {
			products[req.ProductID] = lines
		}

		if len(products) == 0 {
			delete(s.cart.Manufacturers, req.ManufacturerID)
		}

		s.touch()

		return
	}
}

// RemoveManufacturer drops the manufacturer's entire subtree in one step.
func (s *Store) RemoveManufacturer(manufacturerID int64) {
	if _, ok := s.cart.Manufacturers[manufacturerID]; !ok {
		return
	}

	delete(s.cart.Manufacturers, manufacturerID)
	s.touch()
}

// Clear resets the store to empty, keeping the cart id.
func (s *Store) Clear() {
	s.cart.Manufacturers = make(map[int64]models.Products)
	s.touch()
}

// IsEmpty reports whether the store holds no manufacturers.
func (s *Store) IsEmpty() bool {
	return len(s.cart.Manufacturers) == 0
}

// ItemQuantity returns the locally stored quantity for a variant, or zero
// when the line does not exist.
func (s *Store) ItemQuantity(manufacturerID int64, productID string, inventoryID int64) int {
	products, ok := s.cart.Manufacturers[manufacturerID]
	if !ok {
		return 0
	}

	for _, line := range products[productID] {
		if line.InventoryID == inventoryID {
			return line.Quantity
		}
	}

	return 0
}

// TotalItems sums every quantity in the store.
func (s *Store) TotalItems() int {
	total := 0

	for _, products := range s.cart.Manufacturers {
		for _, lines := range products {
			for _, line := range lines {
				total += line.Quantity
			}
		}
	}

	return total
}

// LastUpdated is the change signal dependent reconciliation keys off.
func (s *Store) LastUpdated() time.Time {
	return s.cart.LastUpdated
}

func (s *Store) touch() {
	s.cart.LastUpdated = time.Now().UTC()
}
