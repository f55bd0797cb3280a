package models

import (
	"time"

	"github.com/google/uuid"
)

// InventoryLine is a single purchasable variant (a color/size combination)
// held in the cart. Quantity is always >= 1; a line that would reach zero is
// deleted instead of stored.
type InventoryLine struct {
	InventoryID int64 `json:"inventory_id"`
	Quantity    int   `json:"quantity"`
}

// Products maps a product id to its inventory lines, in append order.
type Products map[string][]InventoryLine

// Cart is the normalized, persisted source of truth: quantities keyed by
// manufacturer -> product -> inventory variant. No prices, names or images
// live here, only identity and quantity.
type Cart struct {
	ID            uuid.UUID          `json:"id"`
	Manufacturers map[int64]Products `json:"manufacturers"`
	LastUpdated   time.Time          `json:"last_updated"`
}

// NewCart returns an empty cart with a fresh id.
func NewCart() *Cart {
	return &Cart{
		ID:            uuid.New(),
		Manufacturers: make(map[int64]Products),
		LastUpdated:   time.Now().UTC(),
	}
}

// Clone returns a deep copy, so an in-flight reconciliation never aliases
// the live store.
func (c *Cart) Clone() *Cart {
	clone := &Cart{
		ID:            c.ID,
		Manufacturers: make(map[int64]Products, len(c.Manufacturers)),
		LastUpdated:   c.LastUpdated,
	}

	for manufacturerID, products := range c.Manufacturers {
		copied := make(Products, len(products))
		for productID, lines := range products {
			copied[productID] = append([]InventoryLine(nil), lines...)
		}
		clone.Manufacturers[manufacturerID] = copied
	}

	return clone
}

// AddItemRequest identifies a variant and the quantity to add on top of
// whatever the cart already holds for it.
type AddItemRequest struct {
	ManufacturerID int64  `json:"manufacturer_id" validate:"required,min=1"`
	ProductID      string `json:"product_id"      validate:"required"`
	InventoryID    int64  `json:"inventory_id"    validate:"required,min=1"`
	Quantity       int    `json:"quantity"        validate:"required,min=1"`
}

// UpdateItemRequest sets an absolute quantity; zero removes the line.
type UpdateItemRequest struct {
	ManufacturerID int64  `json:"manufacturer_id" validate:"required,min=1"`
	ProductID      string `json:"product_id"      validate:"required"`
	InventoryID    int64  `json:"inventory_id"    validate:"required,min=1"`
	Quantity       int    `json:"quantity"        validate:"min=0"`
}

// RemoveItemRequest identifies a single line to delete.
type RemoveItemRequest struct {
	ManufacturerID int64  `json:"manufacturer_id" validate:"required,min=1"`
	ProductID      string `json:"product_id"      validate:"required"`
	InventoryID    int64  `json:"inventory_id"    validate:"required,min=1"`
}
