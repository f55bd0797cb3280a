package models

import "github.com/shopspring/decimal"

// Resolution request: the cart flattened into the shape the backend's
// cart-resolution endpoint accepts. Every stored line appears exactly once.

type VariationRequest struct {
	InventoryID int64 `json:"inventory_id"`
	Quantity    int   `json:"quantity"`
}

type ProductRequest struct {
	ProductID  string             `json:"product_id"`
	Variations []VariationRequest `json:"variations"`
}

type ManufacturerRequest struct {
	ManufacturerID int64            `json:"manufacturer_id"`
	Products       []ProductRequest `json:"products"`
}

type ResolutionRequest struct {
	Manufacturers []ManufacturerRequest `json:"manufacturers"`
}

// Resolution response: authoritative display metadata per manufacturer,
// current prices per product and echoed quantity plus variant details per
// inventory.

type InventoryResponse struct {
	InventoryID int64  `json:"inventory_id"`
	Quantity    int    `json:"quantity"`
	Color       string `json:"color"`
	Size        string `json:"size"`
}

type ProductResponse struct {
	ProductID   string              `json:"product_id"`
	Name        string              `json:"name"`
	Image       string              `json:"image"`
	Price       decimal.Decimal     `json:"price"`
	SalePrice   decimal.Decimal     `json:"sale_price"`
	Inventories []InventoryResponse `json:"inventories"`
}

type ManufacturerResponse struct {
	ManufacturerID int64             `json:"manufacturer_id"`
	Name           string            `json:"name"`
	Logo           string            `json:"logo"`
	MinPurchase    decimal.Decimal   `json:"min_purchase"`
	Products       []ProductResponse `json:"products"`
}

type ResolutionResponse struct {
	Manufacturers []ManufacturerResponse `json:"manufacturers"`
}

// CartItemDisplay enriches a stored inventory line with catalog data. The
// quantity of record is the locally stored one; AvailableQuantity carries
// what the backend echoed so callers can detect partial stock. Unavailable
// marks lines the backend no longer resolves; they keep their place in the
// cart but contribute nothing to subtotals.
type CartItemDisplay struct {
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	ProductImage      string          `json:"product_image"`
	Price             decimal.Decimal `json:"price"`
	SalePrice         decimal.Decimal `json:"sale_price"`
	Color             string          `json:"color"`
	Size              string          `json:"size"`
	InventoryID       int64           `json:"inventory_id"`
	Quantity          int             `json:"quantity"`
	AvailableQuantity int             `json:"available_quantity"`
	Unavailable       bool            `json:"unavailable"`
}

// EffectivePrice is the sale price when present and positive, else the
// regular price. Unavailable lines price at zero.
func (i CartItemDisplay) EffectivePrice() decimal.Decimal {
	if i.Unavailable {
		return decimal.Zero
	}

	if i.SalePrice.IsPositive() {
		return i.SalePrice
	}

	return i.Price
}

// CartManufacturerDisplay groups the resolved cart view per manufacturer.
type CartManufacturerDisplay struct {
	ManufacturerID   int64             `json:"manufacturer_id"`
	ManufacturerName string            `json:"manufacturer_name"`
	ManufacturerLogo string            `json:"manufacturer_logo"`
	MinPurchase      decimal.Decimal   `json:"min_purchase"`
	Items            []CartItemDisplay `json:"items"`
	TotalItems       int               `json:"total_items"`
	Subtotal         decimal.Decimal   `json:"subtotal"`
}
