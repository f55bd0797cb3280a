package catalog

import (
	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
	"github.com/shopspring/decimal"
)

type resolvedInventory struct {
	product   models.ProductResponse
	inventory models.InventoryResponse
}

// mergeDisplay joins the request lines with the backend response into the
// display projection. The merge is total over the request: every requested
// line yields an item, either resolved or marked unavailable, so a
// discontinued variant never silently disappears from the view while it still
// sits in the cart. Response entries that match nothing requested are ignored.
//
// The displayed quantity is the locally stored one; the backend's echoed
// quantity is kept as AvailableQuantity so callers can see partial stock.
func mergeDisplay(req models.ResolutionRequest, resp models.ResolutionResponse) []models.CartManufacturerDisplay {
	manufacturers := make(map[int64]models.ManufacturerResponse, len(resp.Manufacturers))
	resolved := make(map[int64]map[string]map[int64]resolvedInventory)

	for _, m := range resp.Manufacturers {
		manufacturers[m.ManufacturerID] = m
		byProduct := make(map[string]map[int64]resolvedInventory)

		for _, p := range m.Products {
			byInventory := make(map[int64]resolvedInventory, len(p.Inventories))
			for _, inv := range p.Inventories {
				byInventory[inv.InventoryID] = resolvedInventory{product: p, inventory: inv}
			}
			byProduct[p.ProductID] = byInventory
		}

		resolved[m.ManufacturerID] = byProduct
	}

	displays := make([]models.CartManufacturerDisplay, 0, len(req.Manufacturers))

	for _, reqManufacturer := range req.Manufacturers {
		display := models.CartManufacturerDisplay{
			ManufacturerID: reqManufacturer.ManufacturerID,
			Subtotal:       decimal.Zero,
		}

		if meta, ok := manufacturers[reqManufacturer.ManufacturerID]; ok {
			display.ManufacturerName = meta.Name
			display.ManufacturerLogo = meta.Logo
			display.MinPurchase = meta.MinPurchase
		}

		for _, reqProduct := range reqManufacturer.Products {
			for _, variation := range reqProduct.Variations {
				item := buildItem(reqManufacturer.ManufacturerID, reqProduct.ProductID, variation, resolved)
				display.Items = append(display.Items, item)

				if item.Unavailable {
					continue
				}

				display.TotalItems += item.Quantity
				display.Subtotal = display.Subtotal.Add(item.EffectivePrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
		}

		displays = append(displays, display)
	}

	return displays
}

func buildItem(manufacturerID int64, productID string, variation models.VariationRequest, resolved map[int64]map[string]map[int64]resolvedInventory) models.CartItemDisplay {
	item := models.CartItemDisplay{
		ProductID:   productID,
		InventoryID: variation.InventoryID,
		Quantity:    variation.Quantity,
	}

	match, ok := resolved[manufacturerID][productID][variation.InventoryID]
	if !ok {
		item.Unavailable = true

		return item
	}

	item.ProductName = match.product.Name
	item.ProductImage = match.product.Image
	item.Price = match.product.Price
	item.SalePrice = match.product.SalePrice
	item.Color = match.inventory.Color
	item.Size = match.inventory.Size
	item.AvailableQuantity = match.inventory.Quantity

	return item
}
