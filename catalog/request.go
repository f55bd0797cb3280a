package catalog

import (
	"sort"

	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
)

// BuildResolutionRequest flattens the cart into the shape the backend's
// cart-resolution endpoint accepts. The transform is total: every stored line
// appears exactly once. Keys are sorted so the wire image is deterministic.
func BuildResolutionRequest(cart *models.Cart) models.ResolutionRequest {
	req := models.ResolutionRequest{}

	manufacturerIDs := make([]int64, 0, len(cart.Manufacturers))
	for id := range cart.Manufacturers {
		manufacturerIDs = append(manufacturerIDs, id)
	}
	sort.Slice(manufacturerIDs, func(i, j int) bool { return manufacturerIDs[i] < manufacturerIDs[j] })

	for _, manufacturerID := range manufacturerIDs {
		products := cart.Manufacturers[manufacturerID]

		productIDs := make([]string, 0, len(products))
		for id := range products {
			productIDs = append(productIDs, id)
		}
		sort.Strings(productIDs)

		block := models.ManufacturerRequest{ManufacturerID: manufacturerID}

		for _, productID := range productIDs {
			productReq := models.ProductRequest{ProductID: productID}

			for _, line := range products[productID] {
				productReq.Variations = append(productReq.Variations, models.VariationRequest{
					InventoryID: line.InventoryID,
					Quantity:    line.Quantity,
				})
			}

			block.Products = append(block.Products, productReq)
		}

		req.Manufacturers = append(req.Manufacturers, block)
	}

	return req
}
