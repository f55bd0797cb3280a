package catalog_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/wholesale-cart-engine/catalog"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/config"
	appErrors "github.com/aaravmahajanofficial/wholesale-cart-engine/errors"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// idle keep-alive connections owned by the shared transport
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func testCart(t *testing.T) *models.Cart {
	t.Helper()

	cart := models.NewCart()
	cart.Manufacturers[1] = models.Products{
		"p1": {
			{InventoryID: 10, Quantity: 2},
			{InventoryID: 11, Quantity: 1},
		},
		"p2": {
			{InventoryID: 20, Quantity: 3},
		},
	}
	cart.Manufacturers[2] = models.Products{
		"p3": {
			{InventoryID: 30, Quantity: 1},
		},
	}

	return cart
}

func TestBuildResolutionRequest(t *testing.T) {
	t.Run("Flattening Is Total", func(t *testing.T) {
		// Arrange
		cart := testCart(t)

		// Act
		req := catalog.BuildResolutionRequest(cart)

		// Assert: every stored line appears exactly once
		seen := make(map[[2]int64]int)
		total := 0

		for _, m := range req.Manufacturers {
			for _, p := range m.Products {
				for _, v := range p.Variations {
					seen[[2]int64{m.ManufacturerID, v.InventoryID}]++
					total++
				}
			}
		}

		assert.Equal(t, 4, total)
		assert.Equal(t, 1, seen[[2]int64{1, 10}])
		assert.Equal(t, 1, seen[[2]int64{1, 11}])
		assert.Equal(t, 1, seen[[2]int64{1, 20}])
		assert.Equal(t, 1, seen[[2]int64{2, 30}])
	})

	t.Run("Output Is Deterministic", func(t *testing.T) {
		// Arrange
		cart := testCart(t)

		// Act
		first := catalog.BuildResolutionRequest(cart)
		second := catalog.BuildResolutionRequest(cart)

		// Assert
		assert.Empty(t, cmp.Diff(first, second))
		require.Len(t, first.Manufacturers, 2)
		assert.Equal(t, int64(1), first.Manufacturers[0].ManufacturerID)
		assert.Equal(t, int64(2), first.Manufacturers[1].ManufacturerID)
	})

	t.Run("Empty Cart Flattens To Nothing", func(t *testing.T) {
		req := catalog.BuildResolutionRequest(models.NewCart())
		assert.Empty(t, req.Manufacturers)
	})
}

func resolutionHandler(t *testing.T, resp models.ResolutionResponse) http.HandlerFunc {
	t.Helper()

	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/cart/resolve", r.URL.Path)

		var req models.ResolutionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}
}

func newResolver(t *testing.T, handler http.Handler) catalog.Resolver {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return catalog.NewClient(&config.Catalog{BaseURL: server.URL, Timeout: 5 * time.Second})
}

func TestResolve(t *testing.T) {
	productName := gofakeit.ProductName()
	manufacturerName := gofakeit.Company()

	response := models.ResolutionResponse{
		Manufacturers: []models.ManufacturerResponse{
			{
				ManufacturerID: 1,
				Name:           manufacturerName,
				Logo:           "logo.png",
				MinPurchase:    decimal.NewFromInt(500),
				Products: []models.ProductResponse{
					{
						ProductID: "p1",
						Name:      productName,
						Image:     "p1.jpg",
						Price:     decimal.NewFromInt(100),
						SalePrice: decimal.NewFromInt(80),
						Inventories: []models.InventoryResponse{
							{InventoryID: 10, Quantity: 2, Color: "red", Size: "M"},
							{InventoryID: 11, Quantity: 1, Color: "red", Size: "L"},
						},
					},
					{
						ProductID: "p2",
						Name:      gofakeit.ProductName(),
						Price:     decimal.NewFromInt(50),
						Inventories: []models.InventoryResponse{
							{InventoryID: 20, Quantity: 3, Color: "blue", Size: "S"},
						},
					},
				},
			},
		},
	}

	t.Run("Success - Merged Projection", func(t *testing.T) {
		// Arrange
		cart := testCart(t)
		resolver := newResolver(t, resolutionHandler(t, response))

		// Act
		displays, err := resolver.Resolve(t.Context(), cart)

		// Assert
		require.NoError(t, err)
		require.Len(t, displays, 2)

		first := displays[0]
		assert.Equal(t, int64(1), first.ManufacturerID)
		assert.Equal(t, manufacturerName, first.ManufacturerName)
		require.Len(t, first.Items, 3)

		// sale price 80 preferred over price 100 for p1: 80*2 + 80*1 + 50*3 = 390
		assert.True(t, decimal.NewFromInt(390).Equal(first.Subtotal), "subtotal was %s", first.Subtotal)
		assert.Equal(t, 6, first.TotalItems)

		item := first.Items[0]
		assert.Equal(t, productName, item.ProductName)
		assert.Equal(t, "red", item.Color)
		assert.Equal(t, "M", item.Size)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, 2, item.AvailableQuantity)
		assert.False(t, item.Unavailable)
	})

	t.Run("Unresolved Lines Are Marked Unavailable", func(t *testing.T) {
		// Arrange: manufacturer 2 is absent from the response entirely
		cart := testCart(t)
		resolver := newResolver(t, resolutionHandler(t, response))

		// Act
		displays, err := resolver.Resolve(t.Context(), cart)

		// Assert
		require.NoError(t, err)

		second := displays[1]
		assert.Equal(t, int64(2), second.ManufacturerID)
		assert.Empty(t, second.ManufacturerName)
		require.Len(t, second.Items, 1)
		assert.True(t, second.Items[0].Unavailable)
		assert.Equal(t, 0, second.TotalItems)
		assert.True(t, second.Subtotal.IsZero())
	})

	t.Run("Local Quantity Is The Displayed Quantity", func(t *testing.T) {
		// Arrange: backend echoes a lower quantity than stored
		cart := models.NewCart()
		cart.Manufacturers[1] = models.Products{"p1": {{InventoryID: 10, Quantity: 5}}}

		short := models.ResolutionResponse{
			Manufacturers: []models.ManufacturerResponse{
				{
					ManufacturerID: 1,
					Name:           manufacturerName,
					Products: []models.ProductResponse{
						{
							ProductID:   "p1",
							Price:       decimal.NewFromInt(100),
							Inventories: []models.InventoryResponse{{InventoryID: 10, Quantity: 2}},
						},
					},
				},
			},
		}
		resolver := newResolver(t, resolutionHandler(t, short))

		// Act
		displays, err := resolver.Resolve(t.Context(), cart)

		// Assert
		require.NoError(t, err)
		require.Len(t, displays, 1)
		require.Len(t, displays[0].Items, 1)
		assert.Equal(t, 5, displays[0].Items[0].Quantity)
		assert.Equal(t, 2, displays[0].Items[0].AvailableQuantity)
		assert.True(t, decimal.NewFromInt(500).Equal(displays[0].Subtotal))
	})

	t.Run("Never Mutates The Cart", func(t *testing.T) {
		// Arrange
		cart := testCart(t)
		snapshot := cart.Clone()
		resolver := newResolver(t, resolutionHandler(t, response))

		// Act
		_, err := resolver.Resolve(t.Context(), cart)

		// Assert
		require.NoError(t, err)
		assert.Empty(t, cmp.Diff(snapshot, cart))
	})

	t.Run("Failure - Server Error", func(t *testing.T) {
		// Arrange
		resolver := newResolver(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))

		// Act
		displays, err := resolver.Resolve(t.Context(), testCart(t))

		// Assert
		require.Error(t, err)
		assert.Nil(t, displays)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeCatalog, appErr.Code)
	})

	t.Run("Failure - Malformed Response Body", func(t *testing.T) {
		// Arrange
		resolver := newResolver(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Write([]byte("not json"))
		}))

		// Act
		_, err := resolver.Resolve(t.Context(), testCart(t))

		// Assert
		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeCatalog, appErr.Code)
	})

	t.Run("Failure - Unreachable Backend", func(t *testing.T) {
		// Arrange
		resolver := catalog.NewClient(&config.Catalog{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})

		// Act
		_, err := resolver.Resolve(t.Context(), testCart(t))

		// Assert
		require.Error(t, err)

		appErr, ok := appErrors.IsAppError(err)
		require.True(t, ok)
		assert.Equal(t, appErrors.ErrCodeCatalog, appErr.Code)
	})
}
