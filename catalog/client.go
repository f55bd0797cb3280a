package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aaravmahajanofficial/wholesale-cart-engine/config"
	appErrors "github.com/aaravmahajanofficial/wholesale-cart-engine/errors"
	"github.com/aaravmahajanofficial/wholesale-cart-engine/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Resolver fetches authoritative price, name and availability data for the
// locally held cart quantities.
type Resolver interface {
	Resolve(ctx context.Context, cart *models.Cart) ([]models.CartManufacturerDisplay, error)
}

type client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient builds the cart-resolution client. The HTTP timeout comes from
// config; the transport is traced.
func NewClient(cfg *config.Catalog) Resolver {
	return &client{
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL: cfg.BaseURL,
	}
}

// Resolve posts the flattened cart and merges the response into the display
// projection. The cart passed in is only read; failures reach the caller
// untouched by any partial merge.
func (c *client) Resolve(ctx context.Context, cart *models.Cart) ([]models.CartManufacturerDisplay, error) {
	request := BuildResolutionRequest(cart)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, appErrors.InternalError("Failed to marshal resolution request").WithError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cart/resolve", bytes.NewReader(payload))
	if err != nil {
		return nil, appErrors.InternalError("Failed to build resolution request").WithError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, appErrors.CatalogError("Cart resolution call failed").WithError(err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, appErrors.CatalogError("Cart resolution returned an error").
			WithDetail(fmt.Sprintf("unexpected status %d", httpResp.StatusCode))
	}

	var response models.ResolutionResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&response); err != nil {
		return nil, appErrors.CatalogError("Failed to decode resolution response").WithError(err)
	}

	return mergeDisplay(request, response), nil
}
