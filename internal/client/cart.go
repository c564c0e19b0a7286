package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/pkg/httpclient"
)

// CartClient performs cart item mutations against the cart service.
type CartClient struct {
	http    Doer
	baseURL string
}

// NewCartClient creates a cart service client.
func NewCartClient(doer Doer, baseURL string) *CartClient {
	return &CartClient{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type cartItemEnvelope struct {
	Data *domain.CartItem `json:"data"`
}

type cartEnvelope struct {
	Data *struct {
		Items []domain.CartItem `json:"items"`
	} `json:"data"`
}

// GetCart fetches the session's cart items.
func (c *CartClient) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	reqURL := c.baseURL + "/api/v1/cart"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create cart request: %w", err)
	}
	setSessionHeader(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("cart service: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "cart-service")
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope cartEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("cart response missing data")
	}

	return envelope.Data.Items, nil
}

// UpdateQuantity sets the absolute quantity of a cart item and returns the
// updated item as confirmed by the cart service.
func (c *CartClient) UpdateQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error) {
	body, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return nil, fmt.Errorf("marshal quantity update: %w", err)
	}

	reqURL := fmt.Sprintf("%s/api/v1/cart/items/%s", c.baseURL, itemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create cart update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setSessionHeader(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("cart service: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "cart-service")
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope cartItemEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode cart response: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("cart response missing data")
	}

	return envelope.Data, nil
}

// Remove deletes a cart item.
func (c *CartClient) Remove(ctx context.Context, itemID string) error {
	reqURL := fmt.Sprintf("%s/api/v1/cart/items/%s", c.baseURL, itemID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, reqURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create cart removal request: %w", err)
	}
	setSessionHeader(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("cart service: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return httpclient.ParseResponseError(resp, "cart-service")
	}
	_ = resp.Body.Close()

	return nil
}
