package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/pkg/httpclient"
)

// OrderClient fetches materialized orders from the order service.
type OrderClient struct {
	http    Doer
	baseURL string
}

// NewOrderClient creates an order service client.
func NewOrderClient(doer Doer, baseURL string) *OrderClient {
	return &OrderClient{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type orderEnvelope struct {
	Data *domain.Order `json:"data"`
}

// GetOrder fetches the full order (address, line items, totals) by ID.
func (c *OrderClient) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	reqURL := fmt.Sprintf("%s/api/v1/orders/%s", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create order request: %w", err)
	}
	setSessionHeader(ctx, req)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("order service: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "order-service")
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope orderEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("order response missing data")
	}

	return envelope.Data, nil
}
