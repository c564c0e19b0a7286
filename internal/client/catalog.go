// Package client implements HTTP clients for the remote catalog, cart and
// order services. Each client speaks the standard response envelope and maps
// downstream errors through the shared httpclient translation.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/pkg/httpclient"
	"github.com/shopmesh/storefront/pkg/logger"
)

// Doer executes HTTP requests. Both httpclient.Client and
// httpclient.CircuitBreakerClient satisfy it.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// setSessionHeader forwards the storefront session to downstream services so
// session-scoped resources (the cart in particular) resolve to the right
// owner.
func setSessionHeader(ctx context.Context, req *http.Request) {
	if sid := logger.SessionIDFromContext(ctx); sid != "" {
		req.Header.Set("X-Session-ID", sid)
	}
}

// CatalogClient fetches product pages from the catalog service.
type CatalogClient struct {
	http    Doer
	baseURL string
}

// NewCatalogClient creates a catalog service client.
func NewCatalogClient(doer Doer, baseURL string) *CatalogClient {
	return &CatalogClient{
		http:    doer,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type catalogPagePayload struct {
	Content    []domain.Product `json:"content"`
	TotalPages int              `json:"total_pages"`
}

type catalogEnvelope struct {
	Data *catalogPagePayload `json:"data"`
}

// Search fetches one catalog page matching the filter request. PageNumber is
// forwarded 0-based, exactly as the catalog service expects it.
func (c *CatalogClient) Search(ctx context.Context, req domain.FilterRequest) (*domain.CatalogPage, error) {
	q := url.Values{}
	q.Set("category", req.Category)
	if len(req.Colors) > 0 {
		q.Set("color", strings.Join(req.Colors, ","))
	}
	if len(req.Sizes) > 0 {
		q.Set("size", strings.Join(req.Sizes, ","))
	}
	q.Set("min_price", strconv.Itoa(req.MinPrice))
	q.Set("max_price", strconv.Itoa(req.MaxPrice))
	q.Set("min_discount", strconv.Itoa(req.MinDiscount))
	q.Set("sort", string(req.Sort))
	q.Set("page_number", strconv.Itoa(req.PageNumber))
	q.Set("page_size", strconv.Itoa(req.PageSize))
	if req.Stock != domain.StockAny {
		q.Set("stock", string(req.Stock))
	}

	reqURL := fmt.Sprintf("%s/api/v1/products?%s", c.baseURL, q.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create catalog request: %w", err)
	}
	setSessionHeader(ctx, httpReq)

	resp, err := c.http.Do(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("catalog service: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, "catalog-service")
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope catalogEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("catalog response missing data")
	}

	return &domain.CatalogPage{
		Items:      envelope.Data.Content,
		TotalPages: envelope.Data.TotalPages,
	}, nil
}
