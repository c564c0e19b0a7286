// Package cache provides a short-TTL Redis cache of catalog pages keyed by
// the canonical filter request. A miss or Redis failure is never fatal; the
// orchestrator falls through to the catalog service.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shopmesh/storefront/internal/domain"
)

const keyPrefix = "catalog:page:"

// CatalogCache stores fetched catalog pages in Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a Redis-backed catalog page cache.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{
		client: client,
		ttl:    ttl,
	}
}

// Get retrieves the cached page for the filter request, or (nil, nil) on a
// cache miss.
func (c *CatalogCache) Get(ctx context.Context, req domain.FilterRequest) (*domain.CatalogPage, error) {
	data, err := c.client.Get(ctx, Key(req)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get catalog page: %w", err)
	}

	var page domain.CatalogPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, fmt.Errorf("unmarshal catalog page: %w", err)
	}

	return &page, nil
}

// Set stores the page under the filter request's canonical key with the
// configured TTL. The page's request token is transient state and is not
// serialized.
func (c *CatalogCache) Set(ctx context.Context, req domain.FilterRequest, page *domain.CatalogPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return fmt.Errorf("marshal catalog page: %w", err)
	}

	if err := c.client.Set(ctx, Key(req), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set catalog page: %w", err)
	}

	return nil
}

// Key renders the canonical cache key for a filter request. Equal requests
// always map to the same key because url.Values encoding sorts keys.
func Key(req domain.FilterRequest) string {
	q := url.Values{}
	if len(req.Colors) > 0 {
		q.Set("color", strings.Join(req.Colors, ","))
	}
	if len(req.Sizes) > 0 {
		q.Set("size", strings.Join(req.Sizes, ","))
	}
	q.Set("price", fmt.Sprintf("%d-%d", req.MinPrice, req.MaxPrice))
	q.Set("discount", strconv.Itoa(req.MinDiscount))
	q.Set("sort", string(req.Sort))
	q.Set("page", strconv.Itoa(req.PageNumber))
	q.Set("page_size", strconv.Itoa(req.PageSize))
	if req.Stock != domain.StockAny {
		q.Set("stock", string(req.Stock))
	}
	return keyPrefix + req.Category + "?" + q.Encode()
}
