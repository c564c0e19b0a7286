// Package query translates between URL query strings and structured catalog
// filter requests. Decoding is total: malformed values fall back to defaults
// instead of failing, so a hand-edited URL can never break the catalog view.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/pkg/slug"
)

// Query parameter keys understood by the codec.
const (
	ParamColor    = "color"
	ParamSize     = "size"
	ParamPrice    = "price"
	ParamDiscount = "discount"
	ParamSort     = "sort"
	ParamPage     = "page"
	ParamStock    = "stock"
	ParamOrderID  = "order_id"
)

// Codec decodes URL queries into filter requests and encodes filter state
// back into canonical query strings.
type Codec struct {
	pageSize int
}

// NewCodec creates a codec producing filter requests with the given page size.
// A non-positive page size falls back to the default.
func NewCodec(pageSize int) *Codec {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &Codec{pageSize: pageSize}
}

// Decode parses a category path segment and URL query values into a
// FilterRequest. The page parameter is 1-based in the URL and converted to
// the 0-based PageNumber used internally.
func (c *Codec) Decode(category string, values url.Values) domain.FilterRequest {
	minPrice, maxPrice := decodePriceRange(values.Get(ParamPrice))

	req := domain.FilterRequest{
		Category:    slug.Normalize(category),
		Colors:      splitList(values.Get(ParamColor)),
		Sizes:       splitList(values.Get(ParamSize)),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		MinDiscount: decodeDiscount(values.Get(ParamDiscount)),
		Sort:        decodeSort(values.Get(ParamSort)),
		PageNumber:  decodePage(values.Get(ParamPage)),
		PageSize:    c.pageSize,
		Stock:       decodeStock(values.Get(ParamStock)),
	}

	return req
}

// Toggle flips membership of value in the comma-joined list stored at
// sectionID and returns a new query; the input values are not mutated.
// The key is removed entirely when the resulting list is empty, so toggling
// the same value twice restores the original query.
func Toggle(values url.Values, sectionID, value string) url.Values {
	out := clone(values)

	list := splitList(out.Get(sectionID))
	kept := list[:0]
	found := false
	for _, v := range list {
		if v == value {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		kept = append(kept, value)
	}

	if len(kept) == 0 {
		out.Del(sectionID)
	} else {
		out.Set(sectionID, strings.Join(kept, ","))
	}

	return out
}

// SetParam replaces the value at key and returns a new query. Used by
// pagination, sort and radio-style filters, which replace rather than toggle.
func SetParam(values url.Values, key, value string) url.Values {
	out := clone(values)
	if value == "" {
		out.Del(key)
	} else {
		out.Set(key, value)
	}
	return out
}

// Encode renders values as a canonical query string (keys sorted), so equal
// filter states always produce byte-identical queries.
func Encode(values url.Values) string {
	return values.Encode()
}

// PageParam converts an internal 0-based page number to the 1-based value
// carried in the URL.
func PageParam(pageNumber int) string {
	if pageNumber < 0 {
		pageNumber = 0
	}
	return strconv.Itoa(pageNumber + 1)
}

func clone(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, vs := range values {
		cp := make([]string, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// decodePriceRange parses a "min-max" pair. Each bound falls back to its own
// default on parse failure; a violated min<=max invariant resets both bounds.
func decodePriceRange(raw string) (int, int) {
	minPrice, maxPrice := domain.DefaultMinPrice, domain.DefaultMaxPrice
	if raw == "" {
		return minPrice, maxPrice
	}

	parts := strings.SplitN(raw, "-", 2)
	if len(parts) != 2 {
		return minPrice, maxPrice
	}

	if v, err := strconv.Atoi(parts[0]); err == nil && v >= 0 {
		minPrice = v
	}
	if v, err := strconv.Atoi(parts[1]); err == nil && v >= 0 {
		maxPrice = v
	}

	if minPrice > maxPrice {
		return domain.DefaultMinPrice, domain.DefaultMaxPrice
	}
	return minPrice, maxPrice
}

func decodeDiscount(raw string) int {
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func decodeSort(raw string) domain.SortOrder {
	if domain.ValidSortOrder(raw) {
		return domain.SortOrder(raw)
	}
	return domain.SortPriceLow
}

// decodePage converts the 1-based URL page to the 0-based internal page
// number, flooring at 0.
func decodePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		page = 1
	}
	return page - 1
}

func decodeStock(raw string) domain.StockFilter {
	switch domain.StockFilter(raw) {
	case domain.StockIn, domain.StockOut:
		return domain.StockFilter(raw)
	default:
		return domain.StockAny
	}
}
