package domain

// Filter bound defaults applied when the price component of a query is
// absent or malformed.
const (
	DefaultMinPrice = 0
	DefaultMaxPrice = 10000
)

// DefaultPageSize is the number of products per catalog page.
const DefaultPageSize = 6

// SortOrder enumerates the supported catalog sort orders.
type SortOrder string

const (
	SortPriceLow  SortOrder = "price_low"
	SortPriceHigh SortOrder = "price_high"
)

// ValidSortOrder reports whether s is a recognized sort order.
func ValidSortOrder(s string) bool {
	return s == string(SortPriceLow) || s == string(SortPriceHigh)
}

// StockFilter optionally restricts results by availability.
// The empty value means no stock restriction.
type StockFilter string

const (
	StockAny StockFilter = ""
	StockIn  StockFilter = "in_stock"
	StockOut StockFilter = "out_of_stock"
)

// FilterRequest is the structured representation of catalog search, sort and
// pagination criteria. Instances are built from the URL on every navigation
// and never persisted beyond the current request.
type FilterRequest struct {
	Category    string      `json:"category"`
	Colors      []string    `json:"colors"`
	Sizes       []string    `json:"sizes"`
	MinPrice    int         `json:"min_price"`
	MaxPrice    int         `json:"max_price"`
	MinDiscount int         `json:"min_discount"`
	Sort        SortOrder   `json:"sort"`
	PageNumber  int         `json:"page_number"` // 0-based
	PageSize    int         `json:"page_size"`
	Stock       StockFilter `json:"stock,omitempty"`
}

// Equal reports whether two filter requests are field-for-field identical.
// Color and size lists compare element-wise in order; the codec emits them
// in a canonical order so this is a set comparison in practice.
func (f FilterRequest) Equal(other FilterRequest) bool {
	if f.Category != other.Category ||
		f.MinPrice != other.MinPrice ||
		f.MaxPrice != other.MaxPrice ||
		f.MinDiscount != other.MinDiscount ||
		f.Sort != other.Sort ||
		f.PageNumber != other.PageNumber ||
		f.PageSize != other.PageSize ||
		f.Stock != other.Stock {
		return false
	}
	return equalStrings(f.Colors, other.Colors) && equalStrings(f.Sizes, other.Sizes)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Product is a single catalog entry. Immutable once fetched; owned by the
// CatalogPage it arrived in.
type Product struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Brand           string `json:"brand"`
	ImageURL        string `json:"image_url"`
	Price           int64  `json:"price"`
	DiscountedPrice int64  `json:"discounted_price"`
	DiscountPercent int    `json:"discount_percent"`
}

// CatalogPage is one page of catalog results. The RequestToken associates the
// page with the filter request that produced it; the catalog reducer uses it
// to discard stale responses. Pages are replaced wholesale, never mutated.
type CatalogPage struct {
	Items        []Product `json:"items"`
	TotalPages   int       `json:"total_pages"`
	RequestToken uint64    `json:"-"`
}
