package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shopmesh/storefront/internal/domain"
)

func TestDecode_Defaults(t *testing.T) {
	c := NewCodec(6)

	req := c.Decode("Women", url.Values{})

	assert.Equal(t, "women", req.Category)
	assert.Nil(t, req.Colors)
	assert.Nil(t, req.Sizes)
	assert.Equal(t, domain.DefaultMinPrice, req.MinPrice)
	assert.Equal(t, domain.DefaultMaxPrice, req.MaxPrice)
	assert.Equal(t, 0, req.MinDiscount)
	assert.Equal(t, domain.SortPriceLow, req.Sort)
	assert.Equal(t, 0, req.PageNumber)
	assert.Equal(t, 6, req.PageSize)
	assert.Equal(t, domain.StockAny, req.Stock)
}

func TestDecode_FullQuery(t *testing.T) {
	c := NewCodec(6)
	values, err := url.ParseQuery("color=red,blue&size=M,L&price=100-500&discount=20&sort=price_high&page=3&stock=in_stock")
	assert.NoError(t, err)

	req := c.Decode("kurtas", values)

	assert.Equal(t, []string{"red", "blue"}, req.Colors)
	assert.Equal(t, []string{"M", "L"}, req.Sizes)
	assert.Equal(t, 100, req.MinPrice)
	assert.Equal(t, 500, req.MaxPrice)
	assert.Equal(t, 20, req.MinDiscount)
	assert.Equal(t, domain.SortPriceHigh, req.Sort)
	// Page 3 in the URL is internal page 2.
	assert.Equal(t, 2, req.PageNumber)
	assert.Equal(t, domain.StockIn, req.Stock)
}

func TestDecode_PriceRange(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantMin int
		wantMax int
	}{
		{"empty", "", domain.DefaultMinPrice, domain.DefaultMaxPrice},
		{"valid", "100-500", 100, 500},
		{"malformed min falls back", "abc-500", domain.DefaultMinPrice, 500},
		{"malformed max falls back", "100-xyz", 100, domain.DefaultMaxPrice},
		{"both malformed", "abc-xyz", domain.DefaultMinPrice, domain.DefaultMaxPrice},
		{"no separator", "100", domain.DefaultMinPrice, domain.DefaultMaxPrice},
		{"inverted resets both", "500-100", domain.DefaultMinPrice, domain.DefaultMaxPrice},
		{"leading dash breaks both bounds", "-5-100", domain.DefaultMinPrice, domain.DefaultMaxPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax := decodePriceRange(tt.raw)
			assert.Equal(t, tt.wantMin, gotMin)
			assert.Equal(t, tt.wantMax, gotMax)
		})
	}
}

func TestDecode_DiscountClamped(t *testing.T) {
	assert.Equal(t, 0, decodeDiscount(""))
	assert.Equal(t, 0, decodeDiscount("junk"))
	assert.Equal(t, 0, decodeDiscount("-10"))
	assert.Equal(t, 30, decodeDiscount("30"))
	assert.Equal(t, 100, decodeDiscount("250"))
}

func TestDecode_InvalidSortFallsBack(t *testing.T) {
	c := NewCodec(6)
	values := url.Values{ParamSort: {"alphabetical"}}

	req := c.Decode("women", values)

	assert.Equal(t, domain.SortPriceLow, req.Sort)
}

func TestDecode_PageFloorsAtFirst(t *testing.T) {
	assert.Equal(t, 0, decodePage(""))
	assert.Equal(t, 0, decodePage("0"))
	assert.Equal(t, 0, decodePage("-2"))
	assert.Equal(t, 0, decodePage("junk"))
	assert.Equal(t, 4, decodePage("5"))
}

func TestToggle_AddsValue(t *testing.T) {
	values := url.Values{}

	out := Toggle(values, ParamColor, "red")

	assert.Equal(t, "red", out.Get(ParamColor))
	// Input is not mutated.
	assert.Empty(t, values.Get(ParamColor))
}

func TestToggle_RemovesValue(t *testing.T) {
	values := url.Values{ParamColor: {"red,blue"}}

	out := Toggle(values, ParamColor, "red")

	assert.Equal(t, "blue", out.Get(ParamColor))
}

func TestToggle_LastValueDeletesKey(t *testing.T) {
	values := url.Values{ParamColor: {"red"}}

	out := Toggle(values, ParamColor, "red")

	_, present := out[ParamColor]
	assert.False(t, present)
}

func TestToggle_TwiceRestoresQuery(t *testing.T) {
	values, err := url.ParseQuery("color=red&sort=price_high")
	assert.NoError(t, err)

	once := Toggle(values, ParamColor, "blue")
	twice := Toggle(once, ParamColor, "blue")

	assert.Equal(t, Encode(values), Encode(twice))
}

func TestSetParam_ReplacesAndDeletes(t *testing.T) {
	values := url.Values{ParamSort: {"price_low"}}

	out := SetParam(values, ParamSort, "price_high")
	assert.Equal(t, "price_high", out.Get(ParamSort))

	out = SetParam(out, ParamSort, "")
	_, present := out[ParamSort]
	assert.False(t, present)
}

func TestPageParam_RoundTrip(t *testing.T) {
	// Internal page numbers survive a trip through the URL representation.
	for internal := 0; internal < 5; internal++ {
		assert.Equal(t, internal, decodePage(PageParam(internal)))
	}
	assert.Equal(t, "1", PageParam(-3))
}

func TestDecode_CategoryNormalized(t *testing.T) {
	c := NewCodec(6)

	req := c.Decode("Lengha Choli", url.Values{})

	assert.Equal(t, "lengha-choli", req.Category)
}

func TestNewCodec_InvalidPageSize(t *testing.T) {
	c := NewCodec(0)
	req := c.Decode("women", url.Values{})
	assert.Equal(t, domain.DefaultPageSize, req.PageSize)
}
