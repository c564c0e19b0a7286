package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopmesh/storefront/internal/domain"
)

func filterFor(category string, page int) domain.FilterRequest {
	return domain.FilterRequest{
		Category:   category,
		MinPrice:   domain.DefaultMinPrice,
		MaxPrice:   domain.DefaultMaxPrice,
		Sort:       domain.SortPriceLow,
		PageNumber: page,
		PageSize:   domain.DefaultPageSize,
	}
}

func pageWith(ids ...string) domain.CatalogPage {
	items := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		items = append(items, domain.Product{ID: id})
	}
	return domain.CatalogPage{Items: items, TotalPages: 1}
}

func TestDispatch_SetUser(t *testing.T) {
	st := New()

	applied := st.Dispatch(SetUser{UserID: "user-1"})

	assert.True(t, applied)
	assert.Equal(t, "user-1", st.Snapshot().Auth.UserID)
}

func TestCatalog_FetchLifecycle(t *testing.T) {
	st := New()
	filter := filterFor("women", 0)

	applied := st.Dispatch(CatalogFetchStarted{Token: 1, Filter: filter})
	require.True(t, applied)

	snap := st.CatalogSnapshot()
	assert.True(t, snap.Loading)
	assert.True(t, snap.FilterSet)
	assert.Equal(t, filter, snap.Filter)

	applied = st.Dispatch(CatalogFetchSucceeded{Token: 1, Page: pageWith("p1", "p2")})
	require.True(t, applied)

	snap = st.CatalogSnapshot()
	assert.False(t, snap.Loading)
	assert.Len(t, snap.Products, 2)
	assert.Equal(t, 1, snap.TotalPages)
	assert.Empty(t, snap.Error)
}

func TestCatalog_StaleResponseDiscarded(t *testing.T) {
	st := New()

	// Two fetches are issued; the older response arrives last.
	st.Dispatch(CatalogFetchStarted{Token: 1, Filter: filterFor("women", 0)})
	st.Dispatch(CatalogFetchStarted{Token: 2, Filter: filterFor("women", 1)})

	applied := st.Dispatch(CatalogFetchSucceeded{Token: 2, Page: pageWith("new")})
	require.True(t, applied)

	applied = st.Dispatch(CatalogFetchSucceeded{Token: 1, Page: pageWith("old")})
	assert.False(t, applied)

	snap := st.CatalogSnapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "new", snap.Products[0].ID)
	assert.False(t, snap.Loading)
}

func TestCatalog_OutOfOrderStartCannotRewindToken(t *testing.T) {
	st := New()

	// Two fetches mint tokens 1 and 2, but their start intents land in
	// reverse order. The older start must not take over LatestToken.
	st.Dispatch(CatalogFetchStarted{Token: 2, Filter: filterFor("women", 1)})
	applied := st.Dispatch(CatalogFetchStarted{Token: 1, Filter: filterFor("women", 0)})
	assert.False(t, applied)

	applied = st.Dispatch(CatalogFetchSucceeded{Token: 2, Page: pageWith("newer")})
	require.True(t, applied)

	applied = st.Dispatch(CatalogFetchSucceeded{Token: 1, Page: pageWith("older")})
	assert.False(t, applied)

	snap := st.CatalogSnapshot()
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "newer", snap.Products[0].ID)
	assert.Equal(t, filterFor("women", 1), snap.Filter)
}

func TestCatalog_StaleFailureDiscarded(t *testing.T) {
	st := New()

	st.Dispatch(CatalogFetchStarted{Token: 1, Filter: filterFor("women", 0)})
	st.Dispatch(CatalogFetchStarted{Token: 2, Filter: filterFor("women", 1)})
	st.Dispatch(CatalogFetchSucceeded{Token: 2, Page: pageWith("new")})

	applied := st.Dispatch(CatalogFetchFailed{Token: 1, Reason: "timeout"})
	assert.False(t, applied)

	snap := st.CatalogSnapshot()
	assert.Empty(t, snap.Error)
	assert.Len(t, snap.Products, 1)
}

func TestCatalog_FailureKeepsLastKnownGood(t *testing.T) {
	st := New()

	st.Dispatch(CatalogFetchStarted{Token: 1, Filter: filterFor("women", 0)})
	st.Dispatch(CatalogFetchSucceeded{Token: 1, Page: pageWith("p1")})

	st.Dispatch(CatalogFetchStarted{Token: 2, Filter: filterFor("women", 1)})
	applied := st.Dispatch(CatalogFetchFailed{Token: 2, Reason: "service unavailable"})
	require.True(t, applied)

	snap := st.CatalogSnapshot()
	assert.Equal(t, "service unavailable", snap.Error)
	require.Len(t, snap.Products, 1)
	assert.Equal(t, "p1", snap.Products[0].ID)
	assert.False(t, snap.Loading)
}

func TestCart_LoadedReplacesItems(t *testing.T) {
	st := New()
	st.Dispatch(CartMutationFailed{Reason: "boom"})

	st.Dispatch(CartLoaded{Items: []domain.CartItem{{ID: "ci-1", Quantity: 2}}})

	snap := st.CartSnapshot()
	require.Len(t, snap.Items, 1)
	assert.Empty(t, snap.Error)
}

func TestCart_LoadFailureKeepsItems(t *testing.T) {
	st := New()
	st.Dispatch(CartLoaded{Items: []domain.CartItem{{ID: "ci-1", Quantity: 2}}})

	applied := st.Dispatch(CartLoadFailed{Reason: "cart service down"})
	require.True(t, applied)

	snap := st.CartSnapshot()
	assert.Equal(t, "cart service down", snap.Error)
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "ci-1", snap.Items[0].ID)
}

func TestCart_ItemReplacedByID(t *testing.T) {
	st := New()
	st.Dispatch(CartLoaded{Items: []domain.CartItem{
		{ID: "ci-1", Quantity: 2},
		{ID: "ci-2", Quantity: 1},
	}})

	st.Dispatch(CartItemReplaced{Item: domain.CartItem{ID: "ci-1", Quantity: 3}})

	snap := st.CartSnapshot()
	require.Len(t, snap.Items, 2)
	assert.Equal(t, 3, snap.Items[0].Quantity)
	assert.Equal(t, 1, snap.Items[1].Quantity)
}

func TestCart_ItemReplacedAdoptsUnknown(t *testing.T) {
	st := New()

	st.Dispatch(CartItemReplaced{Item: domain.CartItem{ID: "ci-9", Quantity: 1}})

	snap := st.CartSnapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "ci-9", snap.Items[0].ID)
}

func TestCart_ItemRemoved(t *testing.T) {
	st := New()
	st.Dispatch(CartLoaded{Items: []domain.CartItem{
		{ID: "ci-1"},
		{ID: "ci-2"},
	}})

	applied := st.Dispatch(CartItemRemoved{ItemID: "ci-1"})
	require.True(t, applied)

	snap := st.CartSnapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "ci-2", snap.Items[0].ID)

	applied = st.Dispatch(CartItemRemoved{ItemID: "ci-404"})
	assert.False(t, applied)
}

func TestOrder_Resolved(t *testing.T) {
	st := New()

	st.Dispatch(OrderFetchStarted{OrderID: "ord-1"})
	assert.True(t, st.OrderSnapshot().Loading)

	st.Dispatch(OrderResolved{Order: domain.Order{ID: "ord-1", TotalPrice: 5000}})

	snap := st.OrderSnapshot()
	require.NotNil(t, snap.Order)
	assert.Equal(t, "ord-1", snap.ResolvedID)
	assert.False(t, snap.Loading)
}

func TestOrder_FailureKeepsResolvedOrder(t *testing.T) {
	st := New()
	st.Dispatch(OrderResolved{Order: domain.Order{ID: "ord-1"}})

	st.Dispatch(OrderFetchStarted{OrderID: "ord-2"})
	st.Dispatch(OrderFetchFailed{OrderID: "ord-2", Reason: "not found"})

	snap := st.OrderSnapshot()
	assert.Equal(t, "not found", snap.Error)
	require.NotNil(t, snap.Order)
	assert.Equal(t, "ord-1", snap.Order.ID)
	// ResolvedID still names the order that actually loaded.
	assert.Equal(t, "ord-1", snap.ResolvedID)
}

func TestSnapshot_CopiesDoNotAlias(t *testing.T) {
	st := New()
	st.Dispatch(CartLoaded{Items: []domain.CartItem{{ID: "ci-1", Quantity: 1}}})

	snap := st.CartSnapshot()
	snap.Items[0].Quantity = 99

	assert.Equal(t, 1, st.CartSnapshot().Items[0].Quantity)
}
