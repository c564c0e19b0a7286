package store

import "github.com/shopmesh/storefront/internal/domain"

// Intent is a typed description of a state change. Only types in this
// package implement it, keeping the set of possible mutations closed.
type Intent interface {
	intent()
}

// SetUser attaches a user identity to the session's auth slice.
type SetUser struct {
	UserID string
}

// CatalogFetchStarted records that a fetch was issued for the given filter.
// Tokens are minted in increasing order; a start carrying a token older than
// the latest one announced is ignored, so dispatch order between concurrent
// fetches cannot rewind LatestToken.
type CatalogFetchStarted struct {
	Token  uint64
	Filter domain.FilterRequest
}

// CatalogFetchSucceeded delivers a fetched page. It is applied only when the
// page's token matches the latest issued token; older responses are dropped.
type CatalogFetchSucceeded struct {
	Token uint64
	Page  domain.CatalogPage
}

// CatalogFetchFailed records a transport or service failure for a fetch.
// Like results, failures are token-checked so a stale failure cannot clobber
// a newer success.
type CatalogFetchFailed struct {
	Token  uint64
	Reason string
}

// CartLoaded replaces the cart slice items wholesale.
type CartLoaded struct {
	Items []domain.CartItem
}

// CartLoadFailed surfaces a failed cart refresh; previously loaded items are
// kept.
type CartLoadFailed struct {
	Reason string
}

// CartItemReplaced swaps a confirmed updated item into the cart by ID.
type CartItemReplaced struct {
	Item domain.CartItem
}

// CartItemRemoved excises a confirmed-removed item from the cart by ID.
type CartItemRemoved struct {
	ItemID string
}

// CartMutationFailed surfaces a failed cart mutation on the slice; items are
// left untouched.
type CartMutationFailed struct {
	Reason string
}

// OrderFetchStarted marks the order slice as loading.
type OrderFetchStarted struct {
	OrderID string
}

// OrderResolved stores a fully materialized order and records its ID as
// resolved.
type OrderResolved struct {
	Order domain.Order
}

// OrderFetchFailed surfaces an order fetch failure; any previously resolved
// order is kept.
type OrderFetchFailed struct {
	OrderID string
	Reason  string
}

func (SetUser) intent()               {}
func (CatalogFetchStarted) intent()   {}
func (CatalogFetchSucceeded) intent() {}
func (CatalogFetchFailed) intent()    {}
func (CartLoaded) intent()            {}
func (CartLoadFailed) intent()        {}
func (CartItemReplaced) intent()      {}
func (CartItemRemoved) intent()       {}
func (CartMutationFailed) intent()    {}
func (OrderFetchStarted) intent()     {}
func (OrderResolved) intent()         {}
func (OrderFetchFailed) intent()      {}
