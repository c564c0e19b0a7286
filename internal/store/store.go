// Package store holds the per-session state container. State is split into
// four slices (auth, catalog, cart, order); each slice is owned by exactly
// one reducer and every change flows through a dispatched intent. Nothing
// outside this package writes slice state.
package store

import (
	"sync"

	"github.com/shopmesh/storefront/internal/domain"
)

// AuthState is the auth slice: the identity attached to the session.
type AuthState struct {
	UserID string `json:"user_id,omitempty"`
}

// CatalogState is the catalog slice. Products carry the last successfully
// applied page; on fetch failure they remain as last-known-good with Error
// set. LatestToken identifies the most recently issued fetch; responses
// tagged with an older token are discarded.
type CatalogState struct {
	Filter      domain.FilterRequest `json:"filter"`
	FilterSet   bool                 `json:"-"`
	Products    []domain.Product     `json:"products"`
	TotalPages  int                  `json:"total_pages"`
	LatestToken uint64               `json:"-"`
	Loading     bool                 `json:"loading"`
	Error       string               `json:"error,omitempty"`
}

// CartState is the cart slice.
type CartState struct {
	Items []domain.CartItem `json:"items"`
	Error string            `json:"error,omitempty"`
}

// OrderState is the order slice. ResolvedID is set only after a successful
// fetch, so a failed resolution is retried on the next request for the same
// identifier.
type OrderState struct {
	Order      *domain.Order `json:"order,omitempty"`
	ResolvedID string        `json:"resolved_id,omitempty"`
	Loading    bool          `json:"loading"`
	Error      string        `json:"error,omitempty"`
}

// State is the complete session state across all slices.
type State struct {
	Auth    AuthState    `json:"auth"`
	Catalog CatalogState `json:"catalog"`
	Cart    CartState    `json:"cart"`
	Order   OrderState   `json:"order"`
}

// Store is a session-scoped state container. All mutation goes through
// Dispatch; reads return copies so callers can never alias slice state.
type Store struct {
	mu    sync.RWMutex
	state State
}

// New creates an empty store.
func New() *Store {
	return &Store{}
}

// Dispatch routes an intent to the reducer owning its slice and reports
// whether the intent was applied. A stale catalog result is the one case
// where an intent is deliberately not applied.
func (s *Store) Dispatch(intent Intent) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch in := intent.(type) {
	case SetUser:
		return reduceAuth(&s.state.Auth, in)
	case CatalogFetchStarted, CatalogFetchSucceeded, CatalogFetchFailed:
		return reduceCatalog(&s.state.Catalog, intent)
	case CartLoaded, CartLoadFailed, CartItemReplaced, CartItemRemoved, CartMutationFailed:
		return reduceCart(&s.state.Cart, intent)
	case OrderFetchStarted, OrderResolved, OrderFetchFailed:
		return reduceOrder(&s.state.Order, intent)
	default:
		return false
	}
}

// Snapshot returns a copy of the full session state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state
	out.Catalog.Products = copyProducts(s.state.Catalog.Products)
	out.Cart.Items = copyItems(s.state.Cart.Items)
	out.Order.Order = copyOrder(s.state.Order.Order)
	return out
}

// CatalogSnapshot returns a copy of the catalog slice.
func (s *Store) CatalogSnapshot() CatalogState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state.Catalog
	out.Products = copyProducts(s.state.Catalog.Products)
	return out
}

// CartSnapshot returns a copy of the cart slice.
func (s *Store) CartSnapshot() CartState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state.Cart
	out.Items = copyItems(s.state.Cart.Items)
	return out
}

// OrderSnapshot returns a copy of the order slice.
func (s *Store) OrderSnapshot() OrderState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.state.Order
	out.Order = copyOrder(s.state.Order.Order)
	return out
}

func copyProducts(in []domain.Product) []domain.Product {
	if in == nil {
		return nil
	}
	out := make([]domain.Product, len(in))
	copy(out, in)
	return out
}

func copyItems(in []domain.CartItem) []domain.CartItem {
	if in == nil {
		return nil
	}
	out := make([]domain.CartItem, len(in))
	copy(out, in)
	return out
}

func copyOrder(in *domain.Order) *domain.Order {
	if in == nil {
		return nil
	}
	out := *in
	out.OrderItems = copyItems(in.OrderItems)
	return &out
}
