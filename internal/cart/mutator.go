// Package cart applies quantity and removal mutations to a session's cart
// slice. Mutations are confirmed by the cart service before the slice is
// updated, so the local state never runs ahead of the backend.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/internal/event"
	"github.com/shopmesh/storefront/internal/store"
	apperrors "github.com/shopmesh/storefront/pkg/errors"
	"github.com/shopmesh/storefront/pkg/logger"
)

// Client is the cart service surface the mutator depends on.
type Client interface {
	GetCart(ctx context.Context) ([]domain.CartItem, error)
	UpdateQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error)
	Remove(ctx context.Context, itemID string) error
}

// Mutator serializes mutations per cart item. At most one mutation per item
// may be in flight; an overlapping request is rejected with a conflict.
type Mutator struct {
	client Client
	events *event.Producer
	logger *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewMutator creates a cart mutator. events may be nil, disabling event
// publishing.
func NewMutator(client Client, events *event.Producer, logger *slog.Logger) *Mutator {
	return &Mutator{
		client:   client,
		events:   events,
		logger:   logger,
		inFlight: make(map[string]struct{}),
	}
}

// Load refreshes the session's cart slice from the cart service and returns
// the loaded items.
func (m *Mutator) Load(ctx context.Context, st *store.Store) ([]domain.CartItem, error) {
	items, err := m.client.GetCart(ctx)
	if err != nil {
		st.Dispatch(store.CartLoadFailed{Reason: err.Error()})
		return nil, err
	}

	st.Dispatch(store.CartLoaded{Items: items})
	return items, nil
}

// ChangeQuantity adjusts an item's quantity by delta. A resulting quantity
// below one is rejected locally without contacting the cart service, and the
// item is returned unchanged. The store is only updated after the cart
// service confirms the new quantity.
func (m *Mutator) ChangeQuantity(ctx context.Context, st *store.Store, itemID string, delta int) (*domain.CartItem, error) {
	if itemID == "" {
		return nil, apperrors.MissingIdentifier("cart item")
	}

	if !m.acquire(itemID) {
		return nil, apperrors.Conflict("another update for this cart item is in progress")
	}
	defer m.release(itemID)

	// The snapshot is read while holding the guard, so the base quantity is
	// the one confirmed by the previous mutation on this item.
	item := findItem(st.CartSnapshot().Items, itemID)
	if item == nil {
		return nil, apperrors.NotFound("cart item", itemID)
	}

	newQuantity := item.Quantity + delta
	if newQuantity < 1 {
		return item, nil
	}

	updated, err := m.client.UpdateQuantity(ctx, itemID, newQuantity)
	if err != nil {
		st.Dispatch(store.CartMutationFailed{Reason: err.Error()})
		return nil, err
	}

	st.Dispatch(store.CartItemReplaced{Item: *updated})
	m.publishUpdated(ctx, *updated)

	return updated, nil
}

// RemoveItem removes an item from the cart once the cart service confirms
// the deletion.
func (m *Mutator) RemoveItem(ctx context.Context, st *store.Store, itemID string) error {
	if itemID == "" {
		return apperrors.MissingIdentifier("cart item")
	}

	if !m.acquire(itemID) {
		return apperrors.Conflict("another update for this cart item is in progress")
	}
	defer m.release(itemID)

	if err := m.client.Remove(ctx, itemID); err != nil {
		st.Dispatch(store.CartMutationFailed{Reason: err.Error()})
		return err
	}

	st.Dispatch(store.CartItemRemoved{ItemID: itemID})
	m.publishRemoved(ctx, itemID)

	return nil
}

func (m *Mutator) acquire(itemID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, busy := m.inFlight[itemID]; busy {
		return false
	}
	m.inFlight[itemID] = struct{}{}
	return true
}

func (m *Mutator) release(itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.inFlight, itemID)
}

func findItem(items []domain.CartItem, itemID string) *domain.CartItem {
	for i := range items {
		if items[i].ID == itemID {
			return &items[i]
		}
	}
	return nil
}

func (m *Mutator) publishUpdated(ctx context.Context, item domain.CartItem) {
	if m.events == nil {
		return
	}

	sessionID := logger.SessionIDFromContext(ctx)
	if err := m.events.PublishCartItemUpdated(ctx, sessionID, item); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish cart.item.updated event",
			slog.String("error", err.Error()),
		)
	}
}

func (m *Mutator) publishRemoved(ctx context.Context, itemID string) {
	if m.events == nil {
		return
	}

	sessionID := logger.SessionIDFromContext(ctx)
	if err := m.events.PublishCartItemRemoved(ctx, sessionID, itemID); err != nil {
		m.logger.ErrorContext(ctx, "failed to publish cart.item.removed event",
			slog.String("error", err.Error()),
		)
	}
}
