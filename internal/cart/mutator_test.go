package cart

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/shopmesh/storefront/pkg/errors"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/internal/store"
)

// --- Mock Client ---

type mockCartClient struct {
	mock.Mock
}

func (m *mockCartClient) GetCart(ctx context.Context) ([]domain.CartItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *mockCartClient) UpdateQuantity(ctx context.Context, itemID string, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, itemID, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartClient) Remove(ctx context.Context, itemID string) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func storeWithItems(items ...domain.CartItem) *store.Store {
	st := store.New()
	st.Dispatch(store.CartLoaded{Items: items})
	return st
}

// --- Tests ---

func TestLoad_RefreshesCartSlice(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := store.New()
	ctx := context.Background()

	client.On("GetCart", ctx).Return([]domain.CartItem{{ID: "ci-1", Quantity: 2}}, nil)

	items, err := m.Load(ctx, st)

	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, st.CartSnapshot().Items, 1)

	client.AssertExpectations(t)
}

func TestLoad_FailureSetsError(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1"})
	ctx := context.Background()

	client.On("GetCart", ctx).Return(nil, errors.New("cart service: timeout"))

	_, err := m.Load(ctx, st)

	require.Error(t, err)
	snap := st.CartSnapshot()
	assert.Equal(t, "cart service: timeout", snap.Error)
	// Items stay as last-known-good.
	assert.Len(t, snap.Items, 1)
}

func TestChangeQuantity_Increment(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1", Quantity: 3})
	ctx := context.Background()

	client.On("UpdateQuantity", ctx, "ci-1", 4).
		Return(&domain.CartItem{ID: "ci-1", Quantity: 4}, nil)

	item, err := m.ChangeQuantity(ctx, st, "ci-1", 1)

	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)
	assert.Equal(t, 4, st.CartSnapshot().Items[0].Quantity)

	client.AssertExpectations(t)
}

func TestChangeQuantity_BelowOneRejectedLocally(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1", Quantity: 1})
	ctx := context.Background()

	item, err := m.ChangeQuantity(ctx, st, "ci-1", -1)

	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	// The cart service was never contacted and the slice is unchanged.
	client.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, 1, st.CartSnapshot().Items[0].Quantity)
}

func TestChangeQuantity_MissingIDFailsFast(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1", Quantity: 1})
	ctx := context.Background()

	_, err := m.ChangeQuantity(ctx, st, "", 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	client.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeQuantity_UnknownItem(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1", Quantity: 1})
	ctx := context.Background()

	_, err := m.ChangeQuantity(ctx, st, "ci-404", 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	client.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
}

func TestChangeQuantity_ServiceFailureSurfaced(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1", Quantity: 2})
	ctx := context.Background()

	client.On("UpdateQuantity", ctx, "ci-1", 3).
		Return(nil, errors.New("cart service: internal error"))

	_, err := m.ChangeQuantity(ctx, st, "ci-1", 1)

	require.Error(t, err)
	snap := st.CartSnapshot()
	assert.Equal(t, "cart service: internal error", snap.Error)
	// Quantity was not applied locally.
	assert.Equal(t, 2, snap.Items[0].Quantity)
}

func TestChangeQuantity_OverlappingMutationConflicts(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1", Quantity: 2})
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})

	client.On("UpdateQuantity", ctx, "ci-1", 3).
		Run(func(args mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&domain.CartItem{ID: "ci-1", Quantity: 3}, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := m.ChangeQuantity(ctx, st, "ci-1", 1)
		assert.NoError(t, err)
	}()

	// Second mutation on the same item while the first is in flight.
	<-entered
	_, err := m.ChangeQuantity(ctx, st, "ci-1", 1)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	close(release)
	wg.Wait()

	// Once the first resolves, the item accepts mutations again.
	client.On("UpdateQuantity", ctx, "ci-1", 4).
		Return(&domain.CartItem{ID: "ci-1", Quantity: 4}, nil)
	_, err = m.ChangeQuantity(ctx, st, "ci-1", 1)
	assert.NoError(t, err)
}

func TestChangeQuantity_BaseIsConfirmedQuantity(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1", Quantity: 2})
	ctx := context.Background()

	entered := make(chan struct{})
	release := make(chan struct{})

	client.On("UpdateQuantity", ctx, "ci-1", 3).
		Run(func(mock.Arguments) {
			close(entered)
			<-release
		}).
		Return(&domain.CartItem{ID: "ci-1", Quantity: 3}, nil).
		Once()
	client.On("UpdateQuantity", ctx, "ci-1", 4).
		Return(&domain.CartItem{ID: "ci-1", Quantity: 4}, nil).
		Once()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := m.ChangeQuantity(ctx, st, "ci-1", 1)
		assert.NoError(t, err)
	}()

	<-entered
	// A second increment issued while the first is unresolved. It retries on
	// conflict; when it finally runs, its base quantity must be the one the
	// service confirmed for the first, never the pre-first quantity. The mock
	// rejects a second call with quantity 3.
	go func() {
		defer wg.Done()
		for {
			item, err := m.ChangeQuantity(ctx, st, "ci-1", 1)
			if errors.Is(err, apperrors.ErrConflict) {
				continue
			}
			if assert.NoError(t, err) {
				assert.Equal(t, 4, item.Quantity)
			}
			return
		}
	}()

	close(release)
	wg.Wait()

	assert.Equal(t, 4, st.CartSnapshot().Items[0].Quantity)
	client.AssertExpectations(t)
}

func TestRemoveItem_ExcisesOnConfirmation(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(
		domain.CartItem{ID: "ci-1"},
		domain.CartItem{ID: "ci-2"},
	)
	ctx := context.Background()

	client.On("Remove", ctx, "ci-1").Return(nil)

	err := m.RemoveItem(ctx, st, "ci-1")

	require.NoError(t, err)
	snap := st.CartSnapshot()
	require.Len(t, snap.Items, 1)
	assert.Equal(t, "ci-2", snap.Items[0].ID)

	client.AssertExpectations(t)
}

func TestRemoveItem_MissingIDFailsFast(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := store.New()
	ctx := context.Background()

	err := m.RemoveItem(ctx, st, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	client.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestRemoveItem_ServiceFailureKeepsItem(t *testing.T) {
	client := new(mockCartClient)
	m := NewMutator(client, nil, newTestLogger())
	st := storeWithItems(domain.CartItem{ID: "ci-1"})
	ctx := context.Background()

	client.On("Remove", ctx, "ci-1").Return(errors.New("cart service: unavailable"))

	err := m.RemoveItem(ctx, st, "ci-1")

	require.Error(t, err)
	snap := st.CartSnapshot()
	assert.Len(t, snap.Items, 1)
	assert.Equal(t, "cart service: unavailable", snap.Error)
}
