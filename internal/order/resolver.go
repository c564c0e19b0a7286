// Package order resolves order summaries into a session's order slice.
package order

import (
	"context"
	"log/slog"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/internal/event"
	"github.com/shopmesh/storefront/internal/store"
	apperrors "github.com/shopmesh/storefront/pkg/errors"
	"github.com/shopmesh/storefront/pkg/logger"
)

// Fetcher is the order service surface the resolver depends on.
type Fetcher interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
}

// Resolver fetches an order at most once per distinct order ID per session.
// Repeated resolutions of the currently resolved ID are served from the
// store.
type Resolver struct {
	fetch  Fetcher
	events *event.Producer
	logger *slog.Logger
}

// NewResolver creates an order resolver. events may be nil, disabling event
// publishing.
func NewResolver(fetch Fetcher, events *event.Producer, logger *slog.Logger) *Resolver {
	return &Resolver{
		fetch:  fetch,
		events: events,
		logger: logger,
	}
}

// Resolve returns the order with the given ID, fetching it from the order
// service only when it is not the one already resolved in the store. A
// failed fetch sets the slice's error and keeps the previously resolved
// order.
func (r *Resolver) Resolve(ctx context.Context, st *store.Store, orderID string) (*domain.Order, error) {
	if orderID == "" {
		return nil, apperrors.MissingIdentifier("order")
	}

	snap := st.OrderSnapshot()
	if snap.ResolvedID == orderID && snap.Order != nil {
		return snap.Order, nil
	}

	st.Dispatch(store.OrderFetchStarted{OrderID: orderID})

	ord, err := r.fetch.GetOrder(ctx, orderID)
	if err != nil {
		st.Dispatch(store.OrderFetchFailed{OrderID: orderID, Reason: err.Error()})
		return nil, err
	}

	st.Dispatch(store.OrderResolved{Order: *ord})
	r.publishViewed(ctx, orderID)

	return ord, nil
}

func (r *Resolver) publishViewed(ctx context.Context, orderID string) {
	if r.events == nil {
		return
	}

	sessionID := logger.SessionIDFromContext(ctx)
	if err := r.events.PublishOrderViewed(ctx, sessionID, orderID); err != nil {
		r.logger.ErrorContext(ctx, "failed to publish order.viewed event",
			slog.String("error", err.Error()),
		)
	}
}
