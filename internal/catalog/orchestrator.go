// Package catalog orchestrates product fetches in response to filter
// changes. Every fetch is tagged with a monotonically increasing request
// token; the catalog reducer applies a result only when its token is the
// latest one issued, so a slow early response can never overwrite a faster
// later one.
package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/internal/event"
	"github.com/shopmesh/storefront/internal/store"
	"github.com/shopmesh/storefront/pkg/logger"
)

var (
	staleResponsesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_stale_responses_discarded_total",
		Help: "Catalog responses dropped because a newer fetch was issued before they arrived",
	})

	fetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_catalog_fetch_duration_seconds",
		Help:    "Catalog fetch duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_requests_total",
		Help: "Catalog page cache lookups by result",
	}, []string{"result"})
)

// Searcher fetches a catalog page for a filter request.
type Searcher interface {
	Search(ctx context.Context, req domain.FilterRequest) (*domain.CatalogPage, error)
}

// PageCache is a best-effort read-through cache of catalog pages.
type PageCache interface {
	Get(ctx context.Context, req domain.FilterRequest) (*domain.CatalogPage, error)
	Set(ctx context.Context, req domain.FilterRequest, page *domain.CatalogPage) error
}

// Orchestrator reconciles filter requests with the catalog slice of a
// session store.
type Orchestrator struct {
	search Searcher
	cache  PageCache
	events *event.Producer
	logger *slog.Logger
	tokens atomic.Uint64
}

// NewOrchestrator creates a catalog orchestrator. cache and events may be
// nil, disabling caching and event publishing respectively.
func NewOrchestrator(search Searcher, cache PageCache, events *event.Producer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		search: search,
		cache:  cache,
		events: events,
		logger: logger,
	}
}

// Apply reconciles the store's catalog slice with the given filter request.
// When the request equals the slice's current filter nothing is fetched.
// On transport or service failure the slice carries the error and keeps its
// last-known-good products; the error is also returned for logging. There is
// no automatic retry: the next filter change re-triggers a fetch.
func (o *Orchestrator) Apply(ctx context.Context, st *store.Store, req domain.FilterRequest) error {
	current := st.CatalogSnapshot()
	if current.FilterSet && current.Filter.Equal(req) {
		return nil
	}

	token := o.tokens.Add(1)
	st.Dispatch(store.CatalogFetchStarted{Token: token, Filter: req})

	page, fromCache := o.fromCache(ctx, req)

	if page == nil {
		start := time.Now()
		fetched, err := o.search.Search(ctx, req)
		if err != nil {
			fetchDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
			if !st.Dispatch(store.CatalogFetchFailed{Token: token, Reason: err.Error()}) {
				staleResponsesDiscarded.Inc()
			}
			return err
		}
		fetchDuration.WithLabelValues("success").Observe(time.Since(start).Seconds())
		page = fetched
	}

	page.RequestToken = token
	if !st.Dispatch(store.CatalogFetchSucceeded{Token: token, Page: *page}) {
		// A newer request was issued while this one was in flight.
		staleResponsesDiscarded.Inc()
		o.logger.DebugContext(ctx, "discarded stale catalog response",
			slog.Uint64("token", token),
		)
		return nil
	}

	if !fromCache && o.cache != nil {
		if err := o.cache.Set(ctx, req, page); err != nil {
			o.logger.WarnContext(ctx, "failed to cache catalog page",
				slog.String("error", err.Error()),
			)
		}
	}

	o.publishSearched(ctx, req, page.TotalPages)

	return nil
}

// fromCache returns the cached page for req, or nil on miss or cache error.
func (o *Orchestrator) fromCache(ctx context.Context, req domain.FilterRequest) (*domain.CatalogPage, bool) {
	if o.cache == nil {
		return nil, false
	}

	page, err := o.cache.Get(ctx, req)
	if err != nil {
		cacheHits.WithLabelValues("error").Inc()
		o.logger.WarnContext(ctx, "catalog cache lookup failed",
			slog.String("error", err.Error()),
		)
		return nil, false
	}
	if page == nil {
		cacheHits.WithLabelValues("miss").Inc()
		return nil, false
	}

	cacheHits.WithLabelValues("hit").Inc()
	return page, true
}

func (o *Orchestrator) publishSearched(ctx context.Context, req domain.FilterRequest, totalPages int) {
	if o.events == nil {
		return
	}

	sessionID := logger.SessionIDFromContext(ctx)
	if err := o.events.PublishCatalogSearched(ctx, sessionID, req, totalPages); err != nil {
		o.logger.ErrorContext(ctx, "failed to publish catalog.searched event",
			slog.String("error", err.Error()),
		)
	}
}
