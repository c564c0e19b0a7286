package http

import (
	"log/slog"
	"net/http"

	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/internal/order"
	"github.com/shopmesh/storefront/internal/store"
)

// OrderHandler handles HTTP requests for order summary endpoints.
type OrderHandler struct {
	resolver *order.Resolver
	sessions *store.Manager
	logger   *slog.Logger
}

// NewOrderHandler creates a new order HTTP handler.
func NewOrderHandler(resolver *order.Resolver, sessions *store.Manager, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		resolver: resolver,
		sessions: sessions,
		logger:   logger,
	}
}

// OrderSummaryResponse carries a resolved order and its price breakdown.
// DeliveryCharge inside the breakdown is null until the order service
// reports one.
type OrderSummaryResponse struct {
	Order     *domain.Order          `json:"order"`
	Breakdown *domain.PriceBreakdown `json:"breakdown,omitempty"`
}

// GetSummary handles GET /api/v1/storefront/orders/summary?order_id=...
// The order is fetched from the order service at most once per distinct ID
// per session; repeated requests for the same ID are served from the
// session's order slice.
func (h *OrderHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	orderID := r.URL.Query().Get("order_id")

	st := h.sessions.Get(sid)
	ord, err := h.resolver.Resolve(r.Context(), st, orderID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	breakdown := ord.Breakdown()
	writeJSON(w, http.StatusOK, response{Data: OrderSummaryResponse{
		Order:     ord,
		Breakdown: &breakdown,
	}})
}
