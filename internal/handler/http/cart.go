package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shopmesh/storefront/internal/cart"
	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/internal/store"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	mutator  *cart.Mutator
	sessions *store.Manager
	logger   *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(mutator *cart.Mutator, sessions *store.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		mutator:  mutator,
		sessions: sessions,
		logger:   logger,
	}
}

// --- Request DTOs ---

// ChangeQuantityRequest is the JSON request body for adjusting an item's
// quantity. Delta is a signed step; zero is accepted and resolves to the
// item's current quantity.
type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

// --- Response DTOs ---

// CartResponse is the cart slice of the session.
type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Error string            `json:"error,omitempty"`
}

// --- Handlers ---

// GetCart handles GET /api/v1/storefront/cart. The cart is refreshed from
// the cart service; a failed refresh still returns 200 with the last-known
// items and the slice's error string.
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	st := h.sessions.Get(sid)
	if _, err := h.mutator.Load(r.Context(), st); err != nil {
		h.logger.WarnContext(r.Context(), "cart refresh failed",
			slog.String("error", err.Error()),
		)
	}

	snap := st.CartSnapshot()
	writeJSON(w, http.StatusOK, response{Data: CartResponse{
		Items: snap.Items,
		Error: snap.Error,
	}})
}

// ChangeQuantity handles PATCH /api/v1/storefront/cart/items/{itemId}.
// A delta that would push the quantity below one is a no-op: the item is
// returned unchanged and the cart service is not contacted.
func (h *CartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	itemID := chi.URLParam(r, "itemId")

	var req ChangeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	st := h.sessions.Get(sid)
	item, err := h.mutator.ChangeQuantity(r.Context(), st, itemID, req.Delta)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: item})
}

// RemoveItem handles DELETE /api/v1/storefront/cart/items/{itemId}.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	itemID := chi.URLParam(r, "itemId")

	st := h.sessions.Get(sid)
	if err := h.mutator.RemoveItem(r.Context(), st, itemID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{"status": "removed"}})
}
