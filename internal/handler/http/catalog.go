package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/shopmesh/storefront/internal/catalog"
	"github.com/shopmesh/storefront/internal/domain"
	"github.com/shopmesh/storefront/internal/query"
	"github.com/shopmesh/storefront/internal/store"
	"github.com/shopmesh/storefront/pkg/validator"
)

// CatalogHandler handles HTTP requests for catalog browsing and filter
// manipulation.
type CatalogHandler struct {
	codec        *query.Codec
	sessions     *store.Manager
	orchestrator *catalog.Orchestrator
	logger       *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(codec *query.Codec, sessions *store.Manager, orch *catalog.Orchestrator, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		codec:        codec,
		sessions:     sessions,
		orchestrator: orch,
		logger:       logger,
	}
}

// --- Request DTOs ---

// ToggleFilterRequest is the JSON request body for toggling a filter value.
type ToggleFilterRequest struct {
	Query     string `json:"query"`
	SectionID string `json:"section_id" validate:"required"`
	Value     string `json:"value" validate:"required"`
}

// SetFilterRequest is the JSON request body for replacing a single-valued
// query parameter such as sort, price or page.
type SetFilterRequest struct {
	Query string `json:"query"`
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// --- Response DTOs ---

// CatalogResponse is the catalog slice of the session after reconciling the
// requested filter.
type CatalogResponse struct {
	Products   []domain.Product `json:"products"`
	TotalPages int              `json:"total_pages"`
	Loading    bool             `json:"loading"`
	Error      string           `json:"error,omitempty"`
}

// QueryResponse carries a canonical query string.
type QueryResponse struct {
	Query string `json:"query"`
}

// --- Handlers ---

// ListProducts handles GET /api/v1/storefront/categories/{category}/products.
// The URL query is decoded into a filter request and reconciled against the
// session's catalog slice. A failed fetch still returns 200 with the slice's
// last-known-good products and its error string.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "X-Session-ID header is required"},
		})
		return
	}

	category := chi.URLParam(r, "category")
	req := h.codec.Decode(category, r.URL.Query())

	st := h.sessions.Get(sid)
	if err := h.orchestrator.Apply(r.Context(), st, req); err != nil {
		h.logger.WarnContext(r.Context(), "catalog fetch failed",
			slog.String("category", req.Category),
			slog.String("error", err.Error()),
		)
	}

	snap := st.CatalogSnapshot()
	writeJSON(w, http.StatusOK, response{Data: CatalogResponse{
		Products:   snap.Products,
		TotalPages: snap.TotalPages,
		Loading:    snap.Loading,
		Error:      snap.Error,
	}})
}

// ToggleFilter handles POST /api/v1/storefront/filters/toggle. It flips
// membership of a value in a comma-joined filter list and returns the new
// canonical query string.
func (h *CatalogHandler) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	var req ToggleFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	values, err := url.ParseQuery(req.Query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid query string: " + err.Error()},
		})
		return
	}

	next := query.Toggle(values, req.SectionID, req.Value)
	writeJSON(w, http.StatusOK, response{Data: QueryResponse{Query: query.Encode(next)}})
}

// SetFilter handles POST /api/v1/storefront/filters/set. It replaces a
// single-valued query parameter and returns the new canonical query string.
// An empty value removes the key.
func (h *CatalogHandler) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req SetFilterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	values, err := url.ParseQuery(req.Query)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid query string: " + err.Error()},
		})
		return
	}

	next := query.SetParam(values, req.Key, req.Value)
	writeJSON(w, http.StatusOK, response{Data: QueryResponse{Query: query.Encode(next)}})
}
