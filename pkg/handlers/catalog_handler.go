package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/auth"
	"github.com/critterdex/critterdex/pkg/services"
)

// CatalogListResponse for GET /api/dex
type CatalogListResponse struct {
	Items []services.SpeciesSummary `json:"items"`
	Page  int                       `json:"page"`
	Total int                       `json:"total"`
}

// CatalogHandler handles catalog browsing HTTP requests.
type CatalogHandler struct {
	catalogService services.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService services.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the catalog handler's routes on the given mux.
func (h *CatalogHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/dex", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("GET /api/dex/{id}", authMiddleware.RequireAuth(h.Detail))
}

// List handles GET /api/dex
// Query parameters: page, page_size, search, type, stage, description.
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	q := r.URL.Query()
	filters := services.Filters{
		Search:      q.Get("search"),
		Type:        q.Get("type"),
		Stage:       q.Get("stage"),
		Description: q.Get("description"),
	}
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	result, err := h.catalogService.Query(r.Context(), userID, filters, page, pageSize)
	if err != nil {
		h.logger.Error("Failed to query catalog", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "catalog_query_failed", "Internal server error")
		return
	}

	response := CatalogListResponse{
		Items: result.Items,
		Page:  page,
		Total: result.Total,
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Detail handles GET /api/dex/{id}
func (h *CatalogHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	speciesID, ok := ParseSpeciesID(w, r, h.logger)
	if !ok {
		return
	}

	detail, err := h.catalogService.Detail(r.Context(), userID, speciesID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			h.writeError(w, http.StatusNotFound, "species_not_found", "Species not found")
			return
		}
		h.logger.Error("Failed to get species detail",
			zap.Int("species_id", speciesID),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "species_detail_failed", "Internal server error")
		return
	}

	if err := WriteJSON(w, http.StatusOK, detail); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *CatalogHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
