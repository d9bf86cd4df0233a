package handlers

import (
	"errors"
	"net/http"
	"sort"

	"go.uber.org/zap"

	"github.com/critterdex/critterdex/pkg/apperrors"
	"github.com/critterdex/critterdex/pkg/auth"
	"github.com/critterdex/critterdex/pkg/metrics"
	"github.com/critterdex/critterdex/pkg/services"
)

// CollectionResponse for GET /api/me/collection
type CollectionResponse struct {
	Owned []int `json:"owned"`
}

// CollectionHandler handles ownership HTTP requests.
type CollectionHandler struct {
	collectionService services.CollectionService
	logger            *zap.Logger
}

// NewCollectionHandler creates a new collection handler.
func NewCollectionHandler(collectionService services.CollectionService, logger *zap.Logger) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
		logger:            logger,
	}
}

// RegisterRoutes registers the collection handler's routes on the given mux.
func (h *CollectionHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/me/collection", authMiddleware.RequireAuth(h.List))
	mux.HandleFunc("POST /api/me/collection/{id}/toggle", authMiddleware.RequireAuth(h.Toggle))
}

// List handles GET /api/me/collection
// Returns the species ids owned by the current user, sorted ascending.
func (h *CollectionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	owned, err := h.collectionService.ListOwned(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list collection",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "collection_list_failed", "Internal server error")
		return
	}

	ids := make([]int, 0, len(owned))
	for id := range owned {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	if err := WriteJSON(w, http.StatusOK, CollectionResponse{Owned: ids}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Toggle handles POST /api/me/collection/{id}/toggle
func (h *CollectionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.RequireUserID(r.Context())
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "unauthorized", "Authentication required")
		return
	}

	speciesID, ok := ParseSpeciesID(w, r, h.logger)
	if !ok {
		return
	}

	result, err := h.collectionService.Toggle(r.Context(), userID, speciesID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			metrics.ToggleErrorsTotal.WithLabelValues("not_found").Inc()
			h.writeError(w, http.StatusNotFound, "species_not_found", "Species not found")
		case errors.Is(err, apperrors.ErrNoValidTargets):
			// Data-integrity failure: the graph and the catalog disagree.
			metrics.ToggleErrorsTotal.WithLabelValues("no_valid_targets").Inc()
			h.logger.Error("Toggle rejected every candidate id",
				zap.Int("species_id", speciesID),
				zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "no_valid_targets", "Species data is inconsistent")
		default:
			metrics.ToggleErrorsTotal.WithLabelValues("store").Inc()
			h.logger.Error("Failed to toggle species",
				zap.String("user_id", userID.String()),
				zap.Int("species_id", speciesID),
				zap.Error(err))
			h.writeError(w, http.StatusInternalServerError, "toggle_failed", "Internal server error")
		}
		return
	}

	if result.Owned {
		metrics.TogglesTotal.WithLabelValues("acquire").Inc()
		metrics.CascadeSize.Observe(float64(len(result.Affected)))
	} else {
		metrics.TogglesTotal.WithLabelValues("release").Inc()
	}

	if err := WriteJSON(w, http.StatusOK, result); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *CollectionHandler) writeError(w http.ResponseWriter, status int, code, message string) {
	if err := ErrorResponse(w, status, code, message); err != nil {
		h.logger.Error("Failed to write error response", zap.Error(err))
	}
}
