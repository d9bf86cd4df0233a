package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ParseSpeciesID extracts and validates the species id from the request path.
// Returns the parsed id and true on success, or 0 and false on error (after
// writing an error response).
// Expects path parameter: id
func ParseSpeciesID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	idStr := r.PathValue("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_species_id", "Species ID must be a positive integer"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}
