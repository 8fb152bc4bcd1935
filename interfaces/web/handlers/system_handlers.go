package handlers

import (
	"net/http"
)

// HealthChecker reports storage health.
type HealthChecker interface {
	Health() (map[string]interface{}, error)
}

// SystemHandlers serves operational endpoints.
type SystemHandlers struct {
	db HealthChecker
}

// NewSystemHandlers creates system handlers over db.
func NewSystemHandlers(db HealthChecker) *SystemHandlers {
	return &SystemHandlers{db: db}
}

// Health reports database pool statistics.
func (h *SystemHandlers) Health(w http.ResponseWriter, r *http.Request) {
	stats, err := h.db.Health()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"database": stats,
	})
}
