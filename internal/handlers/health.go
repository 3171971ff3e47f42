package handlers

import (
	"context"
	"database/sql"
	"net/http"
	"time"
)

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db             *sql.DB
	generationKeys int
	scraperReady   bool
	checkTimeout   time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB, generationKeys int, scraperReady bool) *HealthHandler {
	return &HealthHandler{
		db:             db,
		generationKeys: generationKeys,
		scraperReady:   scraperReady,
		checkTimeout:   5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks"`
	Issues    []string          `json:"issues,omitempty"`
}

// ServeHTTP handles GET /api/health. The database is the only hard
// dependency; missing credentials degrade the status without failing it,
// since chat still answers from general knowledge.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := make(map[string]string)
	var issues []string

	pingCtx, cancel := context.WithTimeout(ctx, h.checkTimeout)
	defer cancel()
	if err := h.db.PingContext(pingCtx); err != nil {
		checks["database"] = "unhealthy"
		issues = append(issues, "database unreachable: "+err.Error())
	} else {
		checks["database"] = "healthy"
	}

	if h.generationKeys == 0 {
		checks["generation"] = "unconfigured"
		issues = append(issues, "no generation API keys configured")
	} else {
		checks["generation"] = "healthy"
	}

	if h.scraperReady {
		checks["scraper"] = "healthy"
	} else {
		checks["scraper"] = "unconfigured"
	}

	status := "healthy"
	statusCode := http.StatusOK
	if checks["database"] != "healthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	} else if len(issues) > 0 {
		status = "degraded"
	}

	writeJSON(ctx, w, statusCode, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}
