package http

import (
	"context"
	"net/http"
	"time"

	"github.com/velkyr/account-api/internal/httputil"
	"github.com/velkyr/account-api/internal/logging"
)

const healthPingTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthResponse is the health check response body
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// HealthHandler reports process and dependency health. The database is the
// hard dependency; the cache only degrades the status because the limiter
// fails open without it.
type HealthHandler struct {
	db     Pinger
	cache  Pinger
	start  time.Time
	logger *logging.Logger
}

func NewHealthHandler(db, cache Pinger, logger *logging.Logger) *HealthHandler {
	return &HealthHandler{
		db:     db,
		cache:  cache,
		start:  time.Now(),
		logger: logger,
	}
}

func (h *HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthPingTimeout)
	defer cancel()

	uptime := time.Since(h.start).Round(time.Second).String()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("health check: database unreachable", "error", err.Error())
		httputil.RespondJSON(w, HealthResponse{
			Status:   "unavailable",
			Database: "down",
			Uptime:   uptime,
		}, http.StatusServiceUnavailable)
		return
	}

	status := "ok"
	if h.cache != nil {
		if err := h.cache.PingContext(ctx); err != nil {
			h.logger.Warn("health check: cache unreachable", "error", err.Error())
			status = "degraded"
		}
	}

	httputil.RespondJSON(w, HealthResponse{
		Status:   status,
		Database: "up",
		Uptime:   uptime,
	}, http.StatusOK)
}
