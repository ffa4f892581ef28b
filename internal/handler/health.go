package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/sakif/order-desk/internal/logging"
)

// Pinger is anything that can report whether it is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports whether the store answers.
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

// HandleHealth pings the store with a short deadline.
//
// HTTP: GET /health → 200 {"status": "ok"} or 503 with code "unavailable"
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		logging.FromContext(r.Context(), h.logger).Warn("health check failed", slog.String("error", err.Error()))
		WriteErrorCode(w, http.StatusServiceUnavailable, "unavailable", "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
