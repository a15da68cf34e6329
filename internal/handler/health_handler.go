package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

// Pinger умеет проверить соединение с БД (*sqlx.DB, *sql.DB)
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler отвечает на GET /healthz
type HealthHandler struct {
	db     Pinger
	logger *slog.Logger
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{db: db, logger: logger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("health check failed", "error", err)
		respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}
