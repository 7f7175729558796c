package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// HealthHandler serves GET /health: DB and Redis liveness.
type HealthHandler struct {
	db     *sql.DB
	rdb    *redis.Client
	logger *zap.Logger
}

func NewHealthHandler(db *sql.DB, rdb *redis.Client, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb, logger: logger}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		h.logger.Warn("health check: database unreachable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unhealthy", "detail": "database unreachable"})
		return
	}
	if err := h.rdb.Ping(r.Context()).Err(); err != nil {
		h.logger.Warn("health check: redis unreachable", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "unhealthy", "detail": "redis unreachable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "healthy"})
}
