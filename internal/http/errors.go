package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// writeError maps the domain error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is an internal failure and is logged, not leaked.
func writeError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": ve.Error()})
		return
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": nf.Error()})
		return
	}
	var ce *domain.ConflictError
	if errors.As(err, &ce) {
		writeJSON(w, http.StatusConflict, map[string]any{"detail": ce.Error()})
		return
	}
	logger.Error("request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "internal error"})
}
