package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/service"
)

// SeriesQuerier serves the read-only time-series queries.
type SeriesQuerier interface {
	QuerySeries(ctx context.Context, deviceCode, from, to string, limit int) ([]service.SeriesPointOut, error)
	QueryDaily(ctx context.Context, deviceCode string, days int, from, to string) ([]map[string]any, error)
}

// SeriesHandler serves GET /devices/{code}/series and /devices/{code}/daily.
type SeriesHandler struct {
	svc    SeriesQuerier
	logger *zap.Logger
}

func NewSeriesHandler(svc SeriesQuerier, logger *zap.Logger) *SeriesHandler {
	return &SeriesHandler{svc: svc, logger: logger}
}

func (h *SeriesHandler) GetSeries(w http.ResponseWriter, r *http.Request, code string) {
	q := r.URL.Query()
	limit := parseInt(q.Get("limit"), 0)

	points, err := h.svc.QuerySeries(r.Context(), code, q.Get("from"), q.Get("to"), limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (h *SeriesHandler) GetDaily(w http.ResponseWriter, r *http.Request, code string) {
	q := r.URL.Query()
	days := parseInt(q.Get("days"), 0)

	summaries, err := h.svc.QueryDaily(r.Context(), code, days, q.Get("from"), q.Get("to"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
