package httpapi

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/service"
)

// Ingestor accepts one decoded reading.
type Ingestor interface {
	Ingest(ctx context.Context, deviceCode string, rawValue float64) (*service.Receipt, error)
}

// IngestHandler serves POST /readings.
type IngestHandler struct {
	svc    Ingestor
	logger *zap.Logger
}

func NewIngestHandler(svc Ingestor, logger *zap.Logger) *IngestHandler {
	return &IngestHandler{svc: svc, logger: logger}
}

type ingestRequest struct {
	DeviceCode  string   `json:"device_code"`
	SensorValue *float64 `json:"sensor_value"`
}

func (h *IngestHandler) PostReading(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := readBodyJSON(r, 1<<20, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid json body"})
		return
	}
	if req.DeviceCode == "" || req.SensorValue == nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "device_code & sensor_value required"})
		return
	}

	receipt, err := h.svc.Ingest(r.Context(), req.DeviceCode, *req.SensorValue)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accepted":    true,
		"receipt_id":  receipt.ReceiptID,
		"reading_id":  receipt.ReadingID,
		"accepted_at": receipt.AcceptedAt,
	})
}
