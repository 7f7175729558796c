package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/repository"
	"github.com/sleeping-Zack/iot-platform/internal/service"
)

// Alert list limit bounds.
const (
	defaultAlertLimit = 50
	maxAlertLimit     = 200
)

// DeviceHandler serves the read-only device catalog endpoints:
// GET /devices, GET /devices/{code}/thresholds, GET /devices/{code}/alerts.
type DeviceHandler struct {
	devices repository.DevicesRepo
	alerts  repository.AlertsRepo
	zone    *time.Location
	logger  *zap.Logger
}

func NewDeviceHandler(devices repository.DevicesRepo, alerts repository.AlertsRepo, zone *time.Location, logger *zap.Logger) *DeviceHandler {
	return &DeviceHandler{devices: devices, alerts: alerts, zone: zone, logger: logger}
}

func (h *DeviceHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devices, err := h.devices.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	out := make([]map[string]any, 0, len(devices))
	for i := range devices {
		out = append(out, devices[i].ToJSON())
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *DeviceHandler) GetThresholds(w http.ResponseWriter, r *http.Request, code string) {
	device, err := h.devices.GetByCode(r.Context(), code)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	resp := map[string]any{"threshold_hi": nil, "threshold_lo": nil}
	if device.ThresholdHi.Valid {
		resp["threshold_hi"] = device.ThresholdHi.Float64
	}
	if device.ThresholdLo.Valid {
		resp["threshold_lo"] = device.ThresholdLo.Float64
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DeviceHandler) ListAlerts(w http.ResponseWriter, r *http.Request, code string) {
	device, err := h.devices.GetByCode(r.Context(), code)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	limit := parseInt(r.URL.Query().Get("limit"), defaultAlertLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > maxAlertLimit {
		limit = maxAlertLimit
	}

	alerts, err := h.alerts.ListByDevice(r.Context(), device.DeviceID, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]map[string]any, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, map[string]any{
			"id":         a.ID,
			"level":      a.Level,
			"value":      a.Value,
			"ts":         service.FormatLocal(a.TS, h.zone),
			"message":    a.Message,
			"reading_id": a.ReadingID,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
