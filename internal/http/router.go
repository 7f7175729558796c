package httpapi

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Router uses the standard library http.ServeMux (no third-party routing
// dependency).
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// RegisterTelemetryRoutes wires the ingestion, catalog, series and job
// endpoints.
func (r *Router) RegisterTelemetryRoutes(ingest *IngestHandler, devices *DeviceHandler, series *SeriesHandler, jobs *JobsHandler, health *HealthHandler) {
	r.Handle("/readings", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		ingest.PostReading(w, req)
	})

	r.Handle("/devices", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		devices.ListDevices(w, req)
	})

	// /devices/{code}/(thresholds|alerts|series|daily)
	r.Handle("/devices/", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		rest := strings.TrimPrefix(req.URL.Path, "/devices/")
		parts := strings.SplitN(rest, "/", 2)
		code := parts[0]
		if code == "" || len(parts) < 2 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		switch parts[1] {
		case "thresholds":
			devices.GetThresholds(w, req, code)
		case "alerts":
			devices.ListAlerts(w, req, code)
		case "series":
			series.GetSeries(w, req, code)
		case "daily":
			series.GetDaily(w, req, code)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	r.Handle("/sync/run", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		jobs.RunSync(w, req)
	})

	r.Handle("/reports/run", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		jobs.RunReport(w, req)
	})

	r.Handle("/reports/export", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		jobs.ExportReport(w, req)
	})

	r.Handle("/health", func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		health.Check(w, req)
	})
}
