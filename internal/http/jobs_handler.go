package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/repository"
	"github.com/sleeping-Zack/iot-platform/internal/service"
)

// SyncRunner triggers one replication run.
type SyncRunner interface {
	Replicate(ctx context.Context, batchSize int) (*service.SyncResult, error)
}

// ReportRunner triggers one daily aggregation run.
type ReportRunner interface {
	GenerateReport(ctx context.Context, day string) (*service.ReportResult, error)
}

// JobsHandler serves POST /sync/run, POST /reports/run and
// GET /reports/export.
type JobsHandler struct {
	sync      SyncRunner
	report    ReportRunner
	summaries repository.SummariesRepo
	zone      *time.Location
	logger    *zap.Logger
}

func NewJobsHandler(sync SyncRunner, report ReportRunner, summaries repository.SummariesRepo, zone *time.Location, logger *zap.Logger) *JobsHandler {
	return &JobsHandler{sync: sync, report: report, summaries: summaries, zone: zone, logger: logger}
}

func (h *JobsHandler) RunSync(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BatchSize int `json:"batch_size"`
	}
	if err := readBodyJSON(r, 1<<16, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid json body"})
		return
	}

	result, err := h.sync.Replicate(r.Context(), req.BatchSize)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *JobsHandler) RunReport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Day string `json:"day"`
	}
	if err := readBodyJSON(r, 1<<16, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid json body"})
		return
	}

	result, err := h.report.GenerateReport(r.Context(), req.Day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// ExportReport streams one day's summaries as an Excel workbook.
func (h *JobsHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	dayStr := r.URL.Query().Get("day")
	var day time.Time
	if dayStr == "" {
		day = service.DayOf(time.Now(), h.zone)
	} else {
		parsed, err := service.ParseDay(dayStr, h.zone)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		day = parsed
	}

	summaries, err := h.summaries.ListByDay(r.Context(), day)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	data, err := GenerateDailyReportExcel(day.Format("2006-01-02"), summaries)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	filename := fmt.Sprintf("daily_summary_%s.xlsx", day.Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
