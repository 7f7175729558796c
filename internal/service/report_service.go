package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
	"github.com/sleeping-Zack/iot-platform/internal/repository"
	"github.com/sleeping-Zack/iot-platform/internal/store"
)

const reportLeaseName = "report"

// ReportService is the daily aggregator. Each device's rollup is upserted
// in its own statement, so an aborted run leaves the committed devices
// valid and a re-run recomputes the rest.
type ReportService struct {
	summaries repository.SummariesRepo
	locker    store.Locker
	leaseTTL  time.Duration
	zone      *time.Location
	logger    *zap.Logger
}

func NewReportService(summaries repository.SummariesRepo, locker store.Locker, leaseTTL time.Duration, zone *time.Location, logger *zap.Logger) *ReportService {
	return &ReportService{summaries: summaries, locker: locker, leaseTTL: leaseTTL, zone: zone, logger: logger}
}

// ReportResult reports one aggregation run.
type ReportResult struct {
	Day     string `json:"day"`
	Updated int    `json:"updated"`
	Skipped bool   `json:"skipped"`
}

// GenerateReport rolls up one local day. An empty day means the current
// day in the reference zone. Devices with no readings in the window are
// skipped: gaps stay absent rows, never zero-filled.
func (s *ReportService) GenerateReport(ctx context.Context, day string) (*ReportResult, error) {
	var d time.Time
	if day == "" {
		d = DayOf(time.Now(), s.zone)
	} else {
		parsed, err := ParseDay(day, s.zone)
		if err != nil {
			return nil, err
		}
		d = parsed
	}
	windowStart := d
	windowEnd := d.AddDate(0, 0, 1)

	release, err := s.locker.Acquire(ctx, reportLeaseName, s.leaseTTL)
	if errors.Is(err, store.ErrLeaseHeld) {
		s.logger.Info("report run skipped, lease held", zap.String("day", d.Format("2006-01-02")))
		return &ReportResult{Day: d.Format("2006-01-02"), Skipped: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to acquire report lease: %w", err)
	}
	defer func() {
		if err := release(ctx); err != nil {
			s.logger.Warn("failed to release report lease", zap.Error(err))
		}
	}()

	stats, err := s.summaries.AggregateWindow(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	generatedAt := time.Now().UTC()
	updated := 0
	for _, st := range stats {
		summary := &domain.DailySummary{
			Day:          d,
			DeviceID:     st.DeviceID,
			CountRecords: st.Count,
			AvgValue:     sql.NullFloat64{Float64: st.Avg, Valid: true},
			MaxValue:     sql.NullFloat64{Float64: st.Max, Valid: true},
			MinValue:     sql.NullFloat64{Float64: st.Min, Valid: true},
			AlertCount:   st.AlertCount,
			GeneratedAt:  generatedAt,
		}
		if err := s.summaries.Upsert(ctx, summary); err != nil {
			// already-committed devices stay valid; re-invocation recomputes the rest
			return nil, fmt.Errorf("failed after %d of %d devices: %w", updated, len(stats), err)
		}
		updated++
	}

	s.logger.Info("report run finished",
		zap.String("day", d.Format("2006-01-02")),
		zap.Int("devices_updated", updated),
	)
	return &ReportResult{Day: d.Format("2006-01-02"), Updated: updated}, nil
}
