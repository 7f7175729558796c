package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
	"github.com/sleeping-Zack/iot-platform/internal/repository"
)

// Query limits.
const (
	DefaultSeriesLimit = 500
	MaxSeriesLimit     = 5000
	DefaultDailyDays   = 7
	MaxDailyDays       = 90
)

// SeriesService serves read-only raw and rollup series queries, with all
// zone handling confined to the query boundary.
type SeriesService struct {
	devices   repository.DevicesRepo
	readings  repository.ReadingsRepo
	summaries repository.SummariesRepo
	zone      *time.Location
	logger    *zap.Logger
}

func NewSeriesService(devices repository.DevicesRepo, readings repository.ReadingsRepo, summaries repository.SummariesRepo, zone *time.Location, logger *zap.Logger) *SeriesService {
	return &SeriesService{devices: devices, readings: readings, summaries: summaries, zone: zone, logger: logger}
}

// SeriesPointOut is one rendered raw series point. TS is a local
// wall-clock string without a zone suffix.
type SeriesPointOut struct {
	TS    string  `json:"ts"`
	Value float64 `json:"value"`
}

// QuerySeries returns the raw series for a device, ascending by time.
// Without bounds it returns the most recent limit points; with any bound
// it returns the earliest limit points inside the range.
func (s *SeriesService) QuerySeries(ctx context.Context, deviceCode, fromStr, toStr string, limit int) ([]SeriesPointOut, error) {
	device, err := s.devices.GetByCode(ctx, deviceCode)
	if err != nil {
		return nil, err
	}

	if limit == 0 {
		limit = DefaultSeriesLimit
	}
	limit = clampInt(limit, 1, MaxSeriesLimit)

	from, err := ParseBound(fromStr, s.zone, false)
	if err != nil {
		return nil, err
	}
	to, err := ParseBound(toStr, s.zone, true)
	if err != nil {
		return nil, err
	}

	var points []domain.SeriesPoint
	if from == nil && to == nil {
		// newest-first fetch, reversed so output stays ascending
		points, err = s.readings.SeriesLatest(ctx, device.DeviceID, limit)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
			points[i], points[j] = points[j], points[i]
		}
	} else {
		points, err = s.readings.SeriesRange(ctx, device.DeviceID, from, to, limit)
		if err != nil {
			return nil, err
		}
	}

	out := make([]SeriesPointOut, 0, len(points))
	for _, p := range points {
		out = append(out, SeriesPointOut{TS: FormatLocal(p.TS, s.zone), Value: p.Value})
	}
	return out, nil
}

// QueryDaily returns rollups for [start_day, end_day] inclusive, ascending.
// days only applies when explicit bounds are absent; an explicit to with
// no from derives start_day = to_day - (days-1).
func (s *SeriesService) QueryDaily(ctx context.Context, deviceCode string, days int, fromStr, toStr string) ([]map[string]any, error) {
	device, err := s.devices.GetByCode(ctx, deviceCode)
	if err != nil {
		return nil, err
	}

	if days == 0 {
		days = DefaultDailyDays
	}
	days = clampInt(days, 1, MaxDailyDays)

	var endDay time.Time
	if toStr != "" {
		to, err := ParseBound(toStr, s.zone, true)
		if err != nil {
			return nil, err
		}
		endDay = DayOf(*to, s.zone)
	} else {
		endDay = DayOf(time.Now(), s.zone)
	}

	var startDay time.Time
	if fromStr != "" {
		from, err := ParseBound(fromStr, s.zone, false)
		if err != nil {
			return nil, err
		}
		startDay = DayOf(*from, s.zone)
	} else {
		startDay = endDay.AddDate(0, 0, -(days - 1))
	}

	summaries, err := s.summaries.Range(ctx, device.DeviceID, startDay, endDay)
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(summaries))
	for i := range summaries {
		out = append(out, summaries[i].ToJSON())
	}
	return out, nil
}
