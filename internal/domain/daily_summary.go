package domain

import (
	"database/sql"
	"time"
)

// DailySummary is the per-device daily rollup (daily_summary table),
// keyed uniquely by (day, device_id) and always upserted, never duplicated.
type DailySummary struct {
	Day          time.Time       `db:"day"`
	DeviceID     string          `db:"device_id"`
	CountRecords int             `db:"count_records"`
	AvgValue     sql.NullFloat64 `db:"avg_value"`
	MaxValue     sql.NullFloat64 `db:"max_value"`
	MinValue     sql.NullFloat64 `db:"min_value"`
	AlertCount   int             `db:"alert_count"`
	GeneratedAt  time.Time       `db:"generated_at"`

	// DeviceCode is joined in for export responses; not a column.
	DeviceCode string `db:"-"`
}

// DeviceDayStats is one aggregation result row before it is upserted.
type DeviceDayStats struct {
	DeviceID   string
	Count      int
	Avg        float64
	Max        float64
	Min        float64
	AlertCount int
}

// ToJSON converts to the HTTP response shape. Nullable metrics pass
// through as null, not zero.
func (s *DailySummary) ToJSON() map[string]any {
	m := map[string]any{
		"day":           s.Day.Format("2006-01-02"),
		"device_id":     s.DeviceID,
		"count_records": s.CountRecords,
		"alert_count":   s.AlertCount,
		"generated_at":  s.GeneratedAt,
	}
	if s.AvgValue.Valid {
		m["avg_value"] = s.AvgValue.Float64
	} else {
		m["avg_value"] = nil
	}
	if s.MaxValue.Valid {
		m["max_value"] = s.MaxValue.Float64
	} else {
		m["max_value"] = nil
	}
	if s.MinValue.Valid {
		m["min_value"] = s.MinValue.Float64
	} else {
		m["min_value"] = nil
	}
	return m
}
