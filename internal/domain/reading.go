package domain

import (
	"database/sql"
	"time"
)

// Reading quality flags (readings table, quality column).
const (
	QualityGood = 1
	QualityBad  = 0
)

// Reading is one accepted sensor measurement (readings table). Immutable
// once created.
type Reading struct {
	ID              int64          `db:"id"`
	DeviceID        string         `db:"device_id"`
	RawValue        float64        `db:"raw_value"`
	CalibratedValue float64        `db:"calibrated_value"`
	ServerTS        time.Time      `db:"server_ts"` // assigned at acceptance
	SourceTS        sql.NullTime   `db:"source_ts"` // device-supplied, optional
	Quality         int            `db:"quality"`
	Meta            sql.NullString `db:"meta"` // opaque JSONB
}

// AlertDraft is the evaluator's decision before persistence: the breach
// level plus the message that will be stored with the Alert.
type AlertDraft struct {
	Level   string
	Message string
}

// AcceptedReading is the atomic unit the ingestion gateway persists:
// the reading itself, the last_seen advance, the optional alert and the
// sync queue entry all commit together.
type AcceptedReading struct {
	DeviceID        string
	RawValue        float64
	CalibratedValue float64
	Quality         int
	AcceptedAt      time.Time
	SourceTS        *time.Time
	Alert           *AlertDraft
}

// SeriesPoint is one (timestamp, value) pair of a raw series query.
type SeriesPoint struct {
	TS    time.Time
	Value float64
}
