package domain

import "time"

// Alert levels. A reading yields at most one alert; HIGH wins when both
// bounds would match.
const (
	AlertLevelHigh = "HIGH"
	AlertLevelLow  = "LOW"
)

// Alert records a threshold breach (alerts table). References exactly one
// reading. Immutable.
type Alert struct {
	ID        int64     `db:"id"`
	DeviceID  string    `db:"device_id"`
	ReadingID int64     `db:"reading_id"`
	Level     string    `db:"level"`
	Message   string    `db:"message"`
	TS        time.Time `db:"ts"`

	// Value is the breaching calibrated value, joined in from the reading
	// for list responses. Not a column of alerts.
	Value float64 `db:"-"`
}
