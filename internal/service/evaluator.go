package service

import (
	"database/sql"
	"fmt"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// EvaluateThreshold decides whether a calibrated value breaches the
// device's bounds. HIGH is checked before LOW: when misconfigured bounds
// (hi < lo) make a value match both, HIGH wins. This ordering is a fixed
// tie-break, not configurable. Returns nil when nothing is breached.
func EvaluateThreshold(value float64, hi, lo sql.NullFloat64) *domain.AlertDraft {
	if hi.Valid && value > hi.Float64 {
		return &domain.AlertDraft{
			Level:   domain.AlertLevelHigh,
			Message: fmt.Sprintf("value %g above threshold_hi %g", value, hi.Float64),
		}
	}
	if lo.Valid && value < lo.Float64 {
		return &domain.AlertDraft{
			Level:   domain.AlertLevelLow,
			Message: fmt.Sprintf("value %g below threshold_lo %g", value, lo.Float64),
		}
	}
	return nil
}
