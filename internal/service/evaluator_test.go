package service

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

func null() sql.NullFloat64 { return sql.NullFloat64{} }

func set(v float64) sql.NullFloat64 { return sql.NullFloat64{Float64: v, Valid: true} }

func TestEvaluateThreshold_High(t *testing.T) {
	draft := EvaluateThreshold(101, set(100), null())
	require.NotNil(t, draft)
	assert.Equal(t, domain.AlertLevelHigh, draft.Level)
	assert.Contains(t, draft.Message, "101")
	assert.Contains(t, draft.Message, "100")
}

func TestEvaluateThreshold_Low(t *testing.T) {
	draft := EvaluateThreshold(-5, null(), set(0))
	require.NotNil(t, draft)
	assert.Equal(t, domain.AlertLevelLow, draft.Level)
	assert.Contains(t, draft.Message, "threshold_lo")
}

func TestEvaluateThreshold_NoBreach(t *testing.T) {
	assert.Nil(t, EvaluateThreshold(50, set(100), set(0)))
	assert.Nil(t, EvaluateThreshold(50, null(), null()))
}

func TestEvaluateThreshold_BoundsAreExclusive(t *testing.T) {
	// equal to a bound is not a breach
	assert.Nil(t, EvaluateThreshold(100, set(100), null()))
	assert.Nil(t, EvaluateThreshold(0, null(), set(0)))
}

func TestEvaluateThreshold_HighWinsWhenBothMatch(t *testing.T) {
	// misconfigured bounds (hi < lo): a value between them breaches both,
	// HIGH must win
	draft := EvaluateThreshold(50, set(10), set(90))
	require.NotNil(t, draft)
	assert.Equal(t, domain.AlertLevelHigh, draft.Level)
}

func TestEvaluateThreshold_OnlyHiConfigured(t *testing.T) {
	draft := EvaluateThreshold(-1000, set(100), null())
	assert.Nil(t, draft)
}
