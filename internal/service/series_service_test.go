package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

func newSeriesFixture(zone *time.Location) (*SeriesService, *fakeReadingsRepo, *fakeSummariesRepo) {
	devices := &fakeDevicesRepo{devices: map[string]*domain.Device{
		"T-001": {DeviceID: "dev-1", DeviceCode: "T-001"},
	}}
	readings := &fakeReadingsRepo{}
	summaries := &fakeSummariesRepo{}
	return NewSeriesService(devices, readings, summaries, zone, zap.NewNop()), readings, summaries
}

func TestQuerySeries_UnknownDevice(t *testing.T) {
	svc, _, _ := newSeriesFixture(time.UTC)

	_, err := svc.QuerySeries(context.Background(), "T-999", "", "", 0)
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestQuerySeries_NoBoundsReturnsNewestAscending(t *testing.T) {
	svc, readings, _ := newSeriesFixture(time.UTC)
	base := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	// repository hands back newest first
	readings.latest = []domain.SeriesPoint{
		{TS: base.Add(2 * time.Minute), Value: 3},
		{TS: base.Add(time.Minute), Value: 2},
		{TS: base, Value: 1},
	}

	out, err := svc.QuerySeries(context.Background(), "T-001", "", "", 0)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 1.0, out[0].Value)
	assert.Equal(t, 3.0, out[2].Value)
	assert.Equal(t, "2025-08-01T12:00:00", out[0].TS)

	// default limit applies
	assert.Equal(t, []int{DefaultSeriesLimit}, readings.latestCalls)
}

func TestQuerySeries_LimitClamped(t *testing.T) {
	svc, readings, _ := newSeriesFixture(time.UTC)

	_, err := svc.QuerySeries(context.Background(), "T-001", "", "", 999999)
	require.NoError(t, err)
	_, err = svc.QuerySeries(context.Background(), "T-001", "", "", -3)
	require.NoError(t, err)
	assert.Equal(t, []int{MaxSeriesLimit, 1}, readings.latestCalls)
}

func TestQuerySeries_WithBoundsUsesRangeQuery(t *testing.T) {
	zone := berlin(t)
	svc, readings, _ := newSeriesFixture(zone)
	readings.ranged = []domain.SeriesPoint{
		{TS: time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC), Value: 7},
	}

	out, err := svc.QuerySeries(context.Background(), "T-001", "2025-08-01", "2025-08-02", 0)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "2025-08-01T12:00:00", out[0].TS) // rendered in Berlin

	require.Len(t, readings.rangeCalls, 1)
	call := readings.rangeCalls[0]
	require.NotNil(t, call.from)
	require.NotNil(t, call.to)
	assert.Equal(t, time.Date(2025, 8, 1, 0, 0, 0, 0, zone), *call.from)
	assert.Equal(t, time.Date(2025, 8, 2, 23, 59, 59, 0, zone), *call.to)
	assert.Empty(t, readings.latestCalls)
}

func TestQuerySeries_MalformedBound(t *testing.T) {
	svc, readings, _ := newSeriesFixture(time.UTC)

	_, err := svc.QuerySeries(context.Background(), "T-001", "not-a-date", "", 0)
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Empty(t, readings.rangeCalls)
	assert.Empty(t, readings.latestCalls)
}

func TestQueryDaily_DefaultSevenDaysEndingToday(t *testing.T) {
	zone := berlin(t)
	svc, _, summaries := newSeriesFixture(zone)

	_, err := svc.QueryDaily(context.Background(), "T-001", 0, "", "")
	require.NoError(t, err)

	require.Len(t, summaries.rangeCalls, 1)
	call := summaries.rangeCalls[0]
	today := DayOf(time.Now(), zone)
	assert.Equal(t, today, call.endDay)
	assert.Equal(t, today.AddDate(0, 0, -6), call.startDay)
	assert.Equal(t, "dev-1", call.deviceID)
}

func TestQueryDaily_ExplicitToDerivesStart(t *testing.T) {
	zone := berlin(t)
	svc, _, summaries := newSeriesFixture(zone)

	_, err := svc.QueryDaily(context.Background(), "T-001", 3, "", "2025-08-23")
	require.NoError(t, err)

	call := summaries.rangeCalls[0]
	assert.Equal(t, time.Date(2025, 8, 23, 0, 0, 0, 0, zone), call.endDay)
	assert.Equal(t, time.Date(2025, 8, 21, 0, 0, 0, 0, zone), call.startDay)
}

func TestQueryDaily_DaysClamped(t *testing.T) {
	zone := berlin(t)
	svc, _, summaries := newSeriesFixture(zone)

	_, err := svc.QueryDaily(context.Background(), "T-001", 500, "", "2025-08-23")
	require.NoError(t, err)

	call := summaries.rangeCalls[0]
	assert.Equal(t, call.endDay.AddDate(0, 0, -(MaxDailyDays-1)), call.startDay)
}

func TestQueryDaily_NullMetricsPassThrough(t *testing.T) {
	svc, _, summaries := newSeriesFixture(time.UTC)
	summaries.ranged = []domain.DailySummary{
		{
			Day:          time.Date(2025, 8, 23, 0, 0, 0, 0, time.UTC),
			DeviceID:     "dev-1",
			CountRecords: 0,
			AvgValue:     sql.NullFloat64{},
			AlertCount:   0,
			GeneratedAt:  time.Now(),
		},
	}

	out, err := svc.QueryDaily(context.Background(), "T-001", 0, "", "")
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Nil(t, out[0]["avg_value"])
	assert.Equal(t, "2025-08-23", out[0]["day"])
}
