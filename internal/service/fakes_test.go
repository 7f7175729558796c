package service

import (
	"context"
	"errors"
	"time"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
	"github.com/sleeping-Zack/iot-platform/internal/store"
)

// In-memory repository fakes for unit tests.

type fakeDevicesRepo struct {
	devices map[string]*domain.Device
}

func (f *fakeDevicesRepo) GetByCode(ctx context.Context, code string) (*domain.Device, error) {
	d, ok := f.devices[code]
	if !ok {
		return nil, &domain.NotFoundError{Resource: "device", Key: code}
	}
	return d, nil
}

func (f *fakeDevicesRepo) List(ctx context.Context) ([]domain.Device, error) {
	var out []domain.Device
	for _, d := range f.devices {
		out = append(out, *d)
	}
	return out, nil
}

type fakeReadingsRepo struct {
	nextID   int64
	accepted []*domain.AcceptedReading
	latest   []domain.SeriesPoint
	ranged   []domain.SeriesPoint

	latestCalls []int
	rangeCalls  []rangeCall
	createErr   error
}

type rangeCall struct {
	from, to *time.Time
	limit    int
}

func (f *fakeReadingsRepo) CreateAccepted(ctx context.Context, a *domain.AcceptedReading) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.accepted = append(f.accepted, a)
	f.nextID++
	return f.nextID, nil
}

func (f *fakeReadingsRepo) SeriesLatest(ctx context.Context, deviceID string, limit int) ([]domain.SeriesPoint, error) {
	f.latestCalls = append(f.latestCalls, limit)
	if limit > len(f.latest) {
		limit = len(f.latest)
	}
	return append([]domain.SeriesPoint(nil), f.latest[:limit]...), nil
}

func (f *fakeReadingsRepo) SeriesRange(ctx context.Context, deviceID string, from, to *time.Time, limit int) ([]domain.SeriesPoint, error) {
	f.rangeCalls = append(f.rangeCalls, rangeCall{from: from, to: to, limit: limit})
	return append([]domain.SeriesPoint(nil), f.ranged...), nil
}

type fakeSyncQueueRepo struct {
	moved      int
	batchSizes []int
	moveErr    error
}

func (f *fakeSyncQueueRepo) MoveBatch(ctx context.Context, batchSize int, syncedAt time.Time) (int, error) {
	f.batchSizes = append(f.batchSizes, batchSize)
	if f.moveErr != nil {
		return 0, f.moveErr
	}
	return f.moved, nil
}

func (f *fakeSyncQueueRepo) Pending(ctx context.Context) (int, error) { return 0, nil }

type fakeSummariesRepo struct {
	stats    []domain.DeviceDayStats
	upserted []*domain.DailySummary
	ranged   []domain.DailySummary

	windows    []window
	rangeCalls []summaryRangeCall
	upsertErr  error
}

type window struct {
	from, to time.Time
}

type summaryRangeCall struct {
	deviceID         string
	startDay, endDay time.Time
}

func (f *fakeSummariesRepo) AggregateWindow(ctx context.Context, from, to time.Time) ([]domain.DeviceDayStats, error) {
	f.windows = append(f.windows, window{from: from, to: to})
	return f.stats, nil
}

func (f *fakeSummariesRepo) Upsert(ctx context.Context, s *domain.DailySummary) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, s)
	return nil
}

func (f *fakeSummariesRepo) Range(ctx context.Context, deviceID string, startDay, endDay time.Time) ([]domain.DailySummary, error) {
	f.rangeCalls = append(f.rangeCalls, summaryRangeCall{deviceID: deviceID, startDay: startDay, endDay: endDay})
	return f.ranged, nil
}

func (f *fakeSummariesRepo) ListByDay(ctx context.Context, day time.Time) ([]domain.DailySummary, error) {
	return f.ranged, nil
}

type fakeLocker struct {
	held     bool
	acquired []string
	released int
	err      error
}

func (f *fakeLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.held {
		return nil, store.ErrLeaseHeld
	}
	f.acquired = append(f.acquired, name)
	return func(context.Context) error {
		f.released++
		return nil
	}, nil
}

var errBoom = errors.New("boom")
