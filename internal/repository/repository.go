package repository

import (
	"context"
	"time"

	"github.com/lib/pq"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// DevicesRepo reads the device catalog. The gateway is the only writer,
// and only of last_seen (inside the ingest transaction).
type DevicesRepo interface {
	GetByCode(ctx context.Context, code string) (*domain.Device, error)
	List(ctx context.Context) ([]domain.Device, error)
}

// ReadingsRepo persists accepted readings and serves raw series queries.
type ReadingsRepo interface {
	// CreateAccepted commits the whole acceptance unit in one transaction:
	// reading insert, device last_seen advance, optional alert insert and
	// sync queue entry. Returns the new reading id.
	CreateAccepted(ctx context.Context, a *domain.AcceptedReading) (int64, error)
	// SeriesLatest returns the newest points first.
	SeriesLatest(ctx context.Context, deviceID string, limit int) ([]domain.SeriesPoint, error)
	// SeriesRange returns the earliest points within [from,to] ascending.
	// Either bound may be nil.
	SeriesRange(ctx context.Context, deviceID string, from, to *time.Time, limit int) ([]domain.SeriesPoint, error)
}

// AlertsRepo serves alert list queries.
type AlertsRepo interface {
	ListByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Alert, error)
}

// SyncQueueRepo moves enqueued readings into the downstream store.
type SyncQueueRepo interface {
	// MoveBatch replicates up to batchSize oldest-enqueued readings:
	// cloud record insert plus queue entry delete, all in one transaction.
	// Returns the number of entries moved.
	MoveBatch(ctx context.Context, batchSize int, syncedAt time.Time) (int, error)
	Pending(ctx context.Context) (int, error)
}

// SummariesRepo computes and stores daily rollups.
type SummariesRepo interface {
	// AggregateWindow computes per-device count/avg/max/min over calibrated
	// values and the alert count for readings with server_ts in [from,to).
	// Devices without readings in the window do not appear.
	AggregateWindow(ctx context.Context, from, to time.Time) ([]domain.DeviceDayStats, error)
	// Upsert writes one summary row keyed by (day, device_id), overwriting
	// all computed fields when the key already exists.
	Upsert(ctx context.Context, s *domain.DailySummary) error
	// Range returns summaries for one device in [startDay, endDay]
	// inclusive, ascending by day. Days without a row are absent.
	Range(ctx context.Context, deviceID string, startDay, endDay time.Time) ([]domain.DailySummary, error)
	// ListByDay returns all summaries for one day with device codes joined,
	// ordered by device code.
	ListByDay(ctx context.Context, day time.Time) ([]domain.DailySummary, error)
}

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
