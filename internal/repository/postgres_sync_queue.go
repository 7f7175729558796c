package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// PostgresSyncQueueRepo implements SyncQueueRepo over sync_queue and
// cloud_data.
type PostgresSyncQueueRepo struct {
	db *sql.DB
}

func NewPostgresSyncQueueRepo(db *sql.DB) *PostgresSyncQueueRepo {
	return &PostgresSyncQueueRepo{db: db}
}

var _ SyncQueueRepo = (*PostgresSyncQueueRepo)(nil)

// MoveBatch replicates the oldest-enqueued readings in one transaction:
// either every cloud record insert and queue delete of the batch commits,
// or none do. The ON CONFLICT (reading_id) DO NOTHING on cloud_data is the
// idempotence backstop for a retry over entries whose records were already
// written.
func (r *PostgresSyncQueueRepo) MoveBatch(ctx context.Context, batchSize int, syncedAt time.Time) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin sync tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		`SELECT sq.reading_id, rd.device_id, rd.calibrated_value, rd.server_ts
		 FROM sync_queue sq
		 JOIN readings rd ON rd.id = sq.reading_id
		 ORDER BY sq.enqueued_at ASC, sq.reading_id ASC
		 LIMIT $1`,
		batchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to select queue batch: %w", err)
	}

	var batch []domain.CloudRecord
	for rows.Next() {
		var rec domain.CloudRecord
		if err := rows.Scan(&rec.ReadingID, &rec.DeviceID, &rec.Value, &rec.TS); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		batch = append(batch, rec)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, fmt.Errorf("failed to iterate queue entries: %w", err)
	}
	rows.Close()

	if len(batch) == 0 {
		return 0, nil
	}

	ids := make([]int64, 0, len(batch))
	for _, rec := range batch {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cloud_data (reading_id, device_id, sensor_value, ts, synced_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (reading_id) DO NOTHING`,
			rec.ReadingID, rec.DeviceID, rec.Value, rec.TS, syncedAt,
		); err != nil {
			return 0, fmt.Errorf("failed to insert cloud record %d: %w", rec.ReadingID, err)
		}
		ids = append(ids, rec.ReadingID)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM sync_queue WHERE reading_id = ANY($1)`,
		pq.Array(ids),
	); err != nil {
		return 0, fmt.Errorf("failed to dequeue batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sync tx: %w", err)
	}
	return len(batch), nil
}

func (r *PostgresSyncQueueRepo) Pending(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_queue`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending entries: %w", err)
	}
	return n, nil
}
