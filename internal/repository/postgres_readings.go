package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// PostgresReadingsRepo implements ReadingsRepo against the readings table.
type PostgresReadingsRepo struct {
	db *sql.DB
}

func NewPostgresReadingsRepo(db *sql.DB) *PostgresReadingsRepo {
	return &PostgresReadingsRepo{db: db}
}

var _ ReadingsRepo = (*PostgresReadingsRepo)(nil)

// CreateAccepted runs the four acceptance writes in one transaction: a
// crash before commit leaves no orphan queue entry and no alert without
// its reading.
func (r *PostgresReadingsRepo) CreateAccepted(ctx context.Context, a *domain.AcceptedReading) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin ingest tx: %w", err)
	}
	defer tx.Rollback()

	var sourceTS sql.NullTime
	if a.SourceTS != nil {
		sourceTS = sql.NullTime{Time: *a.SourceTS, Valid: true}
	}

	var readingID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO readings (device_id, raw_value, calibrated_value, server_ts, source_ts, quality)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		a.DeviceID, a.RawValue, a.CalibratedValue, a.AcceptedAt, sourceTS, a.Quality,
	).Scan(&readingID)
	if err != nil {
		return 0, fmt.Errorf("failed to insert reading: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE devices SET last_seen = $2 WHERE device_id = $1`,
		a.DeviceID, a.AcceptedAt,
	); err != nil {
		return 0, fmt.Errorf("failed to advance last_seen: %w", err)
	}

	if a.Alert != nil {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO alerts (device_id, reading_id, level, message, ts)
			 VALUES ($1, $2, $3, $4, $5)`,
			a.DeviceID, readingID, a.Alert.Level, a.Alert.Message, a.AcceptedAt,
		); err != nil {
			return 0, fmt.Errorf("failed to insert alert: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO sync_queue (reading_id, enqueued_at) VALUES ($1, $2)`,
		readingID, a.AcceptedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return 0, &domain.ConflictError{Msg: fmt.Sprintf("reading %d already enqueued", readingID)}
		}
		return 0, fmt.Errorf("failed to enqueue reading: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit ingest tx: %w", err)
	}
	return readingID, nil
}

func (r *PostgresReadingsRepo) SeriesLatest(ctx context.Context, deviceID string, limit int) ([]domain.SeriesPoint, error) {
	query := `SELECT server_ts, calibrated_value FROM readings
		WHERE device_id = $1
		ORDER BY server_ts DESC, id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest series: %w", err)
	}
	defer rows.Close()
	return scanSeriesPoints(rows)
}

func (r *PostgresReadingsRepo) SeriesRange(ctx context.Context, deviceID string, from, to *time.Time, limit int) ([]domain.SeriesPoint, error) {
	query := `SELECT server_ts, calibrated_value FROM readings WHERE device_id = $1`
	args := []any{deviceID}
	argN := 2

	if from != nil {
		query += fmt.Sprintf(" AND server_ts >= $%d", argN)
		args = append(args, *from)
		argN++
	}
	if to != nil {
		query += fmt.Sprintf(" AND server_ts <= $%d", argN)
		args = append(args, *to)
		argN++
	}
	query += fmt.Sprintf(" ORDER BY server_ts ASC, id ASC LIMIT $%d", argN)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query series range: %w", err)
	}
	defer rows.Close()
	return scanSeriesPoints(rows)
}

func scanSeriesPoints(rows *sql.Rows) ([]domain.SeriesPoint, error) {
	var points []domain.SeriesPoint
	for rows.Next() {
		var p domain.SeriesPoint
		if err := rows.Scan(&p.TS, &p.Value); err != nil {
			return nil, fmt.Errorf("failed to scan series point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate series points: %w", err)
	}
	return points, nil
}
