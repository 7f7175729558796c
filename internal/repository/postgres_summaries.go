package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// PostgresSummariesRepo implements SummariesRepo over daily_summary,
// replacing the original system's opaque report stored procedure with
// explicit aggregate + upsert SQL.
type PostgresSummariesRepo struct {
	db *sql.DB
}

func NewPostgresSummariesRepo(db *sql.DB) *PostgresSummariesRepo {
	return &PostgresSummariesRepo{db: db}
}

var _ SummariesRepo = (*PostgresSummariesRepo)(nil)

func (r *PostgresSummariesRepo) AggregateWindow(ctx context.Context, from, to time.Time) ([]domain.DeviceDayStats, error) {
	query := `SELECT rd.device_id,
			COUNT(*),
			AVG(rd.calibrated_value),
			MAX(rd.calibrated_value),
			MIN(rd.calibrated_value),
			COALESCE(al.alert_count, 0)
		FROM readings rd
		LEFT JOIN (
			SELECT device_id, COUNT(*) AS alert_count
			FROM alerts
			WHERE ts >= $1 AND ts < $2
			GROUP BY device_id
		) al ON al.device_id = rd.device_id
		WHERE rd.server_ts >= $1 AND rd.server_ts < $2
		GROUP BY rd.device_id, al.alert_count
		ORDER BY rd.device_id`

	rows, err := r.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate window: %w", err)
	}
	defer rows.Close()

	var stats []domain.DeviceDayStats
	for rows.Next() {
		var s domain.DeviceDayStats
		if err := rows.Scan(&s.DeviceID, &s.Count, &s.Avg, &s.Max, &s.Min, &s.AlertCount); err != nil {
			return nil, fmt.Errorf("failed to scan window stats: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate window stats: %w", err)
	}
	return stats, nil
}

func (r *PostgresSummariesRepo) Upsert(ctx context.Context, s *domain.DailySummary) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO daily_summary (day, device_id, count_records, avg_value, max_value, min_value, alert_count, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (day, device_id)
		 DO UPDATE SET count_records = EXCLUDED.count_records,
		               avg_value = EXCLUDED.avg_value,
		               max_value = EXCLUDED.max_value,
		               min_value = EXCLUDED.min_value,
		               alert_count = EXCLUDED.alert_count,
		               generated_at = EXCLUDED.generated_at`,
		s.Day.Format("2006-01-02"), s.DeviceID, s.CountRecords,
		s.AvgValue, s.MaxValue, s.MinValue, s.AlertCount, s.GeneratedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily summary: %w", err)
	}
	return nil
}

const summaryColumns = `day, device_id, count_records, avg_value, max_value, min_value, alert_count, generated_at`

func (r *PostgresSummariesRepo) Range(ctx context.Context, deviceID string, startDay, endDay time.Time) ([]domain.DailySummary, error) {
	query := `SELECT ` + summaryColumns + ` FROM daily_summary
		WHERE device_id = $1 AND day >= $2 AND day <= $3
		ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, query,
		deviceID, startDay.Format("2006-01-02"), endDay.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query summary range: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, false)
}

func (r *PostgresSummariesRepo) ListByDay(ctx context.Context, day time.Time) ([]domain.DailySummary, error) {
	query := `SELECT ds.day, ds.device_id, ds.count_records, ds.avg_value, ds.max_value,
			ds.min_value, ds.alert_count, ds.generated_at, d.device_code
		FROM daily_summary ds
		JOIN devices d ON d.device_id = ds.device_id
		WHERE ds.day = $1
		ORDER BY d.device_code ASC`

	rows, err := r.db.QueryContext(ctx, query, day.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query summaries by day: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows, true)
}

func scanSummaries(rows *sql.Rows, withCode bool) ([]domain.DailySummary, error) {
	var summaries []domain.DailySummary
	for rows.Next() {
		var s domain.DailySummary
		dest := []any{&s.Day, &s.DeviceID, &s.CountRecords, &s.AvgValue, &s.MaxValue, &s.MinValue, &s.AlertCount, &s.GeneratedAt}
		if withCode {
			dest = append(dest, &s.DeviceCode)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan daily summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate daily summaries: %w", err)
	}
	return summaries, nil
}
