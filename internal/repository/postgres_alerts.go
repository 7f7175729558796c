package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// PostgresAlertsRepo implements AlertsRepo against the alerts table.
type PostgresAlertsRepo struct {
	db *sql.DB
}

func NewPostgresAlertsRepo(db *sql.DB) *PostgresAlertsRepo {
	return &PostgresAlertsRepo{db: db}
}

var _ AlertsRepo = (*PostgresAlertsRepo)(nil)

func (r *PostgresAlertsRepo) ListByDevice(ctx context.Context, deviceID string, limit int) ([]domain.Alert, error) {
	query := `SELECT a.id, a.device_id, a.reading_id, a.level, a.message, a.ts, rd.calibrated_value
		FROM alerts a
		JOIN readings rd ON rd.id = a.reading_id
		WHERE a.device_id = $1
		ORDER BY a.ts DESC, a.id DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, deviceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.DeviceID, &a.ReadingID, &a.Level, &a.Message, &a.TS, &a.Value); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate alerts: %w", err)
	}
	return alerts, nil
}
