package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

// PostgresDevicesRepo implements DevicesRepo against the devices table.
type PostgresDevicesRepo struct {
	db *sql.DB
}

func NewPostgresDevicesRepo(db *sql.DB) *PostgresDevicesRepo {
	return &PostgresDevicesRepo{db: db}
}

var _ DevicesRepo = (*PostgresDevicesRepo)(nil)

const deviceColumns = `device_id, device_code, device_name, location, sensor_type, unit, protocol,
		threshold_hi, threshold_lo, calibration_k, calibration_b, fw_version, sampling_hz,
		last_seen, notes, created_at`

func (r *PostgresDevicesRepo) GetByCode(ctx context.Context, code string) (*domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_code = $1`

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, code))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Resource: "device", Key: code}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query device by code: %w", err)
	}
	return d, nil
}

func (r *PostgresDevicesRepo) List(ctx context.Context) ([]domain.Device, error) {
	query := `SELECT ` + deviceColumns + ` FROM devices ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, err
		}
		devices = append(devices, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate devices: %w", err)
	}
	return devices, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDevice(row rowScanner) (*domain.Device, error) {
	var d domain.Device
	err := row.Scan(
		&d.DeviceID,
		&d.DeviceCode,
		&d.DeviceName,
		&d.Location,
		&d.SensorType,
		&d.Unit,
		&d.Protocol,
		&d.ThresholdHi,
		&d.ThresholdLo,
		&d.CalibrationK,
		&d.CalibrationB,
		&d.FirmwareVersion,
		&d.SamplingHz,
		&d.LastSeen,
		&d.Notes,
		&d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan device: %w", err)
	}
	return &d, nil
}
