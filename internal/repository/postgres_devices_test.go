package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sleeping-Zack/iot-platform/internal/domain"
)

func deviceMockRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"device_id", "device_code", "device_name", "location", "sensor_type", "unit", "protocol",
		"threshold_hi", "threshold_lo", "calibration_k", "calibration_b", "fw_version", "sampling_hz",
		"last_seen", "notes", "created_at",
	})
}

func TestGetByCode_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresDevicesRepo(db)

	rows := deviceMockRows().AddRow(
		"dev-1", "T-001", "Boiler sensor", "plant A", "temperature", "°C", "http",
		100.0, nil, 2.0, 1.0, "1.4.2", 0.5,
		nil, nil, time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
	)
	mock.ExpectQuery(`FROM devices WHERE device_code = \$1`).
		WithArgs("T-001").
		WillReturnRows(rows)

	d, err := repo.GetByCode(context.Background(), "T-001")
	require.NoError(t, err)
	assert.Equal(t, "dev-1", d.DeviceID)
	assert.Equal(t, "T-001", d.DeviceCode)
	assert.True(t, d.ThresholdHi.Valid)
	assert.Equal(t, 100.0, d.ThresholdHi.Float64)
	assert.False(t, d.ThresholdLo.Valid)
	assert.Equal(t, 21.0, d.Calibrate(10))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByCode_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresDevicesRepo(db)

	mock.ExpectQuery(`FROM devices WHERE device_code = \$1`).
		WithArgs("T-999").
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetByCode(context.Background(), "T-999")
	var nf *domain.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "device", nf.Resource)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDevices(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPostgresDevicesRepo(db)

	rows := deviceMockRows().
		AddRow("dev-1", "T-001", "A", nil, "temperature", "°C", nil, nil, nil, nil, nil, nil, nil, nil, nil, time.Now()).
		AddRow("dev-2", "T-002", "B", nil, "humidity", "%", nil, nil, nil, nil, nil, nil, nil, nil, nil, time.Now())

	mock.ExpectQuery(`FROM devices ORDER BY created_at DESC`).
		WillReturnRows(rows)

	devices, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, devices, 2)
	assert.Equal(t, "T-002", devices[1].DeviceCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}
