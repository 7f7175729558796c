package domain

import (
	"database/sql"
	"time"
)

// Device catalog entry (devices table). Thresholds and calibration
// coefficients are independently nullable.
type Device struct {
	DeviceID        string          `db:"device_id"`
	DeviceCode      string          `db:"device_code"` // unique, immutable
	DeviceName      string          `db:"device_name"`
	Location        sql.NullString  `db:"location"`
	SensorType      string          `db:"sensor_type"`
	Unit            string          `db:"unit"`
	Protocol        sql.NullString  `db:"protocol"` // http/mqtt/modbus tag
	ThresholdHi     sql.NullFloat64 `db:"threshold_hi"`
	ThresholdLo     sql.NullFloat64 `db:"threshold_lo"`
	CalibrationK    sql.NullFloat64 `db:"calibration_k"`
	CalibrationB    sql.NullFloat64 `db:"calibration_b"`
	FirmwareVersion sql.NullString  `db:"fw_version"`
	SamplingHz      sql.NullFloat64 `db:"sampling_hz"`
	LastSeen        sql.NullTime    `db:"last_seen"`
	Notes           sql.NullString  `db:"notes"`
	CreatedAt       time.Time       `db:"created_at"`
}

// Calibrate applies y = k*x + b when both coefficients are set,
// otherwise passes the raw value through unchanged.
func (d *Device) Calibrate(raw float64) float64 {
	if d.CalibrationK.Valid && d.CalibrationB.Valid {
		return d.CalibrationK.Float64*raw + d.CalibrationB.Float64
	}
	return raw
}

// ToJSON converts to the HTTP response shape.
func (d *Device) ToJSON() map[string]any {
	m := map[string]any{
		"device_id":   d.DeviceID,
		"device_code": d.DeviceCode,
		"device_name": d.DeviceName,
		"sensor_type": d.SensorType,
		"unit":        d.Unit,
		"created_at":  d.CreatedAt,
	}
	if d.Location.Valid {
		m["location"] = d.Location.String
	}
	if d.Protocol.Valid {
		m["protocol"] = d.Protocol.String
	}
	if d.ThresholdHi.Valid {
		m["threshold_hi"] = d.ThresholdHi.Float64
	} else {
		m["threshold_hi"] = nil
	}
	if d.ThresholdLo.Valid {
		m["threshold_lo"] = d.ThresholdLo.Float64
	} else {
		m["threshold_lo"] = nil
	}
	if d.CalibrationK.Valid {
		m["calibration_k"] = d.CalibrationK.Float64
	}
	if d.CalibrationB.Valid {
		m["calibration_b"] = d.CalibrationB.Float64
	}
	if d.FirmwareVersion.Valid {
		m["fw_version"] = d.FirmwareVersion.String
	}
	if d.SamplingHz.Valid {
		m["sampling_hz"] = d.SamplingHz.Float64
	}
	if d.LastSeen.Valid {
		m["last_seen"] = d.LastSeen.Time
	} else {
		m["last_seen"] = nil
	}
	return m
}
