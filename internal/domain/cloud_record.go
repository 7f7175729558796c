package domain

import "time"

// CloudRecord is the denormalized replica of a reading in the downstream
// store (cloud_data table). reading_id is unique: it is the dedup key that
// keeps a retried replication run from double-inserting.
type CloudRecord struct {
	ID        int64     `db:"id"`
	ReadingID int64     `db:"reading_id"`
	DeviceID  string    `db:"device_id"`
	Value     float64   `db:"sensor_value"`
	TS        time.Time `db:"ts"` // original reading timestamp
	SyncedAt  time.Time `db:"synced_at"`
}
