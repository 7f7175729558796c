package domain

import "time"

// SyncQueueEntry marks a reading as not yet replicated (sync_queue table,
// one row per reading). Its existence is the single source of truth for
// the ENQUEUED state; the replicator deletes it when the cloud record is
// written.
type SyncQueueEntry struct {
	ReadingID  int64     `db:"reading_id"`
	EnqueuedAt time.Time `db:"enqueued_at"`
}
