package entities

import "time"

// Building mirrors a facility owned by the external registry. Rows with a
// nil ExternalID were created locally and are never touched by sync.
type Building struct {
	ID           string     `db:"id"`            // UUID
	ExternalID   *int64     `db:"external_id"`   // unique, nullable
	ExternalUID  string     `db:"external_uid"`  // stable registry UID
	Name         string     `db:"name"`
	Address      string     `db:"address"`
	Capacity     int        `db:"capacity"`
	RegionID     int64      `db:"region_id"`
	Active       bool       `db:"active"`
	SyncStatus   string     `db:"sync_status"` // SYNCED | SYNC_PENDING | SYNC_ERROR
	SyncError    *string    `db:"sync_error"`
	LastSyncedAt *time.Time `db:"last_synced_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
