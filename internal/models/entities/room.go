package entities

import "time"

// Room belongs to exactly one Building. BuildingID always points at the
// building whose external id matched the parent facility in the same sync
// pass; the registry is authoritative for placement.
type Room struct {
	ID           string     `db:"id"`          // UUID
	ExternalID   *int64     `db:"external_id"` // unique, nullable
	BuildingID   string     `db:"building_id"`
	Name         string     `db:"name"`
	Capacity     int        `db:"capacity"`
	Active       bool       `db:"active"`
	SyncStatus   string     `db:"sync_status"`
	SyncError    *string    `db:"sync_error"`
	LastSyncedAt *time.Time `db:"last_synced_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}
