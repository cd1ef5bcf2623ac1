package entities

import "time"

// Participant is a room-occupancy record for one exam time slot on one date.
// The registry hands back no per-record id for this feed, so the tuple
// (building_id, room_id, exam_date, start_time) is the reconciliation key.
type Participant struct {
	ID               string     `db:"id"` // UUID
	BuildingID       string     `db:"building_id"`
	RoomID           string     `db:"room_id"`
	ExamDate         time.Time  `db:"exam_date"`  // date only
	StartTime        string     `db:"start_time"` // HH:MM
	ParticipantCount int        `db:"participant_count"`
	SyncStatus       string     `db:"sync_status"`
	LastSyncedAt     *time.Time `db:"last_synced_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}
