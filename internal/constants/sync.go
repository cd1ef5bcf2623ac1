package constants

// Sync types for sync_logs rows, one per external feed
const (
	SyncTypeExamHalls    = "EXAM_HALLS"
	SyncTypeHallRooms    = "HALL_ROOMS"
	SyncTypeParticipants = "PARTICIPANTS"
)

// Sync run lifecycle. A row starts IN_PROGRESS and is closed exactly once.
const (
	SyncStatusInProgress = "IN_PROGRESS"
	SyncStatusCompleted  = "COMPLETED"
	SyncStatusFailed     = "FAILED"
)

// Per-entity sync state on mirrored rows
const (
	EntitySyncSynced  = "SYNCED"
	EntitySyncPending = "SYNC_PENDING"
	EntitySyncError   = "SYNC_ERROR"
)

// DateFormat is the wire format for exam dates, both toward the registry
// and on our own participant endpoints.
const DateFormat = "2006-01-02"
