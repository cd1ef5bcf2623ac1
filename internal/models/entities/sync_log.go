package entities

import "time"

// SyncLog is one row of the sync ledger. Rows are inserted IN_PROGRESS at run
// start, updated exactly once more at run end, and never deleted.
type SyncLog struct {
	ID               string     `db:"id" json:"id"`
	SyncType         string     `db:"sync_type" json:"sync_type"` // EXAM_HALLS | HALL_ROOMS | PARTICIPANTS
	Status           string     `db:"status" json:"status"`       // IN_PROGRESS | COMPLETED | FAILED
	StartedAt        time.Time  `db:"started_at" json:"started_at"`
	CompletedAt      *time.Time `db:"completed_at" json:"completed_at,omitempty"`
	RecordsProcessed int        `db:"records_processed" json:"records_processed"`
	RecordsCreated   int        `db:"records_created" json:"records_created"`
	RecordsUpdated   int        `db:"records_updated" json:"records_updated"`
	RecordsDeleted   int        `db:"records_deleted" json:"records_deleted"`
	RecordsErrored   int        `db:"records_errored" json:"records_errored"`
	ErrorMessage     *string    `db:"error_message" json:"error_message,omitempty"`
	ErrorDetails     *string    `db:"error_details" json:"error_details,omitempty"` // jsonb
	Metadata         *string    `db:"metadata" json:"metadata,omitempty"`           // jsonb, e.g. {"exam_date": ...}
}

// Duration returns the wall time of a closed run, zero while IN_PROGRESS.
func (s *SyncLog) Duration() time.Duration {
	if s.CompletedAt == nil {
		return 0
	}
	return s.CompletedAt.Sub(s.StartedAt)
}
