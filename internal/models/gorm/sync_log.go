package gorm

import "time"

// SyncLog is the ledger row for one sync run attempt
type SyncLog struct {
	ID               string     `gorm:"column:id;primaryKey;type:uuid"`
	SyncType         string     `gorm:"column:sync_type;type:varchar(20);not null"`
	Status           string     `gorm:"column:status;type:varchar(20);not null"`
	StartedAt        time.Time  `gorm:"column:started_at;not null"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
	RecordsProcessed int        `gorm:"column:records_processed;default:0"`
	RecordsCreated   int        `gorm:"column:records_created;default:0"`
	RecordsUpdated   int        `gorm:"column:records_updated;default:0"`
	RecordsDeleted   int        `gorm:"column:records_deleted;default:0"`
	RecordsErrored   int        `gorm:"column:records_errored;default:0"`
	ErrorMessage     *string    `gorm:"column:error_message"`
	ErrorDetails     *string    `gorm:"column:error_details"`
	Metadata         *string    `gorm:"column:metadata"`
}

// TableName specifies the table name for GORM
func (SyncLog) TableName() string {
	return "sync_logs"
}
