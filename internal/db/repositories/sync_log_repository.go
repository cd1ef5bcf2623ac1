package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/models/entities"
	gormModels "exam-supervision/proctorate/internal/models/gorm"

	"github.com/google/uuid"
	gormlib "gorm.io/gorm"
)

// SyncLogRepository owns the sync ledger. Rows are inserted IN_PROGRESS and
// closed exactly once; nothing here ever deletes.
type SyncLogRepository struct {
	db *gormlib.DB
}

func NewSyncLogRepository(db *gormlib.DB) *SyncLogRepository {
	return &SyncLogRepository{db: db}
}

// Start opens a ledger row for a new run.
func (r *SyncLogRepository) Start(ctx context.Context, syncType string, metadata map[string]interface{}) (*entities.SyncLog, error) {
	row := gormModels.SyncLog{
		ID:        uuid.New().String(),
		SyncType:  syncType,
		Status:    constants.SyncStatusInProgress,
		StartedAt: time.Now(),
	}

	if len(metadata) > 0 {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, err
		}
		s := string(raw)
		row.Metadata = &s
	}

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}
	return toEntity(&row), nil
}

// Complete closes a run as COMPLETED with its final counters.
func (r *SyncLogRepository) Complete(ctx context.Context, id string, counters entities.SyncCounters) (*entities.SyncLog, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":            constants.SyncStatusCompleted,
		"completed_at":      &now,
		"records_processed": counters.Processed,
		"records_created":   counters.Created,
		"records_updated":   counters.Updated,
		"records_deleted":   counters.Deleted,
		"records_errored":   counters.Errored,
	}
	return r.close(ctx, id, updates)
}

// Fail closes a run as FAILED, keeping whatever counters were reached.
func (r *SyncLogRepository) Fail(ctx context.Context, id string, message string, details map[string]interface{}) (*entities.SyncLog, error) {
	now := time.Now()
	updates := map[string]interface{}{
		"status":        constants.SyncStatusFailed,
		"completed_at":  &now,
		"error_message": message,
	}

	if len(details) > 0 {
		raw, err := json.Marshal(details)
		if err == nil {
			updates["error_details"] = string(raw)
		}
	}
	return r.close(ctx, id, updates)
}

func (r *SyncLogRepository) close(ctx context.Context, id string, updates map[string]interface{}) (*entities.SyncLog, error) {
	err := r.db.WithContext(ctx).
		Model(&gormModels.SyncLog{}).
		Where("id = ?", id).
		Updates(updates).Error
	if err != nil {
		return nil, err
	}

	var row gormModels.SyncLog
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return nil, err
	}
	return toEntity(&row), nil
}

// LatestByType returns the newest ledger row for one sync type, nil when the
// type has never run.
func (r *SyncLogRepository) LatestByType(ctx context.Context, syncType string) (*entities.SyncLog, error) {
	var row gormModels.SyncLog

	err := r.db.WithContext(ctx).
		Where("sync_type = ?", syncType).
		Order("started_at DESC").
		First(&row).Error

	if err != nil {
		if errors.Is(err, gormlib.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return toEntity(&row), nil
}

// LatestPerType returns the newest ledger row for every sync type that has
// ever run.
func (r *SyncLogRepository) LatestPerType(ctx context.Context) (map[string]*entities.SyncLog, error) {
	latest := make(map[string]*entities.SyncLog)

	for _, syncType := range []string{
		constants.SyncTypeExamHalls,
		constants.SyncTypeHallRooms,
		constants.SyncTypeParticipants,
	} {
		row, err := r.LatestByType(ctx, syncType)
		if err != nil {
			return nil, err
		}
		if row != nil {
			latest[syncType] = row
		}
	}
	return latest, nil
}

// Recent lists ledger rows newest first, optionally filtered by sync type.
func (r *SyncLogRepository) Recent(ctx context.Context, syncType string, limit int) ([]entities.SyncLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit)
	if syncType != "" {
		q = q.Where("sync_type = ?", syncType)
	}

	var rows []gormModels.SyncLog
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entities.SyncLog, 0, len(rows))
	for i := range rows {
		out = append(out, *toEntity(&rows[i]))
	}
	return out, nil
}

func toEntity(row *gormModels.SyncLog) *entities.SyncLog {
	return &entities.SyncLog{
		ID:               row.ID,
		SyncType:         row.SyncType,
		Status:           row.Status,
		StartedAt:        row.StartedAt,
		CompletedAt:      row.CompletedAt,
		RecordsProcessed: row.RecordsProcessed,
		RecordsCreated:   row.RecordsCreated,
		RecordsUpdated:   row.RecordsUpdated,
		RecordsDeleted:   row.RecordsDeleted,
		RecordsErrored:   row.RecordsErrored,
		ErrorMessage:     row.ErrorMessage,
		ErrorDetails:     row.ErrorDetails,
		Metadata:         row.Metadata,
	}
}
