package services

import (
	"context"
	"time"

	"exam-supervision/proctorate/internal/models/dtos"
	"exam-supervision/proctorate/internal/models/entities"
)

// Narrow store interfaces so the reconciliation service can run against the
// sqlx repositories in production and in-memory fakes in tests.

type BuildingStore interface {
	GetByExternalID(ctx context.Context, externalID int64) (*entities.Building, error)
	Insert(ctx context.Context, b *entities.Building) error
	Update(ctx context.Context, b *entities.Building) error
}

type RoomStore interface {
	GetByExternalID(ctx context.Context, externalID int64) (*entities.Room, error)
	Insert(ctx context.Context, room *entities.Room) error
	Update(ctx context.Context, room *entities.Room) error
}

type ParticipantStore interface {
	GetByKey(ctx context.Context, buildingID, roomID string, examDate time.Time, startTime string) (*entities.Participant, error)
	Insert(ctx context.Context, p *entities.Participant) error
	Update(ctx context.Context, p *entities.Participant) error
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// SyncLedger is the audit trail of sync runs.
type SyncLedger interface {
	Start(ctx context.Context, syncType string, metadata map[string]interface{}) (*entities.SyncLog, error)
	Complete(ctx context.Context, id string, counters entities.SyncCounters) (*entities.SyncLog, error)
	Fail(ctx context.Context, id string, message string, details map[string]interface{}) (*entities.SyncLog, error)
	LatestByType(ctx context.Context, syncType string) (*entities.SyncLog, error)
	LatestPerType(ctx context.Context) (map[string]*entities.SyncLog, error)
	Recent(ctx context.Context, syncType string, limit int) ([]entities.SyncLog, error)
}

// RegistryClient is the read-only external source of record.
type RegistryClient interface {
	FetchExamHalls(ctx context.Context) ([]dtos.ExternalFacility, error)
	FetchHallRooms(ctx context.Context, facilityExternalID int64) ([]dtos.ExternalRoom, error)
	FetchRoomParticipants(ctx context.Context, examDate time.Time) ([]dtos.TimeSlotOccupancy, error)
}
