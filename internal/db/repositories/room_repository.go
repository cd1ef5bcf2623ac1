package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"exam-supervision/proctorate/internal/db"
	"exam-supervision/proctorate/internal/models/entities"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// RoomRepository reads and writes the rooms mirror table, transaction-aware
// like BuildingRepository.
type RoomRepository struct {
	db *sqlx.DB
}

func NewRoomRepository(db *sqlx.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByExternalID(ctx context.Context, externalID int64) (*entities.Room, error) {
	const query = `SELECT * FROM rooms WHERE external_id = $1`

	var room entities.Room
	err := sqlx.GetContext(ctx, db.GetExecutor(ctx, r.db), &room, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) Insert(ctx context.Context, room *entities.Room) error {
	if room.ID == "" {
		room.ID = uuid.New().String()
	}
	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	const query = `
		INSERT INTO rooms (
			id, external_id, building_id, name, capacity, active,
			sync_status, sync_error, last_synced_at, created_at, updated_at
		) VALUES (
			:id, :external_id, :building_id, :name, :capacity, :active,
			:sync_status, :sync_error, :last_synced_at, :created_at, :updated_at
		)
	`

	_, err := sqlx.NamedExecContext(ctx, db.GetExecutor(ctx, r.db), query, room)
	return err
}

func (r *RoomRepository) Update(ctx context.Context, room *entities.Room) error {
	room.UpdatedAt = time.Now()

	// building_id is included: the registry may move a room between halls.
	const query = `
		UPDATE rooms
		SET building_id = :building_id,
		    name = :name,
		    capacity = :capacity,
		    active = :active,
		    sync_status = :sync_status,
		    sync_error = :sync_error,
		    last_synced_at = :last_synced_at,
		    updated_at = :updated_at
		WHERE id = :id
	`

	_, err := sqlx.NamedExecContext(ctx, db.GetExecutor(ctx, r.db), query, room)
	return err
}
