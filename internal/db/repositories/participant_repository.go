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

// ParticipantRepository reads and writes time-slot occupancy rows keyed by
// the (building, room, exam_date, start_time) tuple.
type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) GetByKey(
	ctx context.Context,
	buildingID, roomID string,
	examDate time.Time,
	startTime string,
) (*entities.Participant, error) {
	const query = `
		SELECT * FROM participants
		WHERE building_id = $1 AND room_id = $2 AND exam_date = $3 AND start_time = $4
	`

	var p entities.Participant
	err := sqlx.GetContext(ctx, db.GetExecutor(ctx, r.db), &p, query,
		buildingID, roomID, examDate, startTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ParticipantRepository) Insert(ctx context.Context, p *entities.Participant) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now

	const query = `
		INSERT INTO participants (
			id, building_id, room_id, exam_date, start_time, participant_count,
			sync_status, last_synced_at, created_at, updated_at
		) VALUES (
			:id, :building_id, :room_id, :exam_date, :start_time, :participant_count,
			:sync_status, :last_synced_at, :created_at, :updated_at
		)
	`

	_, err := sqlx.NamedExecContext(ctx, db.GetExecutor(ctx, r.db), query, p)
	return err
}

func (r *ParticipantRepository) Update(ctx context.Context, p *entities.Participant) error {
	p.UpdatedAt = time.Now()

	const query = `
		UPDATE participants
		SET participant_count = :participant_count,
		    sync_status = :sync_status,
		    last_synced_at = :last_synced_at,
		    updated_at = :updated_at
		WHERE id = :id
	`

	_, err := sqlx.NamedExecContext(ctx, db.GetExecutor(ctx, r.db), query, p)
	return err
}
