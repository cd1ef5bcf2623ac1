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

// BuildingRepository reads and writes the buildings mirror table. All methods
// use the transaction from the context when one is present.
type BuildingRepository struct {
	db *sqlx.DB
}

func NewBuildingRepository(db *sqlx.DB) *BuildingRepository {
	return &BuildingRepository{db: db}
}

func (r *BuildingRepository) GetByExternalID(ctx context.Context, externalID int64) (*entities.Building, error) {
	const query = `SELECT * FROM buildings WHERE external_id = $1`

	var b entities.Building
	err := sqlx.GetContext(ctx, db.GetExecutor(ctx, r.db), &b, query, externalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BuildingRepository) Insert(ctx context.Context, b *entities.Building) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	const query = `
		INSERT INTO buildings (
			id, external_id, external_uid, name, address, capacity, region_id,
			active, sync_status, sync_error, last_synced_at, created_at, updated_at
		) VALUES (
			:id, :external_id, :external_uid, :name, :address, :capacity, :region_id,
			:active, :sync_status, :sync_error, :last_synced_at, :created_at, :updated_at
		)
	`

	_, err := sqlx.NamedExecContext(ctx, db.GetExecutor(ctx, r.db), query, b)
	return err
}

func (r *BuildingRepository) Update(ctx context.Context, b *entities.Building) error {
	b.UpdatedAt = time.Now()

	const query = `
		UPDATE buildings
		SET external_uid = :external_uid,
		    name = :name,
		    address = :address,
		    capacity = :capacity,
		    region_id = :region_id,
		    active = :active,
		    sync_status = :sync_status,
		    sync_error = :sync_error,
		    last_synced_at = :last_synced_at,
		    updated_at = :updated_at
		WHERE id = :id
	`

	_, err := sqlx.NamedExecContext(ctx, db.GetExecutor(ctx, r.db), query, b)
	return err
}
