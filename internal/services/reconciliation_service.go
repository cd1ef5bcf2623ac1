package services

import (
	"context"
	"time"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/logging"
	"exam-supervision/proctorate/internal/models/dtos"
	"exam-supervision/proctorate/internal/models/entities"
)

// ReconciliationService applies externally-fetched snapshots to the mirror
// store. Each public method runs its whole input inside one transaction:
// readers never observe a partially-applied batch.
type ReconciliationService struct {
	buildings    BuildingStore
	rooms        RoomStore
	participants ParticipantStore
	tx           TransactionManager
}

func NewReconciliationService(
	buildings BuildingStore,
	rooms RoomStore,
	participants ParticipantStore,
	tx TransactionManager,
) *ReconciliationService {
	return &ReconciliationService{
		buildings:    buildings,
		rooms:        rooms,
		participants: participants,
		tx:           tx,
	}
}

// FacilityReconcileResult splits counters between the facility pass and the
// nested room pass; the orchestrator ledgers them separately.
type FacilityReconcileResult struct {
	Facilities entities.SyncCounters
	Rooms      entities.SyncCounters
}

// ReconcileFacilities upserts every facility and its nested rooms, keyed by
// external id. All-or-nothing: any persistence error rolls the whole feed
// back. Facilities absent from the feed are left untouched.
func (s *ReconciliationService) ReconcileFacilities(ctx context.Context, feed []dtos.ExternalFacility) (*FacilityReconcileResult, error) {
	result := &FacilityReconcileResult{}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for i := range feed {
			facility := &feed[i]
			result.Facilities.Processed++

			building, created, err := s.upsertBuilding(txCtx, facility)
			if err != nil {
				return err
			}
			if created {
				result.Facilities.Created++
			} else {
				result.Facilities.Updated++
			}

			if err := s.reconcileRooms(txCtx, building.ID, facility.Rooms, &result.Rooms); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReconcileFacilityRooms re-syncs the rooms of one already-mirrored facility
// (the per-facility room feed). Unknown facility is an error here: unlike the
// participant feed there is nothing else in the batch to salvage.
func (s *ReconciliationService) ReconcileFacilityRooms(ctx context.Context, facilityExternalID int64, feed []dtos.ExternalRoom) (*entities.SyncCounters, error) {
	counters := &entities.SyncCounters{}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		building, err := s.buildings.GetByExternalID(txCtx, facilityExternalID)
		if err != nil {
			return &ReconciliationError{Op: "resolve building", Err: err}
		}
		if building == nil {
			return &ReconciliationError{
				Op:  "resolve building",
				Err: errUnknownFacility(facilityExternalID),
			}
		}

		return s.reconcileRooms(txCtx, building.ID, feed, counters)
	})

	if err != nil {
		return nil, err
	}
	return counters, nil
}

// ReconcileParticipants applies one exam date's time-slot occupancies inside
// a single transaction. An occupancy referencing an unknown building or room
// is skipped with a warning; it does not abort the transaction, because the
// facility feed may simply not have delivered that room yet.
func (s *ReconciliationService) ReconcileParticipants(ctx context.Context, examDate time.Time, slots []dtos.TimeSlotOccupancy) (*entities.SyncCounters, error) {
	counters := &entities.SyncCounters{}

	err := s.tx.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, slot := range slots {
			for _, occ := range slot.Occupancies {
				counters.Processed++

				if err := s.upsertOccupancy(txCtx, examDate, slot.StartTime, occ, counters); err != nil {
					return err
				}
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return counters, nil
}

func (s *ReconciliationService) upsertBuilding(ctx context.Context, facility *dtos.ExternalFacility) (*entities.Building, bool, error) {
	existing, err := s.buildings.GetByExternalID(ctx, facility.ID)
	if err != nil {
		return nil, false, &ReconciliationError{Op: "lookup building", Err: err}
	}

	now := time.Now()

	if existing == nil {
		externalID := facility.ID
		building := &entities.Building{
			ExternalID:   &externalID,
			ExternalUID:  facility.UID,
			Name:         facility.Name,
			Address:      facility.Address,
			Capacity:     facility.Capacity,
			RegionID:     facility.RegionID,
			Active:       facility.Active,
			SyncStatus:   constants.EntitySyncSynced,
			LastSyncedAt: &now,
		}
		if err := s.buildings.Insert(ctx, building); err != nil {
			return nil, false, &ReconciliationError{Op: "insert building", Err: err}
		}
		return building, true, nil
	}

	existing.ExternalUID = facility.UID
	existing.Name = facility.Name
	existing.Address = facility.Address
	existing.Capacity = facility.Capacity
	existing.RegionID = facility.RegionID
	existing.Active = facility.Active
	existing.SyncStatus = constants.EntitySyncSynced
	existing.SyncError = nil
	existing.LastSyncedAt = &now

	if err := s.buildings.Update(ctx, existing); err != nil {
		return nil, false, &ReconciliationError{Op: "update building", Err: err}
	}
	return existing, false, nil
}

func (s *ReconciliationService) reconcileRooms(ctx context.Context, buildingID string, feed []dtos.ExternalRoom, counters *entities.SyncCounters) error {
	for i := range feed {
		room := &feed[i]
		counters.Processed++

		existing, err := s.rooms.GetByExternalID(ctx, room.ID)
		if err != nil {
			return &ReconciliationError{Op: "lookup room", Err: err}
		}

		now := time.Now()

		if existing == nil {
			externalID := room.ID
			newRoom := &entities.Room{
				ExternalID:   &externalID,
				BuildingID:   buildingID,
				Name:         room.Name,
				Capacity:     room.Capacity,
				Active:       room.Active,
				SyncStatus:   constants.EntitySyncSynced,
				LastSyncedAt: &now,
			}
			if err := s.rooms.Insert(ctx, newRoom); err != nil {
				return &ReconciliationError{Op: "insert room", Err: err}
			}
			counters.Created++
			continue
		}

		// Pin to the building resolved in this pass even if the room used to
		// belong elsewhere; the registry owns placement.
		existing.BuildingID = buildingID
		existing.Name = room.Name
		existing.Capacity = room.Capacity
		existing.Active = room.Active
		existing.SyncStatus = constants.EntitySyncSynced
		existing.SyncError = nil
		existing.LastSyncedAt = &now

		if err := s.rooms.Update(ctx, existing); err != nil {
			return &ReconciliationError{Op: "update room", Err: err}
		}
		counters.Updated++
	}
	return nil
}

func (s *ReconciliationService) upsertOccupancy(
	ctx context.Context,
	examDate time.Time,
	startTime string,
	occ dtos.RoomOccupancy,
	counters *entities.SyncCounters,
) error {
	building, err := s.buildings.GetByExternalID(ctx, occ.FacilityExternalID)
	if err != nil {
		return &ReconciliationError{Op: "resolve building", Err: err}
	}
	room, err := s.rooms.GetByExternalID(ctx, occ.RoomExternalID)
	if err != nil {
		return &ReconciliationError{Op: "resolve room", Err: err}
	}

	if building == nil || room == nil {
		logging.Warn("skipping occupancy with unresolved reference",
			"facility_external_id", occ.FacilityExternalID,
			"room_external_id", occ.RoomExternalID,
			"exam_date", examDate.Format(constants.DateFormat),
			"start_time", startTime,
		)
		counters.Errored++
		return nil
	}

	existing, err := s.participants.GetByKey(ctx, building.ID, room.ID, examDate, startTime)
	if err != nil {
		return &ReconciliationError{Op: "lookup participant", Err: err}
	}

	now := time.Now()

	if existing == nil {
		p := &entities.Participant{
			BuildingID:       building.ID,
			RoomID:           room.ID,
			ExamDate:         examDate,
			StartTime:        startTime,
			ParticipantCount: occ.ParticipantCount,
			SyncStatus:       constants.EntitySyncSynced,
			LastSyncedAt:     &now,
		}
		if err := s.participants.Insert(ctx, p); err != nil {
			return &ReconciliationError{Op: "insert participant", Err: err}
		}
		counters.Created++
		return nil
	}

	existing.ParticipantCount = occ.ParticipantCount
	existing.SyncStatus = constants.EntitySyncSynced
	existing.LastSyncedAt = &now

	if err := s.participants.Update(ctx, existing); err != nil {
		return &ReconciliationError{Op: "update participant", Err: err}
	}
	counters.Updated++
	return nil
}
