package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/models/dtos"
)

type ReconciliationTestSuite struct {
	suite.Suite

	buildings    *fakeBuildingStore
	rooms        *fakeRoomStore
	participants *fakeParticipantStore
	tx           *fakeTxManager

	service *ReconciliationService
}

func (s *ReconciliationTestSuite) SetupTest() {
	s.buildings = newFakeBuildingStore()
	s.rooms = newFakeRoomStore()
	s.participants = newFakeParticipantStore()
	s.tx = &fakeTxManager{
		buildings:    s.buildings,
		rooms:        s.rooms,
		participants: s.participants,
	}

	s.service = NewReconciliationService(s.buildings, s.rooms, s.participants, s.tx)
}

func TestReconciliationTestSuite(t *testing.T) {
	suite.Run(t, new(ReconciliationTestSuite))
}

func hallFeed() []dtos.ExternalFacility {
	return []dtos.ExternalFacility{
		{
			ID:       1,
			UID:      "hall-a",
			Name:     "Hall A",
			Address:  "1 Exam St",
			Capacity: 200,
			RegionID: 7,
			Active:   true,
			Rooms: []dtos.ExternalRoom{
				{ID: 10, Name: "R1", Capacity: 30, Active: true},
			},
		},
	}
}

func (s *ReconciliationTestSuite) TestReconcileFacilities_CreatesNewMirrorRows() {
	ctx := context.Background()

	result, err := s.service.ReconcileFacilities(ctx, hallFeed())
	s.Require().NoError(err)

	s.Equal(1, result.Facilities.Created)
	s.Equal(0, result.Facilities.Updated)
	s.Equal(1, result.Rooms.Created)

	building, err := s.buildings.GetByExternalID(ctx, 1)
	s.Require().NoError(err)
	s.Require().NotNil(building)
	s.Equal("Hall A", building.Name)
	s.Equal(constants.EntitySyncSynced, building.SyncStatus)
	s.NotNil(building.LastSyncedAt)

	room, err := s.rooms.GetByExternalID(ctx, 10)
	s.Require().NoError(err)
	s.Require().NotNil(room)
	s.Equal(building.ID, room.BuildingID)
	s.Equal(30, room.Capacity)
}

func (s *ReconciliationTestSuite) TestReconcileFacilities_SecondRunIsIdempotent() {
	ctx := context.Background()

	_, err := s.service.ReconcileFacilities(ctx, hallFeed())
	s.Require().NoError(err)

	first, err := s.buildings.GetByExternalID(ctx, 1)
	s.Require().NoError(err)

	result, err := s.service.ReconcileFacilities(ctx, hallFeed())
	s.Require().NoError(err)

	s.Equal(0, result.Facilities.Created)
	s.Equal(1, result.Facilities.Updated)
	s.Equal(0, result.Rooms.Created)
	s.Equal(1, result.Rooms.Updated)

	second, err := s.buildings.GetByExternalID(ctx, 1)
	s.Require().NoError(err)
	s.Equal(first.ID, second.ID, "same local row must be updated in place")
}

func (s *ReconciliationTestSuite) TestReconcileFacilities_UpdateOverwritesAndClearsError() {
	ctx := context.Background()

	_, err := s.service.ReconcileFacilities(ctx, hallFeed())
	s.Require().NoError(err)

	// Simulate an earlier failed pass leaving an error on the row.
	building, _ := s.buildings.GetByExternalID(ctx, 1)
	msg := "upstream timeout"
	building.SyncStatus = constants.EntitySyncError
	building.SyncError = &msg
	s.Require().NoError(s.buildings.Update(ctx, building))

	feed := hallFeed()
	feed[0].Name = "Hall A (Renamed)"

	_, err = s.service.ReconcileFacilities(ctx, feed)
	s.Require().NoError(err)

	updated, _ := s.buildings.GetByExternalID(ctx, 1)
	s.Equal("Hall A (Renamed)", updated.Name)
	s.Equal(constants.EntitySyncSynced, updated.SyncStatus)
	s.Nil(updated.SyncError)
}

func (s *ReconciliationTestSuite) TestReconcileFacilities_FailureCommitsNothing() {
	ctx := context.Background()

	feed := []dtos.ExternalFacility{
		{ID: 1, Name: "Hall A", Active: true},
		{ID: 2, Name: "Hall B", Active: true},
		{ID: 3, Name: "Hall C", Active: true},
	}
	s.buildings.failInsertAt = 3

	_, err := s.service.ReconcileFacilities(ctx, feed)
	s.Require().Error(err)

	var recErr *ReconciliationError
	s.Require().True(errors.As(err, &recErr))

	for _, externalID := range []int64{1, 2, 3} {
		b, lookupErr := s.buildings.GetByExternalID(ctx, externalID)
		s.Require().NoError(lookupErr)
		s.Nil(b, "no building from the failed batch may be committed")
	}
}

func (s *ReconciliationTestSuite) TestReconcileFacilities_ReparentsMovedRoom() {
	ctx := context.Background()

	feed := []dtos.ExternalFacility{
		{ID: 1, Name: "Hall A", Active: true, Rooms: []dtos.ExternalRoom{{ID: 10, Name: "R1", Active: true}}},
		{ID: 2, Name: "Hall B", Active: true},
	}
	_, err := s.service.ReconcileFacilities(ctx, feed)
	s.Require().NoError(err)

	// The registry moves room 10 under hall 2.
	moved := []dtos.ExternalFacility{
		{ID: 1, Name: "Hall A", Active: true},
		{ID: 2, Name: "Hall B", Active: true, Rooms: []dtos.ExternalRoom{{ID: 10, Name: "R1", Active: true}}},
	}
	_, err = s.service.ReconcileFacilities(ctx, moved)
	s.Require().NoError(err)

	hallB, _ := s.buildings.GetByExternalID(ctx, 2)
	room, _ := s.rooms.GetByExternalID(ctx, 10)
	s.Equal(hallB.ID, room.BuildingID)
}

func (s *ReconciliationTestSuite) TestReconcileFacilityRooms_UnknownFacilityFails() {
	ctx := context.Background()

	_, err := s.service.ReconcileFacilityRooms(ctx, 99, []dtos.ExternalRoom{{ID: 5, Name: "R5"}})

	var recErr *ReconciliationError
	s.Require().True(errors.As(err, &recErr))
}

func (s *ReconciliationTestSuite) seedHall() {
	_, err := s.service.ReconcileFacilities(context.Background(), hallFeed())
	s.Require().NoError(err)
}

func participantFeed(count int) []dtos.TimeSlotOccupancy {
	return []dtos.TimeSlotOccupancy{
		{
			StartTime: "09:00",
			Occupancies: []dtos.RoomOccupancy{
				{FacilityExternalID: 1, RoomExternalID: 10, ParticipantCount: count},
			},
		},
	}
}

func (s *ReconciliationTestSuite) TestReconcileParticipants_CreatesThenCollapses() {
	s.seedHall()
	ctx := context.Background()
	examDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	first, err := s.service.ReconcileParticipants(ctx, examDate, participantFeed(25))
	s.Require().NoError(err)
	s.Equal(1, first.Created)

	second, err := s.service.ReconcileParticipants(ctx, examDate, participantFeed(28))
	s.Require().NoError(err)
	s.Equal(0, second.Created)
	s.Equal(1, second.Updated)

	building, _ := s.buildings.GetByExternalID(ctx, 1)
	room, _ := s.rooms.GetByExternalID(ctx, 10)
	p, err := s.participants.GetByKey(ctx, building.ID, room.ID, examDate, "09:00")
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal(28, p.ParticipantCount, "repeated fetches collapse into one row with the latest count")
}

func (s *ReconciliationTestSuite) TestReconcileParticipants_SkipsUnresolvedReference() {
	s.seedHall()
	ctx := context.Background()
	examDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	feed := []dtos.TimeSlotOccupancy{
		{
			StartTime: "09:00",
			Occupancies: []dtos.RoomOccupancy{
				{FacilityExternalID: 1, RoomExternalID: 999, ParticipantCount: 12}, // unknown room
				{FacilityExternalID: 1, RoomExternalID: 10, ParticipantCount: 25},
			},
		},
	}

	counters, err := s.service.ReconcileParticipants(ctx, examDate, feed)
	s.Require().NoError(err, "an unresolved reference must not fail the run")

	s.Equal(2, counters.Processed)
	s.Equal(1, counters.Created)
	s.Equal(1, counters.Errored)
}

func (s *ReconciliationTestSuite) TestReconcileParticipants_WriteFailureRollsBack() {
	s.seedHall()
	ctx := context.Background()
	examDate := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.service.ReconcileParticipants(ctx, examDate, participantFeed(25))
	s.Require().NoError(err)

	s.participants.failUpdate = true
	_, err = s.service.ReconcileParticipants(ctx, examDate, participantFeed(40))
	s.Require().Error(err)
	s.participants.failUpdate = false

	building, _ := s.buildings.GetByExternalID(ctx, 1)
	room, _ := s.rooms.GetByExternalID(ctx, 10)
	p, _ := s.participants.GetByKey(ctx, building.ID, room.ID, examDate, "09:00")
	s.Equal(25, p.ParticipantCount, "rolled-back run must not change the count")
}
