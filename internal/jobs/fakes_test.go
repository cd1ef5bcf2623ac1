package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"exam-supervision/proctorate/internal/constants"
	"exam-supervision/proctorate/internal/models/dtos"
	"exam-supervision/proctorate/internal/models/entities"
	"exam-supervision/proctorate/internal/services"
)

type fakeLedger struct {
	mu     sync.Mutex
	rows   []*entities.SyncLog
	nextID int
}

func (f *fakeLedger) Start(_ context.Context, syncType string, metadata map[string]interface{}) (*entities.SyncLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++

	row := &entities.SyncLog{
		ID:        fmt.Sprintf("log-%d", f.nextID),
		SyncType:  syncType,
		Status:    constants.SyncStatusInProgress,
		StartedAt: time.Now(),
	}
	if len(metadata) > 0 {
		raw, _ := json.Marshal(metadata)
		s := string(raw)
		row.Metadata = &s
	}

	f.rows = append(f.rows, row)
	cp := *row
	return &cp, nil
}

func (f *fakeLedger) Complete(_ context.Context, id string, counters entities.SyncCounters) (*entities.SyncLog, error) {
	return f.closeRow(id, func(row *entities.SyncLog) {
		row.Status = constants.SyncStatusCompleted
		row.RecordsProcessed = counters.Processed
		row.RecordsCreated = counters.Created
		row.RecordsUpdated = counters.Updated
		row.RecordsDeleted = counters.Deleted
		row.RecordsErrored = counters.Errored
	})
}

func (f *fakeLedger) Fail(_ context.Context, id string, message string, details map[string]interface{}) (*entities.SyncLog, error) {
	return f.closeRow(id, func(row *entities.SyncLog) {
		row.Status = constants.SyncStatusFailed
		row.ErrorMessage = &message
		if len(details) > 0 {
			raw, _ := json.Marshal(details)
			s := string(raw)
			row.ErrorDetails = &s
		}
	})
}

func (f *fakeLedger) closeRow(id string, mutate func(*entities.SyncLog)) (*entities.SyncLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, row := range f.rows {
		if row.ID == id {
			mutate(row)
			now := time.Now()
			row.CompletedAt = &now
			cp := *row
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("no ledger row %s", id)
}

func (f *fakeLedger) LatestByType(_ context.Context, syncType string) (*entities.SyncLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].SyncType == syncType {
			cp := *f.rows[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) LatestPerType(ctx context.Context) (map[string]*entities.SyncLog, error) {
	out := make(map[string]*entities.SyncLog)
	for _, syncType := range []string{
		constants.SyncTypeExamHalls,
		constants.SyncTypeHallRooms,
		constants.SyncTypeParticipants,
	} {
		row, _ := f.LatestByType(ctx, syncType)
		if row != nil {
			out[syncType] = row
		}
	}
	return out, nil
}

func (f *fakeLedger) Recent(_ context.Context, syncType string, limit int) ([]entities.SyncLog, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.SyncLog
	for i := len(f.rows) - 1; i >= 0 && len(out) < limit; i-- {
		if syncType == "" || f.rows[i].SyncType == syncType {
			out = append(out, *f.rows[i])
		}
	}
	return out, nil
}

func (f *fakeLedger) byType(syncType string) []entities.SyncLog {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.SyncLog
	for _, row := range f.rows {
		if row.SyncType == syncType {
			out = append(out, *row)
		}
	}
	return out
}

var _ services.SyncLedger = (*fakeLedger)(nil)

type fakeRegistry struct {
	halls    []dtos.ExternalFacility
	hallsErr error

	rooms    []dtos.ExternalRoom
	roomsErr error

	participants    map[string][]dtos.TimeSlotOccupancy
	participantsErr map[string]error
}

func (f *fakeRegistry) FetchExamHalls(context.Context) ([]dtos.ExternalFacility, error) {
	return f.halls, f.hallsErr
}

func (f *fakeRegistry) FetchHallRooms(context.Context, int64) ([]dtos.ExternalRoom, error) {
	return f.rooms, f.roomsErr
}

func (f *fakeRegistry) FetchRoomParticipants(_ context.Context, examDate time.Time) ([]dtos.TimeSlotOccupancy, error) {
	key := examDate.Format(constants.DateFormat)
	if err, ok := f.participantsErr[key]; ok {
		return nil, err
	}
	return f.participants[key], nil
}

var _ services.RegistryClient = (*fakeRegistry)(nil)

type fakeFacilityReconciler struct {
	result *services.FacilityReconcileResult
	err    error

	roomCounters *entities.SyncCounters
	roomErr      error

	calls int
}

func (f *fakeFacilityReconciler) ReconcileFacilities(context.Context, []dtos.ExternalFacility) (*services.FacilityReconcileResult, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeFacilityReconciler) ReconcileFacilityRooms(context.Context, int64, []dtos.ExternalRoom) (*entities.SyncCounters, error) {
	return f.roomCounters, f.roomErr
}

type fakeParticipantReconciler struct {
	counters *entities.SyncCounters
	err      error
	dates    []string
}

func (f *fakeParticipantReconciler) ReconcileParticipants(_ context.Context, examDate time.Time, _ []dtos.TimeSlotOccupancy) (*entities.SyncCounters, error) {
	f.dates = append(f.dates, examDate.Format(constants.DateFormat))
	return f.counters, f.err
}
