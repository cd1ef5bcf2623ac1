package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"exam-supervision/proctorate/internal/models/entities"
)

// In-memory fakes for the store interfaces. The fake transaction manager
// snapshots them before the callback and restores on error, which lets tests
// assert the rollback guarantee without a database.

var errInjected = errors.New("injected store failure")

type fakeBuildingStore struct {
	mu     sync.Mutex
	rows   map[string]*entities.Building // by local id
	nextID int

	failInsertAt int // 1-based insert ordinal that fails, 0 = never
	inserts      int
}

func newFakeBuildingStore() *fakeBuildingStore {
	return &fakeBuildingStore{rows: make(map[string]*entities.Building)}
}

func (f *fakeBuildingStore) GetByExternalID(_ context.Context, externalID int64) (*entities.Building, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.rows {
		if b.ExternalID != nil && *b.ExternalID == externalID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBuildingStore) Insert(_ context.Context, b *entities.Building) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.failInsertAt > 0 && f.inserts >= f.failInsertAt {
		return errInjected
	}
	f.nextID++
	b.ID = fmt.Sprintf("building-%d", f.nextID)
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBuildingStore) Update(_ context.Context, b *entities.Building) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[b.ID]; !ok {
		return fmt.Errorf("update of unknown building %s", b.ID)
	}
	cp := *b
	f.rows[b.ID] = &cp
	return nil
}

func (f *fakeBuildingStore) snapshot() map[string]*entities.Building {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[string]*entities.Building, len(f.rows))
	for k, v := range f.rows {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (f *fakeBuildingStore) restore(snap map[string]*entities.Building) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = snap
}

type fakeRoomStore struct {
	mu     sync.Mutex
	rows   map[string]*entities.Room
	nextID int

	failInsertAt int
	inserts      int
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rows: make(map[string]*entities.Room)}
}

func (f *fakeRoomStore) GetByExternalID(_ context.Context, externalID int64) (*entities.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.rows {
		if r.ExternalID != nil && *r.ExternalID == externalID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRoomStore) Insert(_ context.Context, room *entities.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.failInsertAt > 0 && f.inserts >= f.failInsertAt {
		return errInjected
	}
	f.nextID++
	room.ID = fmt.Sprintf("room-%d", f.nextID)
	cp := *room
	f.rows[room.ID] = &cp
	return nil
}

func (f *fakeRoomStore) Update(_ context.Context, room *entities.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[room.ID]; !ok {
		return fmt.Errorf("update of unknown room %s", room.ID)
	}
	cp := *room
	f.rows[room.ID] = &cp
	return nil
}

func (f *fakeRoomStore) snapshot() map[string]*entities.Room {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[string]*entities.Room, len(f.rows))
	for k, v := range f.rows {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (f *fakeRoomStore) restore(snap map[string]*entities.Room) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = snap
}

type participantKey struct {
	buildingID string
	roomID     string
	examDate   string
	startTime  string
}

type fakeParticipantStore struct {
	mu     sync.Mutex
	rows   map[participantKey]*entities.Participant
	nextID int

	failUpdate bool
}

func newFakeParticipantStore() *fakeParticipantStore {
	return &fakeParticipantStore{rows: make(map[participantKey]*entities.Participant)}
}

func keyOf(p *entities.Participant) participantKey {
	return participantKey{
		buildingID: p.BuildingID,
		roomID:     p.RoomID,
		examDate:   p.ExamDate.Format("2006-01-02"),
		startTime:  p.StartTime,
	}
}

func (f *fakeParticipantStore) GetByKey(_ context.Context, buildingID, roomID string, examDate time.Time, startTime string) (*entities.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := participantKey{buildingID, roomID, examDate.Format("2006-01-02"), startTime}
	if p, ok := f.rows[key]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeParticipantStore) Insert(_ context.Context, p *entities.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	p.ID = fmt.Sprintf("participant-%d", f.nextID)
	cp := *p
	f.rows[keyOf(p)] = &cp
	return nil
}

func (f *fakeParticipantStore) Update(_ context.Context, p *entities.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return errInjected
	}
	cp := *p
	f.rows[keyOf(p)] = &cp
	return nil
}

func (f *fakeParticipantStore) snapshot() map[participantKey]*entities.Participant {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := make(map[participantKey]*entities.Participant, len(f.rows))
	for k, v := range f.rows {
		cp := *v
		snap[k] = &cp
	}
	return snap
}

func (f *fakeParticipantStore) restore(snap map[participantKey]*entities.Participant) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows = snap
}

// fakeTxManager emulates commit/rollback over the fakes above.
type fakeTxManager struct {
	buildings    *fakeBuildingStore
	rooms        *fakeRoomStore
	participants *fakeParticipantStore
}

func (f *fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	bSnap := f.buildings.snapshot()
	rSnap := f.rooms.snapshot()
	pSnap := f.participants.snapshot()

	if err := fn(ctx); err != nil {
		f.buildings.restore(bSnap)
		f.rooms.restore(rSnap)
		f.participants.restore(pSnap)
		return err
	}
	return nil
}
