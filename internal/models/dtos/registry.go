package dtos

// Records as delivered by the external facility registry. These are
// transient: the reconciliation service consumes them and they are never
// persisted as-is.

// ExternalFacility is one exam hall as the registry reports it, with its
// rooms nested in the same payload.
type ExternalFacility struct {
	ID          int64          `json:"id"`
	UID         string         `json:"uid"` // stable across renames
	Name        string         `json:"name"`
	Address     string         `json:"address"`
	Capacity    int            `json:"capacity"`
	RegionID    int64          `json:"region_id"`
	Active      bool           `json:"active"`
	Rooms       []ExternalRoom `json:"rooms"`
}

type ExternalRoom struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	Active   bool   `json:"active"`
}

// TimeSlotOccupancy groups the occupancy counts reported for one exam start
// time. The registry hands back no per-record ids for this feed; each
// occupancy is identified by its (facility, room, date, start time) tuple.
type TimeSlotOccupancy struct {
	StartTime   string          `json:"start_time"` // HH:MM
	Occupancies []RoomOccupancy `json:"occupancies"`
}

type RoomOccupancy struct {
	FacilityExternalID int64 `json:"facility_id"`
	RoomExternalID     int64 `json:"room_id"`
	ParticipantCount   int   `json:"participant_count"`
}
