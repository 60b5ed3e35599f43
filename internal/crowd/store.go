package crowd

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/roomnav-dev/roomnav/internal/errors"
)

// Store persists the room catalog and crowd-level readings.
type Store interface {
	// ListRooms returns the catalog in stable order.
	ListRooms(ctx context.Context) ([]Room, error)

	// GetReading returns the current reading for a room. A room with no
	// submission yet reads LevelUnknown.
	GetReading(ctx context.Context, roomID string) (Reading, error)

	// PutLevel records a new reading for a room.
	PutLevel(ctx context.Context, roomID string, level Level) (Reading, error)

	// ListReadings returns the current reading of every room, in
	// catalog order.
	ListReadings(ctx context.Context) ([]Reading, error)

	// Close releases the store.
	Close() error
}

// MemoryStore keeps readings in memory. Suitable for a one-day event on
// a single instance; readings vanish on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	rooms    []Room
	readings map[string]Reading
}

// NewMemoryStore creates a store over the given catalog.
func NewMemoryStore(rooms []Room) *MemoryStore {
	sorted := make([]Room, len(rooms))
	copy(sorted, rooms)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })
	return &MemoryStore{
		rooms:    sorted,
		readings: make(map[string]Reading),
	}
}

// ListRooms returns the catalog.
func (s *MemoryStore) ListRooms(ctx context.Context) ([]Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Room, len(s.rooms))
	copy(out, s.rooms)
	return out, nil
}

func (s *MemoryStore) room(roomID string) (Room, bool) {
	for _, r := range s.rooms {
		if r.ID == roomID {
			return r, true
		}
	}
	return Room{}, false
}

// GetReading returns the current reading for a room.
func (s *MemoryStore) GetReading(ctx context.Context, roomID string) (Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.room(roomID); !ok {
		return Reading{}, errors.Newf("E501", "room %q", roomID)
	}
	if r, ok := s.readings[roomID]; ok {
		return r, nil
	}
	return Reading{RoomID: roomID, Level: LevelUnknown}, nil
}

// PutLevel records a new reading.
func (s *MemoryStore) PutLevel(ctx context.Context, roomID string, level Level) (Reading, error) {
	if !level.Valid() {
		return Reading{}, errors.Newf("E503", "level %d", level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.room(roomID); !ok {
		return Reading{}, errors.Newf("E501", "room %q", roomID)
	}
	r := Reading{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Level:     level,
		UpdatedAt: time.Now().UTC(),
	}
	s.readings[roomID] = r
	return r, nil
}

// ListReadings returns the current reading of every room.
func (s *MemoryStore) ListReadings(ctx context.Context) ([]Reading, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Reading, 0, len(s.rooms))
	for _, room := range s.rooms {
		if r, ok := s.readings[room.ID]; ok {
			out = append(out, r)
			continue
		}
		out = append(out, Reading{RoomID: room.ID, Level: LevelUnknown})
	}
	return out, nil
}

// Close is a no-op for the memory store.
func (s *MemoryStore) Close() error { return nil }
