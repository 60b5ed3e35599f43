// Package crowd holds the crowd-status domain: the room catalog for the
// event and the per-room crowd-level readings, with pluggable storage
// and the thin CRUD API on top.
package crowd

import (
	"time"

	"github.com/BurntSushi/toml"

	"github.com/roomnav-dev/roomnav/internal/errors"
)

// Level is a crowd-level reading for a room.
type Level int

const (
	// LevelUnknown means no reading has been submitted yet.
	LevelUnknown Level = 0

	LevelQuiet  Level = 1
	LevelBusy   Level = 2
	LevelPacked Level = 3
)

// Valid reports whether l can be stored.
func (l Level) Valid() bool {
	return l >= LevelQuiet && l <= LevelPacked
}

// String returns the display label for the level.
func (l Level) String() string {
	switch l {
	case LevelQuiet:
		return "quiet"
	case LevelBusy:
		return "busy"
	case LevelPacked:
		return "packed"
	default:
		return "unknown"
	}
}

// Room is one catalog entry.
type Room struct {
	ID    string `json:"id" toml:"id"`
	Name  string `json:"name" toml:"name"`
	Floor int    `json:"floor,omitempty" toml:"floor"`
}

// Reading is the stored crowd level of one room.
type Reading struct {
	// ID identifies the submission that produced this reading.
	ID string `json:"id,omitempty"`

	RoomID    string    `json:"room_id"`
	Level     Level     `json:"level"`
	UpdatedAt time.Time `json:"updated_at"`
}

// catalogFile is the TOML shape of the room catalog.
type catalogFile struct {
	Name  string `toml:"name"`
	Rooms []Room `toml:"rooms"`
}

// LoadCatalog reads the TOML room catalog.
func LoadCatalog(path string) (string, []Room, error) {
	var cf catalogFile
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return "", nil, errors.Wrap("E402", err)
	}
	return cf.Name, cf.Rooms, nil
}
