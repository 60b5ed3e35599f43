package crowd

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roomnav-dev/roomnav/internal/errors"
)

// SQLiteStore persists readings in SQLite so they survive a restart
// mid-event. Schema:
//
//	CREATE TABLE roomnav_rooms (
//	    id    TEXT PRIMARY KEY,
//	    name  TEXT NOT NULL,
//	    floor INTEGER NOT NULL DEFAULT 0
//	);
//	CREATE TABLE roomnav_readings (
//	    room_id    TEXT PRIMARY KEY REFERENCES roomnav_rooms(id),
//	    reading_id TEXT NOT NULL,
//	    level      INTEGER NOT NULL,
//	    updated_at TIMESTAMP NOT NULL
//	);
type SQLiteStore struct {
	db *sql.DB
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS roomnav_rooms (
    id    TEXT PRIMARY KEY,
    name  TEXT NOT NULL,
    floor INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS roomnav_readings (
    room_id    TEXT PRIMARY KEY REFERENCES roomnav_rooms(id),
    reading_id TEXT NOT NULL,
    level      INTEGER NOT NULL,
    updated_at TIMESTAMP NOT NULL
);`

// OpenSQLite opens (creating if needed) the database at path and seeds
// the catalog. Seeding replaces names and floors but never deletes
// readings of rooms that stay in the catalog.
func OpenSQLite(ctx context.Context, path string, rooms []Room) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap("E502", err)
	}
	// SQLite allows one writer; keep the pool from fighting over it.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, errors.Wrap("E502", err)
	}

	for _, r := range rooms {
		_, err := db.ExecContext(ctx,
			`INSERT INTO roomnav_rooms (id, name, floor) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, floor = excluded.floor`,
			r.ID, r.Name, r.Floor)
		if err != nil {
			db.Close()
			return nil, errors.Wrap("E502", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// ListRooms returns the catalog in stable order.
func (s *SQLiteStore) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, floor FROM roomnav_rooms ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap("E502", err)
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var r Room
		if err := rows.Scan(&r.ID, &r.Name, &r.Floor); err != nil {
			return nil, errors.Wrap("E502", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetReading returns the current reading for a room.
func (s *SQLiteStore) GetReading(ctx context.Context, roomID string) (Reading, error) {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM roomnav_rooms WHERE id = ?`, roomID).Scan(&exists)
	if err != nil {
		return Reading{}, errors.Wrap("E502", err)
	}
	if exists == 0 {
		return Reading{}, errors.Newf("E501", "room %q", roomID)
	}

	var r Reading
	err = s.db.QueryRowContext(ctx,
		`SELECT reading_id, room_id, level, updated_at FROM roomnav_readings WHERE room_id = ?`,
		roomID).Scan(&r.ID, &r.RoomID, &r.Level, &r.UpdatedAt)
	if err == sql.ErrNoRows {
		return Reading{RoomID: roomID, Level: LevelUnknown}, nil
	}
	if err != nil {
		return Reading{}, errors.Wrap("E502", err)
	}
	return r, nil
}

// PutLevel records a new reading.
func (s *SQLiteStore) PutLevel(ctx context.Context, roomID string, level Level) (Reading, error) {
	if !level.Valid() {
		return Reading{}, errors.Newf("E503", "level %d", level)
	}
	if _, err := s.GetReading(ctx, roomID); err != nil {
		return Reading{}, err
	}

	r := Reading{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Level:     level,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO roomnav_readings (room_id, reading_id, level, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(room_id) DO UPDATE SET
		     reading_id = excluded.reading_id,
		     level = excluded.level,
		     updated_at = excluded.updated_at`,
		r.RoomID, r.ID, int(r.Level), r.UpdatedAt)
	if err != nil {
		return Reading{}, errors.Wrap("E502", err)
	}
	return r, nil
}

// ListReadings returns the current reading of every room.
func (s *SQLiteStore) ListReadings(ctx context.Context) ([]Reading, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT rm.id, rd.reading_id, rd.level, rd.updated_at
		 FROM roomnav_rooms rm
		 LEFT JOIN roomnav_readings rd ON rd.room_id = rm.id
		 ORDER BY rm.id`)
	if err != nil {
		return nil, errors.Wrap("E502", err)
	}
	defer rows.Close()

	var out []Reading
	for rows.Next() {
		var (
			roomID    string
			readingID sql.NullString
			level     sql.NullInt64
			updatedAt sql.NullTime
		)
		if err := rows.Scan(&roomID, &readingID, &level, &updatedAt); err != nil {
			return nil, errors.Wrap("E502", err)
		}
		r := Reading{RoomID: roomID, Level: LevelUnknown}
		if readingID.Valid {
			r.ID = readingID.String
			r.Level = Level(level.Int64)
			r.UpdatedAt = updatedAt.Time
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
