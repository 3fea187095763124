package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arthsaathi/strategist/internal/sim"
)

// UpsertEvent inserts or replaces an event, stored as a JSON document with
// the title and choice count denormalized for listing.
func (db *DB) UpsertEvent(e *sim.Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event %s: %w", e.ID, err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO events (id, title, choice_count, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			choice_count = excluded.choice_count,
			data = excluded.data,
			updated_at = datetime('now')`,
		e.ID, e.Title, len(e.Choices), string(data),
	)
	return err
}

// GetEvent returns the event with the given id, or nil if absent.
func (db *DB) GetEvent(id string) (*sim.Event, error) {
	row := db.conn.QueryRow("SELECT data FROM events WHERE id = ?", id)

	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var e sim.Event
	if err := json.Unmarshal([]byte(data), &e); err != nil {
		return nil, fmt.Errorf("unmarshaling event %s: %w", id, err)
	}
	return &e, nil
}

// GetAllEvents returns all events ordered by title.
func (db *DB) GetAllEvents() ([]sim.Event, error) {
	rows, err := db.conn.Query("SELECT data FROM events ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []sim.Event
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var e sim.Event
		if err := json.Unmarshal([]byte(data), &e); err != nil {
			return nil, fmt.Errorf("unmarshaling event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
