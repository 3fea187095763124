package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/arthsaathi/strategist/internal/sim"
)

// UpsertPersona inserts or replaces a persona, stored as a JSON document
// with the name and type denormalized for listing.
func (db *DB) UpsertPersona(p *sim.Persona) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshaling persona %s: %w", p.ID, err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO personas (id, name, type, data) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			type = excluded.type,
			data = excluded.data,
			updated_at = datetime('now')`,
		p.ID, p.DisplayProfile.Name, p.Type, string(data),
	)
	return err
}

// GetPersona returns the persona with the given id, or nil if absent.
func (db *DB) GetPersona(id string) (*sim.Persona, error) {
	row := db.conn.QueryRow("SELECT data FROM personas WHERE id = ?", id)

	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	var p sim.Persona
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("unmarshaling persona %s: %w", id, err)
	}
	return &p, nil
}

// GetAllPersonas returns all personas ordered by name.
func (db *DB) GetAllPersonas() ([]sim.Persona, error) {
	rows, err := db.conn.Query("SELECT data FROM personas ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var personas []sim.Persona
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var p sim.Persona
		if err := json.Unmarshal([]byte(data), &p); err != nil {
			return nil, fmt.Errorf("unmarshaling persona: %w", err)
		}
		personas = append(personas, p)
	}
	return personas, rows.Err()
}
