package database

import "database/sql"

// InsertReport stores a completed analysis report.
func (db *DB) InsertReport(r *Report) error {
	optimal := 0
	if r.WasOptimal {
		optimal = 1
	}
	_, err := db.conn.Exec(
		`INSERT INTO reports
		(id, persona_id, event_id, choice_id, was_optimal, regret_likelihood, health_score, summary, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.PersonaID, r.EventID, r.ChoiceID, optimal,
		r.RegretLikelihood, r.HealthScore, r.Summary, string(r.Data),
	)
	return err
}

// GetReport returns the report with the given id, or nil if absent.
func (db *DB) GetReport(id string) (*Report, error) {
	row := db.conn.QueryRow(
		`SELECT id, persona_id, event_id, choice_id, was_optimal, regret_likelihood,
			health_score, summary, report, created_at
		FROM reports WHERE id = ?`, id,
	)
	return scanReport(row)
}

// GetAllReports returns all reports, most recent first.
func (db *DB) GetAllReports() ([]Report, error) {
	rows, err := db.conn.Query(
		`SELECT id, persona_id, event_id, choice_id, was_optimal, regret_likelihood,
			health_score, summary, report, created_at
		FROM reports ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		r, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// GetReportsForPersona returns a persona's reports, most recent first.
func (db *DB) GetReportsForPersona(personaID string) ([]Report, error) {
	rows, err := db.conn.Query(
		`SELECT id, persona_id, event_id, choice_id, was_optimal, regret_likelihood,
			health_score, summary, report, created_at
		FROM reports WHERE persona_id = ? ORDER BY created_at DESC, id`, personaID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []Report
	for rows.Next() {
		r, err := scanReportRow(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

func scanReport(row *sql.Row) (*Report, error) {
	var r Report
	var optimal int
	var data string
	if err := row.Scan(&r.ID, &r.PersonaID, &r.EventID, &r.ChoiceID, &optimal,
		&r.RegretLikelihood, &r.HealthScore, &r.Summary, &data, &r.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	r.WasOptimal = optimal != 0
	r.Data = []byte(data)
	return &r, nil
}

func scanReportRow(rows *sql.Rows) (*Report, error) {
	var r Report
	var optimal int
	var data string
	if err := rows.Scan(&r.ID, &r.PersonaID, &r.EventID, &r.ChoiceID, &optimal,
		&r.RegretLikelihood, &r.HealthScore, &r.Summary, &data, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.WasOptimal = optimal != 0
	r.Data = []byte(data)
	return &r, nil
}

// GetStats returns aggregate database statistics.
func (db *DB) GetStats() (*Stats, error) {
	s := &Stats{}

	queries := []struct {
		sql  string
		dest *int
	}{
		{"SELECT COUNT(*) FROM personas", &s.Personas},
		{"SELECT COUNT(*) FROM events", &s.Events},
		{"SELECT COUNT(*) FROM reports", &s.Reports},
		{"SELECT COUNT(*) FROM reports WHERE was_optimal = 1", &s.OptimalReports},
	}

	for _, q := range queries {
		if err := db.conn.QueryRow(q.sql).Scan(q.dest); err != nil {
			return nil, err
		}
	}

	return s, nil
}
