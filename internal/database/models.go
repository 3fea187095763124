package database

import "encoding/json"

// Report is a stored analysis report. The full report document lives in
// Data; the scalar columns exist for listing and aggregate queries.
type Report struct {
	ID               string
	PersonaID        string
	EventID          string
	ChoiceID         string
	WasOptimal       bool
	RegretLikelihood float64
	HealthScore      float64
	Summary          string
	Data             json.RawMessage
	CreatedAt        *string
}

// Stats contains aggregate database statistics.
type Stats struct {
	Personas       int
	Events         int
	Reports        int
	OptimalReports int
}
