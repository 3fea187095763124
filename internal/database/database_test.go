package database

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/arthsaathi/strategist/internal/sim"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func fp(v float64) *float64 { return &v }

func samplePersona() *sim.Persona {
	return &sim.Persona{
		ID:             "p-1",
		Type:           "gig_worker",
		DisplayProfile: sim.DisplayProfile{Name: "Ramesh Kumar"},
		FinancialBaseline: sim.FinancialBaseline{
			AvgMonthlyIncome: fp(22000),
			SavingsBalance:   fp(15000),
		},
	}
}

func sampleEvent() *sim.Event {
	return &sim.Event{
		ID:    "e-1",
		Title: "Vehicle Breakdown",
		Choices: []sim.Choice{
			{ID: "a", Text: "Repair", FinancialImpact: -8000},
			{ID: "b", Text: "Patch", FinancialImpact: -1500, FutureLiability: 800},
		},
	}
}

func TestPersonaRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertPersona(samplePersona()); err != nil {
		t.Fatalf("upsert persona: %v", err)
	}

	got, err := db.GetPersona("p-1")
	if err != nil {
		t.Fatalf("get persona: %v", err)
	}
	if got == nil {
		t.Fatal("expected persona")
	}
	if got.DisplayProfile.Name != "Ramesh Kumar" {
		t.Errorf("unexpected name: %s", got.DisplayProfile.Name)
	}
	if got.FinancialBaseline.AvgMonthlyIncome == nil || *got.FinancialBaseline.AvgMonthlyIncome != 22000 {
		t.Errorf("unexpected income: %v", got.FinancialBaseline.AvgMonthlyIncome)
	}
	// Unset baseline fields stay null through storage.
	if got.FinancialBaseline.DebtTotal != nil {
		t.Errorf("expected null debt, got %v", *got.FinancialBaseline.DebtTotal)
	}
}

func TestPersonaUpsertReplaces(t *testing.T) {
	db := openTestDB(t)

	p := samplePersona()
	if err := db.UpsertPersona(p); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	p.DisplayProfile.Name = "Ramesh K."
	if err := db.UpsertPersona(p); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	all, err := db.GetAllPersonas()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 persona, got %d", len(all))
	}
	if all[0].DisplayProfile.Name != "Ramesh K." {
		t.Errorf("expected updated name, got %s", all[0].DisplayProfile.Name)
	}
}

func TestGetPersonaMissing(t *testing.T) {
	db := openTestDB(t)

	got, err := db.GetPersona("nope")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Error("expected nil for missing persona")
	}
}

func TestEventRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertEvent(sampleEvent()); err != nil {
		t.Fatalf("upsert event: %v", err)
	}

	got, err := db.GetEvent("e-1")
	if err != nil {
		t.Fatalf("get event: %v", err)
	}
	if got == nil || len(got.Choices) != 2 {
		t.Fatalf("expected event with 2 choices, got %+v", got)
	}
	if got.Choices[1].FutureLiability != 800 {
		t.Errorf("unexpected liability: %v", got.Choices[1].FutureLiability)
	}
}

func TestUpsertEventRejectsInvalid(t *testing.T) {
	db := openTestDB(t)

	bad := &sim.Event{ID: "bad", Title: "No choices"}
	if err := db.UpsertEvent(bad); err == nil {
		t.Error("expected validation error for event without choices")
	}
}

func TestReportRoundTrip(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertPersona(samplePersona()); err != nil {
		t.Fatalf("upsert persona: %v", err)
	}
	if err := db.UpsertEvent(sampleEvent()); err != nil {
		t.Fatalf("upsert event: %v", err)
	}

	doc, _ := json.Marshal(map[string]any{"summary": "test report"})
	rep := &Report{
		ID:               "r-1",
		PersonaID:        "p-1",
		EventID:          "e-1",
		ChoiceID:         "a",
		WasOptimal:       true,
		RegretLikelihood: 0.2,
		HealthScore:      41.5,
		Summary:          "test report",
		Data:             doc,
	}
	if err := db.InsertReport(rep); err != nil {
		t.Fatalf("insert report: %v", err)
	}

	got, err := db.GetReport("r-1")
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if got == nil {
		t.Fatal("expected report")
	}
	if !got.WasOptimal || got.RegretLikelihood != 0.2 || got.HealthScore != 41.5 {
		t.Errorf("unexpected metrics: %+v", got)
	}
	if string(got.Data) != string(doc) {
		t.Errorf("report document mangled: %s", got.Data)
	}
}

func TestGetReportsForPersona(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertPersona(samplePersona()); err != nil {
		t.Fatalf("upsert persona: %v", err)
	}
	if err := db.UpsertEvent(sampleEvent()); err != nil {
		t.Fatalf("upsert event: %v", err)
	}

	for _, id := range []string{"r-1", "r-2"} {
		rep := &Report{
			ID: id, PersonaID: "p-1", EventID: "e-1", ChoiceID: "a",
			Summary: "s", Data: []byte("{}"),
		}
		if err := db.InsertReport(rep); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	reports, err := db.GetReportsForPersona("p-1")
	if err != nil {
		t.Fatalf("get reports: %v", err)
	}
	if len(reports) != 2 {
		t.Errorf("expected 2 reports, got %d", len(reports))
	}

	none, err := db.GetReportsForPersona("other")
	if err != nil {
		t.Fatalf("get reports: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no reports for unknown persona, got %d", len(none))
	}
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	if err := db.UpsertPersona(samplePersona()); err != nil {
		t.Fatalf("upsert persona: %v", err)
	}
	if err := db.UpsertEvent(sampleEvent()); err != nil {
		t.Fatalf("upsert event: %v", err)
	}
	rep := &Report{
		ID: "r-1", PersonaID: "p-1", EventID: "e-1", ChoiceID: "a",
		WasOptimal: true, Summary: "s", Data: []byte("{}"),
	}
	if err := db.InsertReport(rep); err != nil {
		t.Fatalf("insert report: %v", err)
	}

	stats, err := db.GetStats()
	if err != nil {
		t.Fatalf("get stats: %v", err)
	}
	if stats.Personas != 1 || stats.Events != 1 || stats.Reports != 1 || stats.OptimalReports != 1 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
