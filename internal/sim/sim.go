// Package sim defines the life-simulation domain model: personas with a
// financial baseline, scenario events, and the choices they offer.
package sim

import "fmt"

// FinancialBaseline is a persona's steady-state finances. Fields are pointers
// so an unknown value stays distinct from a known zero.
type FinancialBaseline struct {
	AvgMonthlyIncome *float64 `yaml:"avg_monthly_income" json:"avg_monthly_income"`
	SavingsBalance   *float64 `yaml:"savings_balance" json:"savings_balance"`
	DebtTotal        *float64 `yaml:"debt_total" json:"debt_total"`
	FixedExpenses    *float64 `yaml:"fixed_expenses" json:"fixed_expenses"`
}

// DisplayProfile holds the persona's presentation fields.
type DisplayProfile struct {
	Name       string `yaml:"name" json:"name"`
	Occupation string `yaml:"occupation,omitempty" json:"occupation,omitempty"`
	Location   string `yaml:"location,omitempty" json:"location,omitempty"`
}

// PsychometricProfile holds the persona's behavioral traits.
type PsychometricProfile struct {
	PrimaryStressor string `yaml:"primary_stressor" json:"primary_stressor"`
	RiskTolerance   string `yaml:"risk_tolerance,omitempty" json:"risk_tolerance,omitempty"`
}

// Persona is a simulated individual. Inputs to the analysis pipeline are
// never mutated.
type Persona struct {
	ID                  string              `yaml:"id" json:"id"`
	Type                string              `yaml:"type" json:"type"`
	DisplayProfile      DisplayProfile      `yaml:"display_profile" json:"display_profile"`
	PsychometricProfile PsychometricProfile `yaml:"psychometric_profile" json:"psychometric_profile"`
	FinancialBaseline   FinancialBaseline   `yaml:"financial_baseline" json:"financial_baseline"`
}

// Choice is one selectable option within an event. FinancialImpact is a
// signed monthly-equivalent amount; FutureLiability is a non-negative
// recurring monthly liability.
type Choice struct {
	ID               string  `yaml:"id" json:"id"`
	Text             string  `yaml:"text" json:"text"`
	FinancialImpact  float64 `yaml:"financial_impact" json:"financial_impact"`
	FutureLiability  float64 `yaml:"future_liability" json:"future_liability"`
	TimeImpact       string  `yaml:"time_impact" json:"time_impact"`
	BehavioralTag    string  `yaml:"behavioral_tag" json:"behavioral_tag"`
	OutcomeNarrative string  `yaml:"outcome_narrative" json:"outcome_narrative"`
}

// Event is a decision scenario offering multiple choices. Choice IDs are
// unique within an event.
type Event struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Choices     []Choice `yaml:"choices" json:"choices"`
}

// Choice returns the choice with the given id, or nil if absent.
func (e *Event) Choice(id string) *Choice {
	for i := range e.Choices {
		if e.Choices[i].ID == id {
			return &e.Choices[i]
		}
	}
	return nil
}

// Validate checks structural invariants on an event.
func (e *Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event missing id")
	}
	if len(e.Choices) == 0 {
		return fmt.Errorf("event %s has no choices", e.ID)
	}
	seen := make(map[string]bool, len(e.Choices))
	for _, c := range e.Choices {
		if c.ID == "" {
			return fmt.Errorf("event %s has a choice without an id", e.ID)
		}
		if seen[c.ID] {
			return fmt.Errorf("event %s has duplicate choice id %s", e.ID, c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}
