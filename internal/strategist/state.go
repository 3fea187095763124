package strategist

import "github.com/arthsaathi/strategist/internal/sim"

// State is the analysis record threaded through the pipeline stages. Each
// stage writes only its own output fields; nothing written by an earlier
// stage is modified afterwards. One State is created per invocation and
// discarded once the final report is formatted.
type State struct {
	PersonaID        string
	Persona          *sim.Persona
	EventID          string
	Event            *sim.Event
	SelectedChoiceID string
	Selected         *sim.Choice
	AllChoices       []sim.Choice

	// Stage outputs, in pipeline order.
	Timestamp   string
	Before      *FinancialSnapshot
	Analysis    *AnalysisReport
	SecondOrder *SecondOrderEffects
	Tree        *DecisionTree
	Insights    map[string]any
}

// FinancialSnapshot is the persona's finances frozen at pipeline start. All
// projections compute deltas against this copy, never a running balance.
// Nil fields mean the baseline value is unknown, not zero.
type FinancialSnapshot struct {
	Income        *float64 `json:"income"`
	Savings       *float64 `json:"savings"`
	Debt          *float64 `json:"debt"`
	FixedExpenses *float64 `json:"fixed_expenses"`
}

// AnalysisReport is the immediate analysis of the selected choice. The
// qualitative fields come from the text generator; ImmediateImpact always
// comes from the choice itself.
type AnalysisReport struct {
	ImmediateImpact          float64 `json:"immediate_impact"`
	PsychologicalConsequence string  `json:"psychological_consequence"`
	OpportunityCost          string  `json:"opportunity_cost"`
	SustainabilityScore      int     `json:"sustainability_score"`
	UrgencyVsPlanning        string  `json:"urgency_vs_planning"`
	RiskAssessment           string  `json:"risk_assessment"`
}

// ChoiceSummary summarizes the selected choice's declared consequences.
type ChoiceSummary struct {
	ImmediateImpact float64 `json:"immediate_impact"`
	FutureLiability float64 `json:"future_liability"`
	TimeImpact      string  `json:"time_impact"`
}

// PathNotTaken is an alternative choice retained for comparison.
type PathNotTaken struct {
	ChoiceID              string  `json:"choice_id"`
	Text                  string  `json:"text"`
	ImmediateImpact       float64 `json:"immediate_impact"`
	FutureLiability       float64 `json:"future_liability"`
	BehavioralConsequence string  `json:"behavioral_consequence"`
	OutcomeNarrative      string  `json:"outcome_narrative"`
}

// Projection is a horizon projection of the persona's finances.
type Projection struct {
	ProjectedSavings     float64 `json:"projected_savings"`
	DebtTrajectory       float64 `json:"debt_trajectory"`
	FinancialHealthScore float64 `json:"financial_health_score"`
}

// SecondOrderEffects holds the 6/12-month trajectories for the chosen path
// and the catalog of paths not taken.
type SecondOrderEffects struct {
	SelectedChoice ChoiceSummary  `json:"selected_choice"`
	PathsNotTaken  []PathNotTaken `json:"paths_not_taken"`
	SixMonths      *Projection    `json:"cumulative_scenario_6_months"`
	TwelveMonths   *Projection    `json:"cumulative_scenario_12_months"`
}

// DecisionNode identifies the analyzed decision.
type DecisionNode struct {
	EventID      string `json:"event_id"`
	EventTitle   string `json:"event_title"`
	DecisionMade string `json:"decision_made"`
	Timestamp    string `json:"timestamp"`
}

// Consequences are the declared immediate consequences of a choice.
type Consequences struct {
	Financial       float64 `json:"financial"`
	Time            string  `json:"time"`
	FutureLiability float64 `json:"future_liability"`
	Narrative       string  `json:"narrative"`
}

// ShortOutlook is the 3-month outlook for the taken branch.
type ShortOutlook struct {
	CumulativeImpact float64 `json:"cumulative_impact"`
	Trend            string  `json:"trend"`
}

// ExtendedOutlook is the 12-month outlook for the taken branch, richer than
// the plain 12-month Projection.
type ExtendedOutlook struct {
	CumulativeImpact       float64 `json:"cumulative_impact"`
	MonthlyAverage         float64 `json:"monthly_average"`
	DebtAccumulation       float64 `json:"debt_accumulation"`
	Trend                  string  `json:"trend"`
	NetPosition            float64 `json:"net_position"`
	ProjectedSavings       float64 `json:"projected_savings"`
	ProjectedDebt          float64 `json:"projected_debt"`
	RecoveryTimelineMonths int     `json:"recovery_timeline_months"`
	FinancialHealthScore   float64 `json:"financial_health_score"`
}

// TakenBranch is the outcome analysis for the selected choice.
type TakenBranch struct {
	ImmediateConsequences   Consequences    `json:"immediate_consequences"`
	ThreeMonthOutlook       ShortOutlook    `json:"3_month_outlook"`
	TwelveMonthOutlook      ExtendedOutlook `json:"12_month_outlook"`
	BehavioralReinforcement string          `json:"behavioral_reinforcement"`
}

// NotTakenBranch is the differential outcome for an alternative choice.
// FinancialDifference is signed: positive means the alternative would have
// performed better.
type NotTakenBranch struct {
	ChoiceText                string  `json:"choice_text"`
	WhatWouldHaveHappened     string  `json:"what_would_have_happened"`
	FinancialDifference       float64 `json:"financial_difference"`
	AlternativeBehavioralPath string  `json:"alternative_behavioral_path"`
}

// BranchOutcomes groups the taken and not-taken branch analyses.
type BranchOutcomes struct {
	TakenBranch      TakenBranch      `json:"taken_branch"`
	NotTakenBranches []NotTakenBranch `json:"not_taken_branches"`
}

// QualityMetrics are the decision-quality heuristics.
type QualityMetrics struct {
	WasOptimal          bool    `json:"was_optimal"`
	RegretLikelihood    float64 `json:"regret_likelihood"`
	LearningOpportunity string  `json:"learning_opportunity"`
}

// DecisionTree compares the chosen path against the alternatives not taken.
type DecisionTree struct {
	DecisionNode           DecisionNode   `json:"decision_node"`
	BranchOutcomes         BranchOutcomes `json:"branch_outcomes"`
	DecisionQualityMetrics QualityMetrics `json:"decision_quality_metrics"`
}

// Metadata identifies a final report.
type Metadata struct {
	PersonaID         string `json:"persona_id"`
	EventID           string `json:"event_id"`
	AnalysisTimestamp string `json:"analysis_timestamp"`
	DecisionMade      string `json:"decision_made"`
}

// Trajectory collects the before snapshot and the horizon projections.
type Trajectory struct {
	Before      *FinancialSnapshot `json:"before"`
	ThreeMonth  *ShortOutlook      `json:"3_month_projection"`
	SixMonth    *Projection        `json:"6_month_projection"`
	TwelveMonth *Projection        `json:"12_month_projection"`
}

// FinalReport is the complete multi-horizon impact report.
type FinalReport struct {
	Metadata            Metadata            `json:"metadata"`
	ImmediateAnalysis   *AnalysisReport     `json:"immediate_analysis"`
	DecisionTree        *DecisionTree       `json:"decision_tree"`
	SecondOrderEffects  *SecondOrderEffects `json:"second_order_effects"`
	BehavioralAnalysis  map[string]any      `json:"behavioral_analysis"`
	FinancialTrajectory Trajectory          `json:"financial_trajectory"`
	Summary             string              `json:"summary"`
}
