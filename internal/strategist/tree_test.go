package strategist

import (
	"context"
	"testing"

	"github.com/arthsaathi/strategist/internal/sim"
)

func buildTree(t *testing.T, persona *sim.Persona, event *sim.Event, choiceID string) *State {
	t.Helper()
	s := newTestStrategist(nil)
	st := &State{
		PersonaID:        persona.ID,
		Persona:          persona,
		EventID:          event.ID,
		Event:            event,
		SelectedChoiceID: choiceID,
		Selected:         event.Choice(choiceID),
		AllChoices:       event.Choices,
	}
	if st.Selected == nil {
		t.Fatalf("fixture choice %s not found", choiceID)
	}
	if err := s.extractContext(context.Background(), st); err != nil {
		t.Fatalf("extract context: %v", err)
	}
	if err := s.buildDecisionTree(context.Background(), st); err != nil {
		t.Fatalf("build tree: %v", err)
	}
	return st
}

func TestRecoveryTimeline(t *testing.T) {
	// income 3000, fixed expenses 2500 -> surplus 500; immediate cost 2000
	// -> 4 months to recover.
	st := buildTree(t, testPersona(), testEvent(), "choice-a")

	outlook := st.Tree.BranchOutcomes.TakenBranch.TwelveMonthOutlook
	if outlook.RecoveryTimelineMonths != 4 {
		t.Errorf("expected recovery of 4 months, got %d", outlook.RecoveryTimelineMonths)
	}
}

func TestRecoveryTimelineNoSurplus(t *testing.T) {
	persona := testPersona()
	persona.FinancialBaseline.FixedExpenses = fp(3000)
	st := buildTree(t, persona, testEvent(), "choice-a")

	outlook := st.Tree.BranchOutcomes.TakenBranch.TwelveMonthOutlook
	if outlook.RecoveryTimelineMonths != 0 {
		t.Errorf("expected recovery 0 without surplus, got %d", outlook.RecoveryTimelineMonths)
	}
}

func TestRecoveryTimelineMinimumOneMonth(t *testing.T) {
	persona := testPersona()
	persona.FinancialBaseline.FixedExpenses = fp(0)
	// surplus 3000 against a 2000 cost floors at one month
	st := buildTree(t, persona, testEvent(), "choice-a")

	outlook := st.Tree.BranchOutcomes.TakenBranch.TwelveMonthOutlook
	if outlook.RecoveryTimelineMonths != 1 {
		t.Errorf("expected recovery floor of 1 month, got %d", outlook.RecoveryTimelineMonths)
	}
}

func TestRecoveryTimelinePositiveImpact(t *testing.T) {
	st := buildTree(t, testPersona(), testEvent(), "choice-b")

	outlook := st.Tree.BranchOutcomes.TakenBranch.TwelveMonthOutlook
	if outlook.RecoveryTimelineMonths != 0 {
		t.Errorf("positive impact needs no recovery, got %d", outlook.RecoveryTimelineMonths)
	}
}

func TestTwelveMonthOutlookFigures(t *testing.T) {
	st := buildTree(t, testPersona(), testEvent(), "choice-c")

	outlook := st.Tree.BranchOutcomes.TakenBranch.TwelveMonthOutlook
	if outlook.CumulativeImpact != -72000 {
		t.Errorf("expected cumulative -72000, got %v", outlook.CumulativeImpact)
	}
	if outlook.MonthlyAverage != -6000 {
		t.Errorf("expected monthly average -6000, got %v", outlook.MonthlyAverage)
	}
	if outlook.DebtAccumulation != 5400 {
		t.Errorf("expected debt accumulation 5400, got %v", outlook.DebtAccumulation)
	}
	if outlook.NetPosition != -77400 {
		t.Errorf("expected net position -77400, got %v", outlook.NetPosition)
	}
	// savings 10000 - 72000 clamps to 0
	if outlook.ProjectedSavings != 0 {
		t.Errorf("expected projected savings clamped to 0, got %v", outlook.ProjectedSavings)
	}
	if outlook.ProjectedDebt != 10400 {
		t.Errorf("expected projected debt 10400, got %v", outlook.ProjectedDebt)
	}
	if outlook.Trend != "negative" {
		t.Errorf("expected negative trend, got %s", outlook.Trend)
	}
}

func TestThreeMonthOutlook(t *testing.T) {
	st := buildTree(t, testPersona(), testEvent(), "choice-b")

	outlook := st.Tree.BranchOutcomes.TakenBranch.ThreeMonthOutlook
	if outlook.CumulativeImpact != 1500 {
		t.Errorf("expected cumulative 1500, got %v", outlook.CumulativeImpact)
	}
	if outlook.Trend != "positive" {
		t.Errorf("expected positive trend, got %s", outlook.Trend)
	}
}

func TestFinancialDifference(t *testing.T) {
	event := &sim.Event{
		ID:    "event-diff",
		Title: "Side Gig Offer",
		Choices: []sim.Choice{
			{ID: "take", Text: "Take it", FinancialImpact: 500},
			{ID: "decline", Text: "Decline", FinancialImpact: -200},
		},
	}
	st := buildTree(t, testPersona(), event, "decline")

	branches := st.Tree.BranchOutcomes.NotTakenBranches
	if len(branches) != 1 {
		t.Fatalf("expected 1 alternative branch, got %d", len(branches))
	}
	if branches[0].FinancialDifference != 700 {
		t.Errorf("expected difference 700, got %v", branches[0].FinancialDifference)
	}
}

func TestWasOptimal(t *testing.T) {
	event := testEvent()

	// choice-b has the highest impact (500) of a(-2000), b(500), c(-6000).
	st := buildTree(t, testPersona(), event, "choice-b")
	if !st.Tree.DecisionQualityMetrics.WasOptimal {
		t.Error("highest-impact choice should be optimal")
	}

	st = buildTree(t, testPersona(), event, "choice-a")
	if st.Tree.DecisionQualityMetrics.WasOptimal {
		t.Error("choice with a strictly better alternative should not be optimal")
	}
}

func TestWasOptimalTie(t *testing.T) {
	event := &sim.Event{
		ID:    "event-tie",
		Title: "Two Equal Offers",
		Choices: []sim.Choice{
			{ID: "x", Text: "Offer X", FinancialImpact: 100},
			{ID: "y", Text: "Offer Y", FinancialImpact: 100},
		},
	}
	st := buildTree(t, testPersona(), event, "x")
	if !st.Tree.DecisionQualityMetrics.WasOptimal {
		t.Error("tied impacts count as optimal")
	}
}

func TestRegretLikelihoodRules(t *testing.T) {
	tests := []struct {
		name      string
		impact    float64
		liability float64
		want      float64
	}{
		{"large negative impact wins first", -6000, 500, 0.8},
		{"boundary impact falls through to liability", -5000, 100, 0.6},
		{"liability only", 200, 50, 0.6},
		{"no impact no liability", 200, 0, 0.2},
		{"moderate negative without liability", -2000, 0, 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			choice := &sim.Choice{FinancialImpact: tt.impact, FutureLiability: tt.liability}
			if got := regretLikelihood(choice); got != tt.want {
				t.Errorf("regretLikelihood(%v, %v) = %v, want %v", tt.impact, tt.liability, got, tt.want)
			}
		})
	}
}

func TestLearningOpportunity(t *testing.T) {
	tests := []struct {
		tag  string
		want string
	}{
		{"Risk Taker", "High-risk decision made. Opportunity to practice risk assessment."},
		{"Reckless Optimist", "High-risk decision made. Opportunity to practice risk assessment."},
		{"Prudent Planner", "Cautious approach. Opportunity to explore calculated risks."},
		{"Scarcity Mindset", "Opportunity to reflect on decision-making patterns."},
		{"", "Opportunity to reflect on decision-making patterns."},
	}

	for _, tt := range tests {
		if got := learningOpportunity(tt.tag); got != tt.want {
			t.Errorf("learningOpportunity(%q) = %q, want %q", tt.tag, got, tt.want)
		}
	}
}

func TestDecisionNodeIdentity(t *testing.T) {
	st := buildTree(t, testPersona(), testEvent(), "choice-a")

	node := st.Tree.DecisionNode
	if node.EventID != "event-1" || node.EventTitle != "Vehicle Breakdown" {
		t.Errorf("unexpected decision node: %+v", node)
	}
	if node.Timestamp != st.Timestamp {
		t.Error("decision node should carry the pipeline timestamp")
	}
}
