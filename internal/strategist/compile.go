package strategist

import (
	"fmt"
	"strings"

	"github.com/arthsaathi/strategist/internal/sim"
)

// compileState is the validation pass: any required field left unpopulated
// by an upstream failure gets a safe empty value, so the formatted report is
// always structurally complete.
func (s *Strategist) compileState(st *State) {
	if st.AllChoices == nil {
		st.AllChoices = []sim.Choice{}
	}
	if st.Before == nil {
		st.Before = &FinancialSnapshot{}
	}
	if st.Analysis == nil {
		st.Analysis = &AnalysisReport{}
	}
	if st.SecondOrder == nil {
		st.SecondOrder = &SecondOrderEffects{}
	}
	if st.Tree == nil {
		st.Tree = &DecisionTree{}
	}
	if st.Insights == nil {
		st.Insights = map[string]any{}
	}
}

// formatReport assembles the final report from the accumulated state.
func formatReport(st *State) *FinalReport {
	decisionMade := "Unknown"
	if st.Selected != nil {
		decisionMade = st.Selected.Text
	}

	report := &FinalReport{
		Metadata: Metadata{
			PersonaID:         st.PersonaID,
			EventID:           st.EventID,
			AnalysisTimestamp: st.Timestamp,
			DecisionMade:      decisionMade,
		},
		ImmediateAnalysis:  st.Analysis,
		DecisionTree:       st.Tree,
		SecondOrderEffects: st.SecondOrder,
		BehavioralAnalysis: st.Insights,
		FinancialTrajectory: Trajectory{
			Before: st.Before,
		},
		Summary: generateSummary(st),
	}

	if st.Tree != nil && st.Tree.DecisionNode.EventID != "" {
		outlook := st.Tree.BranchOutcomes.TakenBranch.ThreeMonthOutlook
		report.FinancialTrajectory.ThreeMonth = &outlook
	}
	if st.SecondOrder != nil {
		report.FinancialTrajectory.SixMonth = st.SecondOrder.SixMonths
		report.FinancialTrajectory.TwelveMonth = st.SecondOrder.TwelveMonths
	}

	return report
}

// generateSummary produces the deterministic narrative summary. Every input
// is a numeric or structural field computed by the earlier stages, never
// generated free text, so identical inputs always produce the identical
// summary.
func generateSummary(st *State) string {
	if st.Selected == nil {
		return "Analysis incomplete - no choice selected"
	}

	impact := st.Selected.FinancialImpact
	behavior := st.Selected.BehavioralTag
	if behavior == "" {
		behavior = "Unknown"
	}
	eventTitle := st.Event.Title
	if eventTitle == "" {
		eventTitle = "Unknown Event"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "In the event '%s', the persona chose: '%s' with ₹%s immediate financial impact. ",
		eventTitle, st.Selected.Text, formatAmount(impact))
	fmt.Fprintf(&b, "This reflects a '%s' behavioral pattern. ", behavior)

	var metrics QualityMetrics
	if st.Tree != nil {
		metrics = st.Tree.DecisionQualityMetrics
	}

	if metrics.WasOptimal {
		b.WriteString("This was an optimal financial choice among available alternatives. ")
	} else {
		betterCount := 0
		for _, alt := range st.AllChoices {
			if alt.FinancialImpact > impact {
				betterCount++
			}
		}
		if betterCount > 0 {
			fmt.Fprintf(&b, "However, %d better financial alternative(s) existed. ", betterCount)
		}
	}

	switch {
	case metrics.RegretLikelihood > 0.6:
		b.WriteString("There is a moderate-to-high likelihood of regret. ")
	case metrics.RegretLikelihood > 0.3:
		b.WriteString("There is some regret risk, but manageable. ")
	default:
		b.WriteString("This choice has low regret likelihood. ")
	}

	if metrics.LearningOpportunity != "" {
		fmt.Fprintf(&b, "Key learning: %s", metrics.LearningOpportunity)
	}

	return b.String()
}
