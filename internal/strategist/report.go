package strategist

import (
	"fmt"
	"sort"
	"strings"
)

// Markdown renders the report as a markdown document for display. Layout
// only; every value comes straight from the report fields.
func (r *FinalReport) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Summary\n\n%s\n\n", r.Summary)

	if a := r.ImmediateAnalysis; a != nil {
		b.WriteString("## Immediate Analysis\n\n")
		fmt.Fprintf(&b, "- **Immediate impact:** ₹%s\n", formatAmount(a.ImmediateImpact))
		fmt.Fprintf(&b, "- **Psychological consequence:** %s\n", a.PsychologicalConsequence)
		fmt.Fprintf(&b, "- **Opportunity cost:** %s\n", a.OpportunityCost)
		fmt.Fprintf(&b, "- **Sustainability score:** %d/10\n", a.SustainabilityScore)
		fmt.Fprintf(&b, "- **Urgency vs planning:** %s\n", a.UrgencyVsPlanning)
		fmt.Fprintf(&b, "- **Risk assessment:** %s\n\n", a.RiskAssessment)
	}

	b.WriteString("## Financial Trajectory\n\n")
	if t := r.FinancialTrajectory.ThreeMonth; t != nil {
		fmt.Fprintf(&b, "- **3 months:** ₹%s cumulative (%s trend)\n",
			formatAmount(t.CumulativeImpact), t.Trend)
	}
	if p := r.FinancialTrajectory.SixMonth; p != nil {
		fmt.Fprintf(&b, "- **6 months:** savings ₹%s, debt ₹%s, health score %.1f\n",
			formatAmount(p.ProjectedSavings), formatAmount(p.DebtTrajectory), p.FinancialHealthScore)
	}
	if p := r.FinancialTrajectory.TwelveMonth; p != nil {
		fmt.Fprintf(&b, "- **12 months:** savings ₹%s, debt ₹%s, health score %.1f\n",
			formatAmount(p.ProjectedSavings), formatAmount(p.DebtTrajectory), p.FinancialHealthScore)
	}
	b.WriteString("\n")

	if tree := r.DecisionTree; tree != nil && tree.DecisionNode.EventID != "" {
		m := tree.DecisionQualityMetrics
		b.WriteString("## Decision Quality\n\n")
		optimal := "no"
		if m.WasOptimal {
			optimal = "yes"
		}
		fmt.Fprintf(&b, "- **Optimal choice:** %s\n", optimal)
		fmt.Fprintf(&b, "- **Regret likelihood:** %.0f%%\n", m.RegretLikelihood*100)
		fmt.Fprintf(&b, "- **Learning opportunity:** %s\n\n", m.LearningOpportunity)

		outlook := tree.BranchOutcomes.TakenBranch.TwelveMonthOutlook
		if outlook.RecoveryTimelineMonths > 0 {
			fmt.Fprintf(&b, "Recovery from the immediate cost takes about %d month(s) of surplus.\n\n",
				outlook.RecoveryTimelineMonths)
		}

		if len(tree.BranchOutcomes.NotTakenBranches) > 0 {
			b.WriteString("## Paths Not Taken\n\n")
			for _, alt := range tree.BranchOutcomes.NotTakenBranches {
				fmt.Fprintf(&b, "- **%s** — difference ₹%s (%s)\n",
					alt.ChoiceText, formatAmount(alt.FinancialDifference), alt.AlternativeBehavioralPath)
				if alt.WhatWouldHaveHappened != "" {
					fmt.Fprintf(&b, "  %s\n", alt.WhatWouldHaveHappened)
				}
			}
			b.WriteString("\n")
		}
	}

	if len(r.BehavioralAnalysis) > 0 {
		b.WriteString("## Behavioral Analysis\n\n")
		keys := make([]string, 0, len(r.BehavioralAnalysis))
		for k := range r.BehavioralAnalysis {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s:** %s\n", strings.ReplaceAll(k, "_", " "), renderValue(r.BehavioralAnalysis[k]))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// renderValue flattens a free-form insight value to one line of text.
func renderValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []string:
		return strings.Join(val, "; ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, renderValue(item))
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, fmt.Sprintf("%s: %s", strings.ReplaceAll(k, "_", " "), renderValue(val[k])))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprintf("%v", v)
	}
}
