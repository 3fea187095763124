package strategist

import (
	"context"
	"math"
	"strings"

	"github.com/arthsaathi/strategist/internal/sim"
)

// buildDecisionTree builds the 3- and 12-month outlooks for the taken
// branch, the differential outcomes for the untaken branches, and the
// decision-quality metrics. Deterministic.
func (s *Strategist) buildDecisionTree(_ context.Context, st *State) error {
	selected := st.Selected

	tree := &DecisionTree{
		DecisionNode: DecisionNode{
			EventID:      st.EventID,
			EventTitle:   st.Event.Title,
			DecisionMade: selected.Text,
			Timestamp:    st.Timestamp,
		},
		BranchOutcomes: BranchOutcomes{
			TakenBranch: TakenBranch{
				ImmediateConsequences: Consequences{
					Financial:       selected.FinancialImpact,
					Time:            selected.TimeImpact,
					FutureLiability: selected.FutureLiability,
					Narrative:       selected.OutcomeNarrative,
				},
				ThreeMonthOutlook:       projectThreeMonths(selected),
				TwelveMonthOutlook:      projectTwelveMonths(selected, st.Before),
				BehavioralReinforcement: selected.BehavioralTag,
			},
		},
		DecisionQualityMetrics: QualityMetrics{
			WasOptimal:          wasOptimal(st.AllChoices, selected),
			RegretLikelihood:    regretLikelihood(selected),
			LearningOpportunity: learningOpportunity(selected.BehavioralTag),
		},
	}

	for _, alt := range st.AllChoices {
		if alt.ID == st.SelectedChoiceID {
			continue
		}
		tree.BranchOutcomes.NotTakenBranches = append(tree.BranchOutcomes.NotTakenBranches, NotTakenBranch{
			ChoiceText:                alt.Text,
			WhatWouldHaveHappened:     alt.OutcomeNarrative,
			FinancialDifference:       alt.FinancialImpact - selected.FinancialImpact,
			AlternativeBehavioralPath: alt.BehavioralTag,
		})
	}

	st.Tree = tree
	return nil
}

func projectThreeMonths(choice *sim.Choice) ShortOutlook {
	return ShortOutlook{
		CumulativeImpact: choice.FinancialImpact * 3,
		Trend:            trend(choice.FinancialImpact),
	}
}

func projectTwelveMonths(choice *sim.Choice, before *FinancialSnapshot) ExtendedOutlook {
	impact := choice.FinancialImpact
	liability := choice.FutureLiability

	income := deref(before.Income)

	// Recovery timeline covers the one-time hit, paid down from monthly
	// surplus; zero when there is no hit or no surplus to pay it from.
	immediateCost := 0.0
	if impact < 0 {
		immediateCost = math.Abs(impact)
	}
	monthlySurplus := income - deref(before.FixedExpenses)

	recoveryMonths := 0
	if immediateCost > 0 && monthlySurplus > 0 {
		recoveryMonths = int(immediateCost / monthlySurplus)
		if recoveryMonths < 1 {
			recoveryMonths = 1
		}
	}

	cumulativeImpact := impact * 12
	debtAccumulation := 0.0
	if liability > 0 {
		debtAccumulation = liability * 12
	}

	projectedSavings := deref(before.Savings) + cumulativeImpact
	if projectedSavings < 0 {
		projectedSavings = 0
	}
	projectedDebt := deref(before.Debt) + debtAccumulation

	return ExtendedOutlook{
		CumulativeImpact:       cumulativeImpact,
		MonthlyAverage:         impact,
		DebtAccumulation:       debtAccumulation,
		Trend:                  trend(impact),
		NetPosition:            cumulativeImpact - debtAccumulation,
		ProjectedSavings:       projectedSavings,
		ProjectedDebt:          projectedDebt,
		RecoveryTimelineMonths: recoveryMonths,
		FinancialHealthScore:   healthScore(projectedSavings, income, projectedDebt),
	}
}

// wasOptimal reports whether no alternative has a strictly greater
// financial impact than the selected choice. Ties count as optimal.
func wasOptimal(choices []sim.Choice, selected *sim.Choice) bool {
	for _, choice := range choices {
		if choice.ID == selected.ID {
			continue
		}
		if choice.FinancialImpact > selected.FinancialImpact {
			return false
		}
	}
	return true
}

// regretLikelihood is a heuristic [0,1] estimate of dissatisfaction risk.
// Rules are evaluated in order; the first match wins.
func regretLikelihood(selected *sim.Choice) float64 {
	if selected.FinancialImpact < -5000 {
		return 0.8
	}
	if selected.FutureLiability > 0 {
		return 0.6
	}
	return 0.2
}

// learningOpportunity derives the key learning from the behavioral tag.
func learningOpportunity(tag string) string {
	if strings.Contains(tag, "Risk") || strings.Contains(tag, "Reckless") {
		return "High-risk decision made. Opportunity to practice risk assessment."
	}
	if strings.Contains(tag, "Prudent") {
		return "Cautious approach. Opportunity to explore calculated risks."
	}
	return "Opportunity to reflect on decision-making patterns."
}
