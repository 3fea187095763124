package strategist

import "context"

// calculateSecondOrder projects the 6- and 12-month trajectories for the
// chosen path and catalogs the paths not taken. Fully deterministic, no
// external calls.
//
// The 6-month model adds future_liability once while the 12-month model
// multiplies it by 12. The asymmetry is carried from the source model and
// preserved deliberately; see DESIGN.md.
func (s *Strategist) calculateSecondOrder(_ context.Context, st *State) error {
	selected := st.Selected
	before := st.Before

	effects := &SecondOrderEffects{
		SelectedChoice: ChoiceSummary{
			ImmediateImpact: selected.FinancialImpact,
			FutureLiability: selected.FutureLiability,
			TimeImpact:      selected.TimeImpact,
		},
	}

	for _, choice := range st.AllChoices {
		if choice.ID == st.SelectedChoiceID {
			continue
		}
		effects.PathsNotTaken = append(effects.PathsNotTaken, PathNotTaken{
			ChoiceID:              choice.ID,
			Text:                  choice.Text,
			ImmediateImpact:       choice.FinancialImpact,
			FutureLiability:       choice.FutureLiability,
			BehavioralConsequence: choice.BehavioralTag,
			OutcomeNarrative:      choice.OutcomeNarrative,
		})
	}

	income := deref(before.Income)
	savings := deref(before.Savings)
	debt := deref(before.Debt)

	savings6m := savings + selected.FinancialImpact*6
	if savings6m < 0 {
		savings6m = 0
	}
	debt6m := debt + selected.FutureLiability
	effects.SixMonths = &Projection{
		ProjectedSavings:     savings6m,
		DebtTrajectory:       debt6m,
		FinancialHealthScore: healthScore(savings6m, income, debt6m),
	}

	savings12m := savings + selected.FinancialImpact*12
	if savings12m < 0 {
		savings12m = 0
	}
	debt12m := debt + selected.FutureLiability*12
	effects.TwelveMonths = &Projection{
		ProjectedSavings:     savings12m,
		DebtTrajectory:       debt12m,
		FinancialHealthScore: healthScore(savings12m, income, debt12m),
	}

	st.SecondOrder = effects
	return nil
}
