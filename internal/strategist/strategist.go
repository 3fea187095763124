// Package strategist evaluates a single financial decision made by a
// simulated persona and produces a multi-horizon impact report: immediate
// consequences, second-order effects, a decision tree against the paths not
// taken, and decision-quality metrics.
//
// The analysis is a fixed six-stage pipeline over an accumulating State.
// Two stages consult the external text generator for qualitative commentary
// and degrade to fixed fallbacks when it fails; every numeric field is
// computed deterministically from the choice data and the frozen financial
// snapshot.
package strategist

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/arthsaathi/strategist/internal/llm"
	"github.com/arthsaathi/strategist/internal/sim"
)

// ErrChoiceNotFound is returned when the selected choice id does not match
// any choice in the event. It is the pipeline's only hard failure.
var ErrChoiceNotFound = errors.New("choice not found")

// Strategist runs decision analyses. It is safe for concurrent use: each
// invocation owns its State exclusively.
type Strategist struct {
	provider llm.Provider
	now      func() time.Time
}

// New creates a Strategist. The provider may be nil, in which case the two
// generation stages use their fixed fallback content.
func New(provider llm.Provider) *Strategist {
	return &Strategist{provider: provider, now: time.Now}
}

// stage is one pipeline step. Stages run strictly in order; each consumes
// the prior stage's output.
type stage struct {
	name string
	run  func(ctx context.Context, st *State) error
}

// AnalyzeDecision analyzes the selected choice for a persona in an event and
// returns the final report. It fails only when selectedChoiceID resolves to
// no choice; any later stage error yields a best-effort report assembled
// from the state accumulated so far.
func (s *Strategist) AnalyzeDecision(ctx context.Context, persona *sim.Persona, event *sim.Event, selectedChoiceID string) (*FinalReport, error) {
	selected := event.Choice(selectedChoiceID)
	if selected == nil {
		return nil, fmt.Errorf("%w: %s in event %s", ErrChoiceNotFound, selectedChoiceID, event.ID)
	}

	st := &State{
		PersonaID:        persona.ID,
		Persona:          persona,
		EventID:          event.ID,
		Event:            event,
		SelectedChoiceID: selectedChoiceID,
		Selected:         selected,
		AllChoices:       event.Choices,
	}

	stages := []stage{
		{"extract_context", s.extractContext},
		{"analyze_impact", s.analyzeImpact},
		{"calculate_second_order", s.calculateSecondOrder},
		{"build_decision_tree", s.buildDecisionTree},
		{"generate_insights", s.generateInsights},
	}

	for i, sg := range stages {
		if err := sg.run(ctx, st); err != nil {
			log.Printf("stage %d/%d %s failed, continuing with partial analysis: %v",
				i+1, len(stages)+1, sg.name, err)
			break
		}
	}

	// Final stage: the validation pass never fails, so the report is always
	// structurally complete even after an upstream break.
	s.compileState(st)

	return formatReport(st), nil
}

// extractContext freezes the persona's financial baseline into the before
// snapshot and records the analysis timestamp. Baseline fields pass through
// verbatim, nil included.
func (s *Strategist) extractContext(_ context.Context, st *State) error {
	st.Timestamp = s.now().Format(time.RFC3339)

	fb := st.Persona.FinancialBaseline
	st.Before = &FinancialSnapshot{
		Income:        fb.AvgMonthlyIncome,
		Savings:       fb.SavingsBalance,
		Debt:          fb.DebtTotal,
		FixedExpenses: fb.FixedExpenses,
	}
	return nil
}

// deref reads an optional baseline value, treating unknown as zero for
// projection math. The snapshot itself keeps the nil.
func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// healthScore is the composite [0,100] financial health metric blending
// savings-to-income and debt-to-income ratios. Callers clamp savings to >= 0
// before calling.
func healthScore(savings, income, debt float64) float64 {
	if income == 0 {
		return 0
	}
	savingsRatio := savings / income * 100
	if savingsRatio > 50 {
		savingsRatio = 50
	}
	debtRatio := 50 - debt/income*100
	if debtRatio < 0 {
		debtRatio = 0
	}
	return (savingsRatio + debtRatio) / 2
}

// trend classifies a monthly impact by sign.
func trend(impact float64) string {
	switch {
	case impact < 0:
		return "negative"
	case impact > 0:
		return "positive"
	default:
		return "neutral"
	}
}
