package strategist

import (
	"context"
	"fmt"
	"log"

	"github.com/arthsaathi/strategist/internal/llm"
)

const insightsPrompt = `Behavioral Analysis for Gig Economy Persona:

Persona: %s (%s)
Primary Stressor: %s
Decision Type: %s
Outcome: %s

Provide JSON with:
1. decision_archetype: Which archetype does this reflect? (e.g., "Scarcity Mindset", "Risk Taker", "Prudent Planner")
2. vulnerability_indicators: What vulnerabilities does this expose?
3. adaptive_capacity: Can this persona adapt to financial shocks after this decision?
4. long_term_trajectory: Where does this put them in 12 months?
5. intervention_opportunities: What could help them make better decisions?
6. peer_comparison: How does this compare to similar personas?

Return valid JSON only.`

// generateInsights requests archetype and vulnerability commentary from the
// text generator. Code fences are stripped before parsing; any generation or
// parse failure substitutes the fixed fallback structure. Never fails.
func (s *Strategist) generateInsights(ctx context.Context, st *State) error {
	choice := st.Selected

	var parsed map[string]any
	if s.provider != nil {
		prompt := fmt.Sprintf(insightsPrompt,
			st.Persona.DisplayProfile.Name,
			st.Persona.Type,
			st.Persona.PsychometricProfile.PrimaryStressor,
			choice.BehavioralTag,
			choice.OutcomeNarrative,
		)

		response, err := s.provider.Generate(ctx, prompt, 1024)
		if err != nil {
			log.Printf("Behavioral insight generation failed: %v", err)
		} else {
			parsed = llm.ParseJSONResponse(response)
		}
	}

	if parsed == nil {
		parsed = fallbackInsights(choice.BehavioralTag)
	}

	st.Insights = parsed
	return nil
}

// fallbackInsights is the fixed structure used when generation fails. The
// content is generic on purpose: it must hold for any persona.
func fallbackInsights(behavioralTag string) map[string]any {
	archetype := behavioralTag
	if archetype == "" {
		archetype = "Unknown"
	}
	return map[string]any{
		"decision_archetype": archetype,
		"vulnerability_indicators": []string{
			"Reduced cash buffer after major expense",
			"Increased financial stress and anxiety",
		},
		"adaptive_capacity": map[string]any{
			"short_term":  "Moderate - can maintain operations but limited flexibility",
			"medium_term": "Low - vulnerable to next emergency without buffer rebuild",
		},
		"long_term_trajectory": "Sustainability depends on consistent income and avoiding additional shocks",
		"intervention_opportunities": []string{
			"Emergency fund rebuilding plan",
			"Financial literacy on risk management",
			"Income diversification strategies",
		},
		"peer_comparison": "Insufficient data for peer comparison",
	}
}
