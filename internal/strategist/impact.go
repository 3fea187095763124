package strategist

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/arthsaathi/strategist/internal/llm"
)

const impactPrompt = `Analyze this financial decision deeply:

Event: %s
Description: %s

Selected Choice: %s
Financial Impact: %s INR
Behavioral Tag: %s
Outcome Narrative: %s

Respond with ONLY this JSON:
{
    "psychological_consequence": "brief text about emotional impact",
    "opportunity_cost": "what was foregone",
    "sustainability_score": 6,
    "urgency_vs_planning": "Strategic or Impulse",
    "risk_assessment": "brief text about risks"
}

sustainability_score is an integer from 0 to 10. Return ONLY valid JSON.`

// analyzeImpact builds the immediate analysis report. The text generator
// supplies only the qualitative fields; immediate_impact always comes from
// the choice itself, whatever the generator returns. This stage never fails:
// generation or parse errors substitute the fixed fallback report.
func (s *Strategist) analyzeImpact(ctx context.Context, st *State) error {
	choice := st.Selected

	var parsed map[string]any
	if s.provider != nil {
		prompt := fmt.Sprintf(impactPrompt,
			st.Event.Title,
			st.Event.Description,
			choice.Text,
			formatAmount(choice.FinancialImpact),
			choice.BehavioralTag,
			choice.OutcomeNarrative,
		)

		response, err := s.provider.Generate(ctx, prompt, 512)
		if err != nil {
			log.Printf("Impact analysis generation failed: %v", err)
		} else {
			parsed = llm.ParseJSONResponse(response)
		}
	}

	if parsed == nil {
		tag := choice.BehavioralTag
		if tag == "" {
			tag = "Unknown"
		}
		st.Analysis = &AnalysisReport{
			ImmediateImpact:          choice.FinancialImpact,
			PsychologicalConsequence: "Unable to analyze",
			OpportunityCost:          "Unable to determine",
			SustainabilityScore:      5,
			UrgencyVsPlanning:        tag,
			RiskAssessment:           "Standard financial risk",
		}
		return nil
	}

	st.Analysis = &AnalysisReport{
		ImmediateImpact:          choice.FinancialImpact,
		PsychologicalConsequence: getString(parsed, "psychological_consequence", "N/A"),
		OpportunityCost:          getString(parsed, "opportunity_cost", "N/A"),
		SustainabilityScore:      clampScore(getInt(parsed, "sustainability_score", 5)),
		UrgencyVsPlanning:        getString(parsed, "urgency_vs_planning", "N/A"),
		RiskAssessment:           getString(parsed, "risk_assessment", "N/A"),
	}
	return nil
}

// clampScore bounds a sustainability score to [0,10].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}

// formatAmount renders a currency amount without trailing zeros.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func getString(m map[string]any, key, fallback string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return fallback
}

func getInt(m map[string]any, key string, fallback int) int {
	if v, ok := m[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case json.Number:
			if i, err := n.Int64(); err == nil {
				return int(i)
			}
		case string:
			if i, err := strconv.Atoi(n); err == nil {
				return i
			}
		}
	}
	return fallback
}
