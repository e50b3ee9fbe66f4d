package insights

import (
	"strings"

	"github.com/spigell/lynxhire/internal/engine"
)

// Phase is one block of the onboarding outlook.
type Phase struct {
	Title string   `json:"title" yaml:"title"`
	Notes []string `json:"notes" yaml:"notes"`
}

// Outlook projects the first 90 days of the candidate in the role. A
// non-empty focus adds a closing phase about it.
func Outlook(c *engine.CandidateRecord, focus string) []Phase {
	first := Phase{Title: "Day 1-30: onboarding and role framing."}
	if c.FitScore >= 75 {
		first.Notes = append(first.Notes, "The candidate quickly understands the scope of the role and connects their past experience to the new context.")
	} else {
		first.Notes = append(first.Notes, "The candidate needs extra clarification on expectations and priorities.")
	}
	if c.SoftAlignment.Score >= 70 {
		first.Notes = append(first.Notes, "Soft-skill alignment supports a smooth integration with the team and with the line manager.")
	} else {
		first.Notes = append(first.Notes, "Some behaviours may need explicit feedback and alignment, especially around soft expectations.")
	}

	second := Phase{Title: "Day 31-60: contribution and ownership."}
	if c.FuturePerformanceScore >= 75 {
		second.Notes = append(second.Notes, "The candidate starts owning processes and delivers visible results with limited supervision.")
	} else {
		second.Notes = append(second.Notes, "Contribution is present but still somewhat dependent on guidance and check-ins.")
	}
	if c.StabilityLabel == engine.Risky {
		second.Notes = append(second.Notes, "Monitor engagement and early signs of frustration or misalignment.")
	}

	third := Phase{Title: "Day 61-90: consolidation and signals for the future."}
	switch {
	case c.FuturePerformanceScore >= 80 && c.FitScore >= 80:
		third.Notes = append(third.Notes, "Signals suggest this person can become a key reference for the role in the medium term.")
	case c.FuturePerformanceScore >= 60:
		third.Notes = append(third.Notes, "The candidate is on track, with potential to grow if supported with clear goals.")
	default:
		third.Notes = append(third.Notes, "After 90 days, there might still be question marks about long-term fit or impact.")
	}

	phases := []Phase{first, second, third}
	if focus = strings.TrimSpace(focus); focus != "" {
		phases = append(phases, Phase{
			Title: "Focus note (" + focus + "):",
			Notes: []string{"Consider discussing expectations explicitly during the first 1:1 and aligning metrics of success."},
		})
	}
	return phases
}
