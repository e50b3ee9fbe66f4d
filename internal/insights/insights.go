// Package insights turns candidate scores into the short explanatory notes a
// recruiter reads: strengths, watchpoints, interview questions, a summary,
// a 30/60/90-day outlook and the pool dashboard.
package insights

import (
	"fmt"
	"strings"

	"github.com/spigell/lynxhire/internal/engine"
)

// Level buckets a 0-100 score for display.
type Level string

const (
	Good Level = "good"
	Mid  Level = "mid"
	Low  Level = "low"
)

const (
	strongScore = 75
	midScore    = 55
)

func ScoreLevel(score int) Level {
	switch {
	case score >= strongScore:
		return Good
	case score >= midScore:
		return Mid
	default:
		return Low
	}
}

const (
	NoStrengths = "No standout strengths detected automatically: manual review recommended."
	NoRisks     = "No critical risk flags detected automatically."
)

// Strengths lists what stands out positively.
func Strengths(c *engine.CandidateRecord) []string {
	var out []string
	if c.FitScore >= 75 {
		out = append(out, "Strong match with the technical/role keywords from the job description.")
	}
	if c.FuturePerformanceScore >= 75 {
		out = append(out, "High projected future performance in the role.")
	}
	if c.SoftAlignment.Applicable() && c.SoftAlignment.Score >= 70 {
		out = append(out, "Soft-skill profile well aligned with the role's expectations.")
	}
	if c.GeoMatch >= 80 {
		out = append(out, "Location and mobility fit the hiring context well.")
	}
	for _, v := range c.SoftSkills {
		if v >= 80 {
			out = append(out, "One or more soft skills stand out as a particular strength.")
			break
		}
	}
	if len(out) == 0 {
		out = append(out, NoStrengths)
	}
	return out
}

// Risks lists the watchpoints. A weak soft alignment is only flagged when the
// job asked for soft skills at all.
func Risks(c *engine.CandidateRecord) []string {
	var out []string
	if c.FitScore < 55 {
		out = append(out, "Low direct match with the key technical/role keywords in the posting.")
	}
	if c.SoftAlignment.Applicable() && c.SoftAlignment.Score < 55 {
		out = append(out, "Soft-skill profile only partially aligned with the role's expectations.")
	}
	if c.GeoMatch < 50 {
		out = append(out, "Geo-match is weak; location/mobility may be a concern.")
	}
	if c.StabilityLabel == engine.Risky {
		out = append(out, "Stability flag: multiple short-term assignments or potential volatility.")
	}
	if len(out) == 0 {
		out = append(out, NoRisks)
	}
	return out
}

// Questions suggests interview angles.
func Questions(c *engine.CandidateRecord) []string {
	out := []string{"Walk me through your most relevant experience for this role and the concrete results you achieved."}
	if c.StabilityLabel != engine.Stable {
		out = append(out, "Can you explain the changes between roles in the last years and what you were looking for each time?")
	}
	if len(c.SoftAlignment.Missing) > 0 {
		out = append(out, "In this role we value "+strings.Join(c.SoftAlignment.Missing, ", ")+
			". Can you share examples where you demonstrated these?")
	}
	return append(out, "How do you prefer to receive feedback and collaborate with your manager and peers?")
}

// Summary renders the one-paragraph candidate summary.
func Summary(c *engine.CandidateRecord) string {
	var b strings.Builder
	if c.Location != "" {
		fmt.Fprintf(&b, "Based in %s. ", c.Location)
	}
	fmt.Fprintf(&b, "Overall fit %d/100, projected performance %d/100, geo-match %d/100. ",
		c.FitScore, c.FuturePerformanceScore, c.GeoMatch)
	if c.SoftAlignment.Applicable() {
		fmt.Fprintf(&b, "Soft-skill alignment %d/100. ", c.SoftAlignment.Score)
	} else {
		b.WriteString("Soft-skill alignment not applicable: the role states no soft skills. ")
	}
	fmt.Fprintf(&b, "Stability profile: %s (%d/100).", c.StabilityLabel, c.StabilityScore)
	return b.String()
}

// Report bundles every note about one candidate.
type Report struct {
	Summary         string   `json:"summary" yaml:"summary"`
	FitLevel        Level    `json:"fitLevel" yaml:"fitLevel"`
	Strengths       []string `json:"strengths" yaml:"strengths"`
	Risks           []string `json:"risks" yaml:"risks"`
	LinguisticRisks []string `json:"linguisticRisks" yaml:"linguisticRisks"`
	Questions       []string `json:"questions" yaml:"questions"`
}

func For(c *engine.CandidateRecord) Report {
	return Report{
		Summary:         Summary(c),
		FitLevel:        ScoreLevel(c.FitScore),
		Strengths:       Strengths(c),
		Risks:           Risks(c),
		LinguisticRisks: append([]string{}, c.LinguisticRisks...),
		Questions:       Questions(c),
	}
}
