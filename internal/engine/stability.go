package engine

import (
	"regexp"
	"strings"
)

// StabilityLabel buckets a stability score.
type StabilityLabel string

const (
	Stable StabilityLabel = "Stable"
	Mixed  StabilityLabel = "Mixed"
	Risky  StabilityLabel = "Risky"
)

const (
	minStability = 35
	maxStability = 100
)

var yearRange = regexp.MustCompile(`20[0-9]{2}[\s\p{Zs}]*[-–][\s\p{Zs}]*20[0-9]{2}`)

// Stability is the career-volatility estimate of a candidate text.
type Stability struct {
	Score int            `json:"score" yaml:"score"`
	Label StabilityLabel `json:"label" yaml:"label"`
}

// StabilityFor labels a score: 80 and above is Stable, 60 and above Mixed.
func StabilityFor(score int) StabilityLabel {
	switch {
	case score >= 80:
		return Stable
	case score >= 60:
		return Mixed
	default:
		return Risky
	}
}

// Stability subtracts penalties for many year ranges, month-long stints and
// temporary contracts from 100, keeping the result within 35-100.
func (e *Engine) Stability(text string) Stability {
	lower := strings.ToLower(text)
	risk := 0

	if len(yearRange.FindAllStringIndex(lower, -1)) >= 5 {
		risk += 15
	}
	if len(e.lex.ShortTermPattern().FindAllStringIndex(lower, -1)) > 3 {
		risk += 20
	}
	if len(e.lex.TemporaryPattern().FindAllStringIndex(lower, -1)) > 1 {
		risk += 15
	}

	score := clampInt(100-risk, minStability, maxStability)
	return Stability{Score: score, Label: StabilityFor(score)}
}
