package engine

import (
	"regexp"
	"strconv"
	"strings"
)

type Seniority string

const (
	Junior      Seniority = "Junior"
	Mid         Seniority = "Mid"
	Senior      Seniority = "Senior"
	Unspecified Seniority = "Unspecified"
)

// yearsOfExperience matches "5 anni" and "1 anno". Non-breaking spaces from
// pasted documents count as separators.
var yearsOfExperience = regexp.MustCompile(`(\d+)[\s\p{Zs}]+anni?`)

// Seniority classifies text by explicit markers first (senior, junior, mid
// in that priority), then by the first stated number of years.
func (e *Engine) Seniority(text string) Seniority {
	lower := strings.ToLower(text)

	switch {
	case e.lex.SeniorMarkers().Any(lower):
		return Senior
	case e.lex.JuniorMarkers().Any(lower):
		return Junior
	case e.lex.MidMarkers().Any(lower):
		return Mid
	}

	m := yearsOfExperience.FindStringSubmatch(lower)
	if m == nil {
		return Unspecified
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Only overflow can fail here: an absurdly large number of years.
		return Senior
	}
	switch {
	case n >= 7:
		return Senior
	case n >= 3:
		return Mid
	default:
		return Junior
	}
}
