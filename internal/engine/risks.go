package engine

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	RiskJobChanges = "Multiple short-term roles or frequent job changes."
	RiskSeasonal   = "Frequent seasonal or temporary contracts."
	RiskSporadic   = "Self-described history of short sporadic jobs."
	RiskShortText  = "Profile description is relatively short: low information density."
)

const shortProfileChars = 400

var yearToken = regexp.MustCompile(`20[0-9]{2}`)

// LinguisticRisks returns the advisory flags raised by the candidate text.
// Conditions are independent and keep a fixed order.
func (e *Engine) LinguisticRisks(text string) []string {
	lower := strings.ToLower(text)
	risks := []string{}

	if len(yearToken.FindAllStringIndex(lower, -1)) >= 6 {
		risks = append(risks, RiskJobChanges)
	}
	if len(e.lex.SeasonalPattern().FindAllStringIndex(lower, -1)) >= 2 {
		risks = append(risks, RiskSeasonal)
	}
	if e.lex.Sporadic().Any(lower) {
		risks = append(risks, RiskSporadic)
	}
	if utf8.RuneCountInString(text) < shortProfileChars {
		risks = append(risks, RiskShortText)
	}
	return risks
}
