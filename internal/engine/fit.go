package engine

// keywordWeight weights a ranked keyword by its 0-based position.
func keywordWeight(idx int) float64 {
	switch {
	case idx < 3:
		return 2.2
	case idx < 8:
		return 1.4
	default:
		return 1.0
	}
}

func densityBonus(tokens int) float64 {
	switch {
	case tokens >= 1200:
		return 0.12
	case tokens > 80:
		return 0.08
	default:
		return 0
	}
}

// FitScore measures the weighted coverage of the job keywords by the
// candidate text plus a length density bonus, on a 0-100 scale. An empty
// keyword list always scores 0.
func (e *Engine) FitScore(text string, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}

	tokens := e.CanonicalTokens(text)
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}

	var hits, total float64
	for idx, kw := range keywords {
		w := keywordWeight(idx)
		total += w
		if _, ok := set[kw]; ok {
			hits += w
		}
	}

	coverage := 0.0
	if total > 0 {
		coverage = hits / total
	}
	return round(clamp(coverage+densityBonus(len(tokens)), 0, 1) * 100)
}
