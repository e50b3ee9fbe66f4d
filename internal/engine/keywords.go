package engine

import (
	"sort"
	"strings"
	"unicode/utf8"
)

const roleTokenBonus = 2.5

// titleSeparators end the role prefix of the first line.
const titleSeparators = "–-:|"

// ExtractKeywords ranks the salient canonical tokens of a job description,
// most significant first, returning at most max unique entries. Tokens from
// the role prefix of the first line get a frequency bonus.
func (e *Engine) ExtractKeywords(text string, max int) []string {
	if text == "" || max <= 0 {
		return []string{}
	}

	counts := newCounter()
	for _, t := range e.CanonicalTokens(text) {
		if e.lex.IsStopword(t) {
			continue
		}
		counts.add(t, 1)
	}
	for _, rt := range e.roleTokens(text) {
		counts.add(rt, roleTokenBonus)
	}

	ranked := counts.ranked()
	seen := make(map[string]struct{}, len(ranked))
	keywords := make([]string, 0, min(max, len(ranked)))
	for _, w := range ranked {
		if len(keywords) == max {
			break
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		keywords = append(keywords, w)
	}
	return keywords
}

// roleTokens returns the canonical tokens of the first non-empty line, up to
// the first title separator. Unlike a plain whitespace split, surrounding
// punctuation is trimmed, so "Developer," earns the same bonus as "Developer"
// and no comma-suffixed phrase enters the ranking.
func (e *Engine) roleTokens(text string) []string {
	first := firstLine(strings.ToLower(text))
	if i := strings.IndexAny(first, titleSeparators); i >= 0 {
		first = first[:i]
	}

	var tokens []string
	for _, f := range strings.Fields(first) {
		f = strings.Trim(f, `,.;!?()[]{}"'`)
		if utf8.RuneCountInString(f) < minTokenLen || e.lex.IsStopword(f) || e.lex.IsGenericRole(f) {
			continue
		}
		tokens = append(tokens, e.lex.Canonical(f))
	}
	return tokens
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}

// counter is a frequency table that remembers first-insertion order.
type counter struct {
	order  []string
	counts map[string]float64
}

func newCounter() *counter {
	return &counter{counts: make(map[string]float64)}
}

func (c *counter) add(token string, n float64) {
	if token == "" {
		return
	}
	if _, ok := c.counts[token]; !ok {
		c.order = append(c.order, token)
	}
	c.counts[token] += n
}

// ranked returns tokens by descending count, ties in insertion order.
func (c *counter) ranked() []string {
	out := append([]string(nil), c.order...)
	sort.SliceStable(out, func(i, j int) bool {
		return c.counts[out[i]] > c.counts[out[j]]
	})
	return out
}
