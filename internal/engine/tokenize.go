package engine

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

const minTokenLen = 3

// Tokenize lowercases text, replaces every character other than a-z, the
// accented vowels àèéìòóù, digits and whitespace with a space and returns the
// whitespace-separated tokens longer than two characters, in order.
func Tokenize(text string) []string {
	if text == "" {
		return []string{}
	}

	// NFC first so a decomposed "e" + combining accent survives as "è".
	lower := strings.ToLower(norm.NFC.String(text))
	cleaned := strings.Map(func(r rune) rune {
		if keepRune(r) {
			return r
		}
		return ' '
	}, lower)

	fields := strings.Fields(cleaned)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

func keepRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case unicode.IsSpace(r):
		return true
	}
	switch r {
	case 'à', 'è', 'é', 'ì', 'ò', 'ó', 'ù':
		return true
	}
	return false
}

// Canonicalize maps a token through the lexicon synonym table.
func (e *Engine) Canonicalize(token string) string {
	return e.lex.Canonical(token)
}

// CanonicalTokens tokenizes text and canonicalizes every token.
func (e *Engine) CanonicalTokens(text string) []string {
	tokens := Tokenize(text)
	for i, t := range tokens {
		tokens[i] = e.lex.Canonical(t)
	}
	return tokens
}
