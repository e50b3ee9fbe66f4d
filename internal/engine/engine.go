// Package engine implements the deterministic text-analytics scoring of a
// candidate profile against a job description: tokenization, keyword
// ranking, soft-skill detection and the fit, geo, stability, seniority,
// risk, future-performance and soft-alignment scorers.
//
// An Engine holds only read-only data and is safe for concurrent use. It never
// returns errors for text input: absent text degrades to neutral defaults.
package engine

import (
	"math"

	"github.com/google/uuid"

	"github.com/spigell/lynxhire/internal/lexicon"
)

// DefaultMaxKeywords caps the keyword ranking of a job description.
const DefaultMaxKeywords = 18

// Engine scores text with a compiled lexicon.
type Engine struct {
	lex         *lexicon.Lexicon
	maxKeywords int
	newID       func() string
}

// Option customizes an Engine.
type Option func(*Engine)

// WithMaxKeywords sets the keyword cap used by AnalyzeJob. Values below 1 are ignored.
func WithMaxKeywords(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxKeywords = n
		}
	}
}

// WithIDGenerator replaces the candidate id generator.
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// New returns an Engine over lex. A nil lexicon selects the embedded default.
func New(lex *lexicon.Lexicon, opts ...Option) *Engine {
	if lex == nil {
		lex = lexicon.Default()
	}
	e := &Engine{
		lex:         lex,
		maxKeywords: DefaultMaxKeywords,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Lexicon returns the lexicon the engine scores with.
func (e *Engine) Lexicon() *lexicon.Lexicon { return e.lex }

// MaxKeywords returns the keyword cap used by AnalyzeJob.
func (e *Engine) MaxKeywords() int { return e.maxKeywords }

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round rounds half up, so 84.5 becomes 85.
func round(v float64) int {
	return int(math.Floor(v + 0.5))
}
