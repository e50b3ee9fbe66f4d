package engine

import (
	"strings"

	"github.com/spigell/lynxhire/internal/lexicon"
)

// SoftSkills maps every skill of the taxonomy to a 0-100 score.
type SoftSkills map[lexicon.Skill]int

// Average returns the mean score, or 50 for an empty profile.
func (s SoftSkills) Average() float64 {
	if len(s) == 0 {
		return 50
	}
	total := 0
	for _, v := range s {
		total += v
	}
	return float64(total) / float64(len(s))
}

// Zero reports whether no skill scored above 0.
func (s SoftSkills) Zero() bool {
	for _, v := range s {
		if v > 0 {
			return false
		}
	}
	return true
}

// skillScorer is one parameterization of the phrase scoring shared by the
// candidate and job variants.
type skillScorer struct {
	variant lexicon.Variant
	// perMatch scores every occurrence of every phrase; when zero the
	// presence score is awarded once any phrase is found.
	perMatch int
	presence int
	// fallback replaces an all-zero profile when positive.
	fallback int
}

var (
	candidateScorer = skillScorer{variant: lexicon.CandidateVariant, perMatch: 14, fallback: 40}
	jobScorer       = skillScorer{variant: lexicon.JobVariant, presence: 85}
)

func (sc skillScorer) score(lex *lexicon.Lexicon, text string) SoftSkills {
	lower := strings.ToLower(text)
	out := make(SoftSkills, len(lexicon.Skills))

	for _, skill := range lexicon.Skills {
		phrases := lex.SkillPhrases(skill, sc.variant)
		if sc.perMatch > 0 {
			out[skill] = clampInt(phrases.Count(lower)*sc.perMatch, 0, 100)
			continue
		}
		if phrases.Any(lower) {
			out[skill] = sc.presence
		} else {
			out[skill] = 0
		}
	}

	if sc.fallback > 0 && out.Zero() {
		for _, skill := range lexicon.Skills {
			out[skill] = sc.fallback
		}
	}
	return out
}

// CandidateSoftSkills counts every phrase occurrence (14 points each, capped
// at 100 per skill). A text matching nothing gets the neutral 40 on every skill.
func (e *Engine) CandidateSoftSkills(text string) SoftSkills {
	return candidateScorer.score(e.lex, text)
}

// JobSoftSkills scores 85 for every skill the description mentions, 0 otherwise.
// An all-zero profile means no soft skill was requested.
func (e *Engine) JobSoftSkills(text string) SoftSkills {
	return jobScorer.score(e.lex, text)
}
