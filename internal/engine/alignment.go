package engine

import (
	"github.com/spigell/lynxhire/internal/lexicon"
)

// SkillThreshold is the candidate score at which a wanted skill counts as met.
const SkillThreshold = 60

// SoftAlignment compares the skills a job asks for with a candidate profile.
//
// Wanted is 0 when the job states no soft skills at all; Score is then 0 and
// both lists are empty. Callers must check Applicable before reading Score as
// a poor alignment.
type SoftAlignment struct {
	Score   int      `json:"score" yaml:"score"`
	Matched []string `json:"matched" yaml:"matched"`
	Missing []string `json:"missing" yaml:"missing"`
	Wanted  int      `json:"wanted" yaml:"wanted"`
}

// Applicable reports whether the job requested any soft skill.
func (a SoftAlignment) Applicable() bool {
	return a.Wanted > 0
}

// SoftAlignment returns the share of wanted job skills the candidate meets,
// with the labels of the met and missing ones in taxonomy order.
func (e *Engine) SoftAlignment(job, candidate SoftSkills) SoftAlignment {
	out := SoftAlignment{Matched: []string{}, Missing: []string{}}

	for _, skill := range lexicon.Skills {
		if job[skill] <= 0 {
			continue
		}
		out.Wanted++
		if candidate[skill] >= SkillThreshold {
			out.Matched = append(out.Matched, e.lex.Label(skill))
		} else {
			out.Missing = append(out.Missing, e.lex.Label(skill))
		}
	}

	if out.Wanted > 0 {
		out.Score = round(100 * float64(len(out.Matched)) / float64(out.Wanted))
	}
	return out
}
