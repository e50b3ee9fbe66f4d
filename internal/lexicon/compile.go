package lexicon

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Variant selects which phrase list of a soft skill is used.
type Variant int

const (
	// CandidateVariant lists phrases people write about themselves.
	CandidateVariant Variant = iota
	// JobVariant lists phrases employers write in job descriptions.
	JobVariant
)

// Phrase is a literal lexicon phrase together with its compiled matcher.
// Phrase text is escaped before the pattern is built.
type Phrase struct {
	text string
	re   *regexp.Regexp
}

func newPhrase(raw string) (Phrase, error) {
	text := strings.ToLower(raw)
	if strings.TrimSpace(text) == "" {
		return Phrase{}, errors.New("empty phrase")
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(text))
	if err != nil {
		return Phrase{}, fmt.Errorf("compile phrase %q: %w", raw, err)
	}
	return Phrase{text: text, re: re}, nil
}

// Text returns the lowercased phrase.
func (p Phrase) Text() string { return p.text }

// Count returns the number of non-overlapping occurrences of the phrase in s.
func (p Phrase) Count(s string) int {
	if p.re == nil || s == "" {
		return 0
	}
	return len(p.re.FindAllStringIndex(s, -1))
}

// In reports whether the phrase occurs in the lowercased text s.
func (p Phrase) In(s string) bool {
	return p.text != "" && strings.Contains(s, p.text)
}

// Phrases is an ordered phrase list.
type Phrases []Phrase

// Any reports whether any phrase occurs in the lowercased text s.
func (ps Phrases) Any(s string) bool {
	for _, p := range ps {
		if p.In(s) {
			return true
		}
	}
	return false
}

// Count sums the occurrences of every phrase in s.
func (ps Phrases) Count(s string) int {
	total := 0
	for _, p := range ps {
		total += p.Count(s)
	}
	return total
}

type skill struct {
	label     string
	candidate Phrases
	job       Phrases
}

// Lexicon is the compiled, read-only form of a Source. It is safe for
// concurrent use.
type Lexicon struct {
	version     string
	stopwords   map[string]struct{}
	genericRole map[string]struct{}
	canonical   map[string]string
	skills      map[Skill]skill
	cities      map[string]string

	remoteWords Phrases
	remoteRaw   *regexp.Regexp
	relocation  Phrases
	mobility    Phrases
	noTravel    Phrases

	shortTerm *regexp.Regexp
	temporary *regexp.Regexp
	seasonal  *regexp.Regexp
	sporadic  Phrases

	senior Phrases
	junior Phrases
	mid    Phrases
}

// Compile validates src and builds every matcher once.
func Compile(src *Source) (*Lexicon, error) {
	if src == nil {
		return nil, errors.New("lexicon source is required")
	}

	lex := &Lexicon{
		version:     src.Version,
		stopwords:   toSet(src.Stopwords),
		genericRole: toSet(src.GenericRoleWords),
		canonical:   make(map[string]string, len(src.Canonical)),
		skills:      make(map[Skill]skill, len(Skills)),
		cities:      make(map[string]string, len(src.Location.Cities)),
	}

	for k, v := range src.Canonical {
		lex.canonical[strings.ToLower(k)] = strings.ToLower(v)
	}
	for k, v := range src.Location.Cities {
		lex.cities[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}

	defs := make(map[Skill]*SkillSource, len(src.SoftSkills))
	for key, def := range src.SoftSkills {
		folded := foldSkill(key)
		if !known(folded) {
			return nil, fmt.Errorf("unknown soft skill %q", key)
		}
		defs[folded] = def
	}

	var err error
	for _, s := range Skills {
		def, ok := defs[s]
		if !ok || def == nil {
			return nil, fmt.Errorf("soft skill %q is not defined", s)
		}
		compiled := skill{label: def.Label}
		if compiled.label == "" {
			compiled.label = string(s)
		}
		if compiled.candidate, err = compilePhrases(def.Candidate); err != nil {
			return nil, fmt.Errorf("soft skill %q candidate phrases: %w", s, err)
		}
		if compiled.job, err = compilePhrases(def.Job); err != nil {
			return nil, fmt.Errorf("soft skill %q job phrases: %w", s, err)
		}
		lex.skills[s] = compiled
	}

	lists := []struct {
		name string
		src  []string
		dst  *Phrases
	}{
		{"location.remote-words", src.Location.RemoteWords, &lex.remoteWords},
		{"location.relocation", src.Location.Relocation, &lex.relocation},
		{"location.mobility", src.Location.Mobility, &lex.mobility},
		{"location.no-travel", src.Location.NoTravel, &lex.noTravel},
		{"risks.sporadic", src.Risks.Sporadic, &lex.sporadic},
		{"seniority.senior", src.Seniority.Senior, &lex.senior},
		{"seniority.junior", src.Seniority.Junior, &lex.junior},
		{"seniority.mid", src.Seniority.Mid, &lex.mid},
	}
	for _, l := range lists {
		if *l.dst, err = compilePhrases(l.src); err != nil {
			return nil, fmt.Errorf("%s: %w", l.name, err)
		}
	}

	patterns := []struct {
		name string
		src  []string
		dst  **regexp.Regexp
	}{
		{"location.remote-words", src.Location.RemoteWords, &lex.remoteRaw},
		{"stability.short-term", src.Stability.ShortTerm, &lex.shortTerm},
		{"stability.temporary-contracts", src.Stability.TemporaryContracts, &lex.temporary},
		{"risks.seasonal", src.Risks.Seasonal, &lex.seasonal},
	}
	for _, p := range patterns {
		if *p.dst, err = alternation(p.src); err != nil {
			return nil, fmt.Errorf("%s: %w", p.name, err)
		}
	}

	return lex, nil
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the compiled embedded lexicon. It panics if the embedded
// document is broken.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		src, err := DefaultSource()
		if err != nil {
			panic(err)
		}
		lex, err := Compile(src)
		if err != nil {
			panic(err)
		}
		defaultLex = lex
	})
	return defaultLex
}

// Load builds a lexicon from the YAML document at path (the embedded lexicon
// when path is empty) with overrides merged on top.
func Load(path string, overrides *Source) (*Lexicon, error) {
	var (
		src *Source
		err error
	)
	if path == "" {
		src, err = DefaultSource()
	} else {
		src, err = LoadSource(path)
	}
	if err != nil {
		return nil, err
	}
	src.Merge(overrides)
	return Compile(src)
}

// Version returns the lexicon version tag.
func (l *Lexicon) Version() string { return l.version }

// IsStopword reports whether token is a stopword.
func (l *Lexicon) IsStopword(token string) bool {
	_, ok := l.stopwords[token]
	return ok
}

// IsGenericRole reports whether token is a generic job-ad word such as "cerchiamo".
func (l *Lexicon) IsGenericRole(token string) bool {
	_, ok := l.genericRole[token]
	return ok
}

// Canonical maps token through the synonym table; unknown tokens pass through.
func (l *Lexicon) Canonical(token string) string {
	if c, ok := l.canonical[token]; ok {
		return c
	}
	return token
}

// Region returns the region of a lowercased city, or "" when unknown.
func (l *Lexicon) Region(city string) string {
	return l.cities[city]
}

// Label returns the human-readable label of a soft skill.
func (l *Lexicon) Label(s Skill) string {
	if sk, ok := l.skills[s]; ok {
		return sk.label
	}
	return string(s)
}

// SkillPhrases returns the phrase list of a soft skill for the given variant.
func (l *Lexicon) SkillPhrases(s Skill, v Variant) Phrases {
	sk := l.skills[s]
	if v == JobVariant {
		return sk.job
	}
	return sk.candidate
}

func (l *Lexicon) RemoteWords() Phrases { return l.remoteWords }

// RemotePattern matches the remote words case-sensitively against raw text.
func (l *Lexicon) RemotePattern() *regexp.Regexp { return l.remoteRaw }

func (l *Lexicon) Relocation() Phrases { return l.relocation }
func (l *Lexicon) Mobility() Phrases   { return l.mobility }
func (l *Lexicon) NoTravel() Phrases   { return l.noTravel }

func (l *Lexicon) ShortTermPattern() *regexp.Regexp { return l.shortTerm }
func (l *Lexicon) TemporaryPattern() *regexp.Regexp { return l.temporary }
func (l *Lexicon) SeasonalPattern() *regexp.Regexp  { return l.seasonal }
func (l *Lexicon) Sporadic() Phrases                { return l.sporadic }

func (l *Lexicon) SeniorMarkers() Phrases { return l.senior }
func (l *Lexicon) JuniorMarkers() Phrases { return l.junior }
func (l *Lexicon) MidMarkers() Phrases    { return l.mid }

func known(s Skill) bool {
	for _, k := range Skills {
		if k == s {
			return true
		}
	}
	return false
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[strings.ToLower(item)] = struct{}{}
	}
	return set
}

func compilePhrases(raw []string) (Phrases, error) {
	out := make(Phrases, 0, len(raw))
	for _, r := range raw {
		p, err := newPhrase(r)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// alternation builds a single pattern matching any of the escaped words. An
// empty list yields a pattern that never matches.
func alternation(words []string) (*regexp.Regexp, error) {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			continue
		}
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(w)))
	}
	if len(quoted) == 0 {
		return regexp.MustCompile(`[^\s\S]`), nil
	}
	return regexp.Compile(strings.Join(quoted, "|"))
}
