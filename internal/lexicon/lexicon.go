// Package lexicon holds the static word lists the scoring engine runs on:
// stopwords, the canonicalization table, soft-skill phrase lists, the
// city to region table and the location/stability/risk phrase lists.
//
// Lists are plain data (an embedded YAML document by default). Compile turns a
// Source into an immutable Lexicon with every phrase matcher built once.
package lexicon

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSource []byte

// Skill is one of the seven soft-skill dimensions.
type Skill string

const (
	Communication  Skill = "communication"
	Leadership     Skill = "leadership"
	ProblemSolving Skill = "problemSolving"
	Detail         Skill = "detail"
	Teamwork       Skill = "teamwork"
	Adaptability   Skill = "adaptability"
	Independence   Skill = "independence"
)

// Skills lists the taxonomy in its canonical order.
var Skills = []Skill{
	Communication,
	Leadership,
	ProblemSolving,
	Detail,
	Teamwork,
	Adaptability,
	Independence,
}

// Source is the raw, serializable form of a lexicon.
type Source struct {
	Version          string                 `yaml:"version" mapstructure:"version"`
	Stopwords        []string               `yaml:"stopwords" mapstructure:"stopwords"`
	GenericRoleWords []string               `yaml:"generic-role-words" mapstructure:"generic-role-words"`
	Canonical        map[string]string      `yaml:"canonical" mapstructure:"canonical"`
	SoftSkills       map[Skill]*SkillSource `yaml:"soft-skills" mapstructure:"soft-skills"`
	Location         LocationSource         `yaml:"location" mapstructure:"location"`
	Stability        StabilitySource        `yaml:"stability" mapstructure:"stability"`
	Risks            RisksSource            `yaml:"risks" mapstructure:"risks"`
	Seniority        SenioritySource        `yaml:"seniority" mapstructure:"seniority"`
}

// SkillSource holds the phrase lists of a single soft skill.
type SkillSource struct {
	Label     string   `yaml:"label" mapstructure:"label"`
	Candidate []string `yaml:"candidate" mapstructure:"candidate"`
	Job       []string `yaml:"job" mapstructure:"job"`
}

type LocationSource struct {
	RemoteWords []string          `yaml:"remote-words" mapstructure:"remote-words"`
	Relocation  []string          `yaml:"relocation" mapstructure:"relocation"`
	Mobility    []string          `yaml:"mobility" mapstructure:"mobility"`
	NoTravel    []string          `yaml:"no-travel" mapstructure:"no-travel"`
	Cities      map[string]string `yaml:"cities" mapstructure:"cities"`
}

type StabilitySource struct {
	ShortTerm          []string `yaml:"short-term" mapstructure:"short-term"`
	TemporaryContracts []string `yaml:"temporary-contracts" mapstructure:"temporary-contracts"`
}

type RisksSource struct {
	Seasonal []string `yaml:"seasonal" mapstructure:"seasonal"`
	Sporadic []string `yaml:"sporadic" mapstructure:"sporadic"`
}

type SenioritySource struct {
	Senior []string `yaml:"senior" mapstructure:"senior"`
	Junior []string `yaml:"junior" mapstructure:"junior"`
	Mid    []string `yaml:"mid" mapstructure:"mid"`
}

// DefaultSource returns a fresh copy of the embedded lexicon source.
func DefaultSource() (*Source, error) {
	return Parse(defaultSource)
}

// Parse decodes a YAML lexicon document.
func Parse(data []byte) (*Source, error) {
	var src Source
	if err := yaml.Unmarshal(data, &src); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	return &src, nil
}

// LoadSource reads a YAML lexicon document from path.
func LoadSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lexicon file %q: %w", path, err)
	}
	return Parse(data)
}

// DecodeOverrides decodes a loosely typed tree (for example a viper sub-tree)
// into a Source that can be merged over another one.
func DecodeOverrides(raw map[string]any) (*Source, error) {
	var src Source
	if len(raw) == 0 {
		return &src, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &src,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode lexicon overrides: %w", err)
	}
	return &src, nil
}

// Merge replaces every list or table of s that is set in o. Map tables are
// merged key by key; lists are replaced wholesale.
func (s *Source) Merge(o *Source) {
	if o == nil {
		return
	}
	if o.Version != "" {
		s.Version = o.Version
	}
	replace(&s.Stopwords, o.Stopwords)
	replace(&s.GenericRoleWords, o.GenericRoleWords)
	s.Canonical = mergeMap(s.Canonical, o.Canonical)

	for key, override := range o.SoftSkills {
		if override == nil {
			continue
		}
		// viper lowercases keys, so "problemsolving" must still land on ProblemSolving.
		skill := foldSkill(key)
		if s.SoftSkills == nil {
			s.SoftSkills = make(map[Skill]*SkillSource)
		}
		current, ok := s.SoftSkills[skill]
		if !ok || current == nil {
			current = &SkillSource{}
			s.SoftSkills[skill] = current
		}
		if override.Label != "" {
			current.Label = override.Label
		}
		replace(&current.Candidate, override.Candidate)
		replace(&current.Job, override.Job)
	}

	replace(&s.Location.RemoteWords, o.Location.RemoteWords)
	replace(&s.Location.Relocation, o.Location.Relocation)
	replace(&s.Location.Mobility, o.Location.Mobility)
	replace(&s.Location.NoTravel, o.Location.NoTravel)
	s.Location.Cities = mergeMap(s.Location.Cities, o.Location.Cities)

	replace(&s.Stability.ShortTerm, o.Stability.ShortTerm)
	replace(&s.Stability.TemporaryContracts, o.Stability.TemporaryContracts)
	replace(&s.Risks.Seasonal, o.Risks.Seasonal)
	replace(&s.Risks.Sporadic, o.Risks.Sporadic)
	replace(&s.Seniority.Senior, o.Seniority.Senior)
	replace(&s.Seniority.Junior, o.Seniority.Junior)
	replace(&s.Seniority.Mid, o.Seniority.Mid)
}

func foldSkill(key Skill) Skill {
	for _, skill := range Skills {
		if strings.EqualFold(string(skill), string(key)) {
			return skill
		}
	}
	return key
}

func replace(dst *[]string, src []string) {
	if len(src) > 0 {
		*dst = append([]string(nil), src...)
	}
}

func mergeMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	return dst
}
