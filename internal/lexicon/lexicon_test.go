package lexicon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultCompiles(t *testing.T) {
	lex := Default()
	require.NotNil(t, lex)

	assert.Equal(t, "2024.1-it-en", lex.Version())
	assert.True(t, lex.IsStopword("cerchiamo"))
	assert.True(t, lex.IsStopword("on"))
	assert.False(t, lex.IsStopword("frontend"))
	assert.True(t, lex.IsGenericRole("posizione"))
	assert.Equal(t, "developer", lex.Canonical("sviluppatori"))
	assert.Equal(t, "c#", lex.Canonical("csharp"))
	assert.Equal(t, "golang", lex.Canonical("golang"))
	assert.Equal(t, "lombardia", lex.Region("milano"))
	assert.Empty(t, lex.Region("atlantide"))

	for _, s := range Skills {
		assert.NotEmpty(t, lex.SkillPhrases(s, CandidateVariant), s)
		assert.NotEmpty(t, lex.SkillPhrases(s, JobVariant), s)
	}
	assert.Equal(t, "Problem solving", lex.Label(ProblemSolving))
	assert.Equal(t, "Adaptability & resilience", lex.Label(Adaptability))
}

func TestPhraseMatching(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		phrase string
		text   string
		count  int
		in     bool
	}{
		{name: "repeated", phrase: "team", text: "team, team e ancora team", count: 3, in: true},
		{name: "case insensitive count", phrase: "public speaking", text: "Public Speaking", count: 1, in: false},
		{name: "special characters are literal", phrase: "c++ (senior)", text: "c++ (senior) e c+ senior", count: 1, in: true},
		{name: "dot is literal", phrase: "a.b", text: "axb", count: 0, in: false},
		{name: "empty text", phrase: "team", text: "", count: 0, in: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, err := newPhrase(tt.phrase)
			require.NoError(t, err)
			assert.Equal(t, tt.count, p.Count(tt.text))
			assert.Equal(t, tt.in, p.In(tt.text))
		})
	}
}

func TestEmptyPhraseRejected(t *testing.T) {
	_, err := newPhrase("   ")
	assert.Error(t, err)
}

func TestCompileRequiresEverySkill(t *testing.T) {
	src, err := DefaultSource()
	require.NoError(t, err)
	delete(src.SoftSkills, Teamwork)

	_, err = Compile(src)
	assert.ErrorContains(t, err, "teamwork")
}

func TestCompileRejectsUnknownSkill(t *testing.T) {
	src, err := DefaultSource()
	require.NoError(t, err)
	src.SoftSkills["charisma"] = &SkillSource{Candidate: []string{"carisma"}}

	_, err = Compile(src)
	assert.ErrorContains(t, err, "charisma")
}

func TestMergeOverrides(t *testing.T) {
	overrides, err := DecodeOverrides(map[string]any{
		"canonical": map[string]any{"Golang": "go"},
		"soft-skills": map[string]any{
			"problemsolving": map[string]any{
				"job": []any{"troubleshooting"},
			},
		},
		"location": map[string]any{
			"cities": map[string]any{"Trento": "Trentino"},
		},
	})
	require.NoError(t, err)

	lex, err := Load("", overrides)
	require.NoError(t, err)

	assert.Equal(t, "go", lex.Canonical("golang"))
	assert.Equal(t, "developer", lex.Canonical("sviluppatore"))
	assert.Equal(t, "trentino", lex.Region("trento"))
	assert.Equal(t, "lombardia", lex.Region("milano"))

	job := lex.SkillPhrases(ProblemSolving, JobVariant)
	require.Len(t, job, 1)
	assert.Equal(t, "troubleshooting", job[0].Text())
	assert.NotEmpty(t, lex.SkillPhrases(ProblemSolving, CandidateVariant))
}

func TestDecodeOverridesRejectsUnknownKeys(t *testing.T) {
	_, err := DecodeOverrides(map[string]any{"stopword": []any{"x"}})
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lexicon.yaml")

	src, err := DefaultSource()
	require.NoError(t, err)
	src.Version = "custom"
	src.Location.Cities = map[string]string{"zurigo": "svizzera"}

	data, err := yaml.Marshal(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	lex, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", lex.Version())
	assert.Equal(t, "svizzera", lex.Region("zurigo"))
	assert.Empty(t, lex.Region("milano"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.ErrorContains(t, err, "reading lexicon file")
}

func TestEmptyPatternNeverMatches(t *testing.T) {
	re, err := alternation(nil)
	require.NoError(t, err)
	assert.Empty(t, re.FindAllStringIndex("qualsiasi testo", -1))
}

func TestPatternsFromDefault(t *testing.T) {
	lex := Default()

	assert.Len(t, lex.ShortTermPattern().FindAllString("6 mesi, 1 mese", -1), 2)
	assert.Len(t, lex.TemporaryPattern().FindAllString("tempo determinato e stagionale", -1), 2)
	assert.True(t, lex.RemotePattern().MatchString("Full remote"))
	assert.False(t, lex.RemotePattern().MatchString("REMOTO"))
}
