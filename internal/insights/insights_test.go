package insights

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/lexicon"
)

func strongCandidate() *engine.CandidateRecord {
	return &engine.CandidateRecord{
		Name:                   "Giulia",
		Location:               "Milano",
		FitScore:               85,
		FuturePerformanceScore: 88,
		GeoMatch:               96,
		StabilityScore:         100,
		StabilityLabel:         engine.Stable,
		SoftSkills:             engine.SoftSkills{lexicon.Communication: 84},
		SoftAlignment:          engine.SoftAlignment{Score: 100, Matched: []string{"Communication"}, Missing: []string{}, Wanted: 1},
		LinguisticRisks:        []string{},
	}
}

func weakCandidate() *engine.CandidateRecord {
	return &engine.CandidateRecord{
		Name:                   "Marco",
		FitScore:               20,
		FuturePerformanceScore: 35,
		GeoMatch:               30,
		StabilityScore:         50,
		StabilityLabel:         engine.Risky,
		SoftSkills:             engine.SoftSkills{lexicon.Communication: 14},
		SoftAlignment:          engine.SoftAlignment{Score: 0, Matched: []string{}, Missing: []string{"Communication", "Teamwork"}, Wanted: 2},
		LinguisticRisks:        []string{engine.RiskShortText},
	}
}

func TestScoreLevel(t *testing.T) {
	assert.Equal(t, Good, ScoreLevel(75))
	assert.Equal(t, Mid, ScoreLevel(74))
	assert.Equal(t, Mid, ScoreLevel(55))
	assert.Equal(t, Low, ScoreLevel(54))
}

func TestStrengths(t *testing.T) {
	assert.Len(t, Strengths(strongCandidate()), 5)
	assert.Equal(t, []string{NoStrengths}, Strengths(weakCandidate()))
}

func TestRisks(t *testing.T) {
	assert.Equal(t, []string{NoRisks}, Risks(strongCandidate()))

	risks := Risks(weakCandidate())
	assert.Len(t, risks, 4)
	assert.Contains(t, risks[1], "Soft-skill profile only partially aligned")
}

func TestRisksSkipSoftAlignmentWhenNotRequested(t *testing.T) {
	c := weakCandidate()
	c.SoftAlignment = engine.SoftAlignment{Matched: []string{}, Missing: []string{}}

	for _, r := range Risks(c) {
		assert.NotContains(t, r, "Soft-skill")
	}
}

func TestQuestions(t *testing.T) {
	assert.Len(t, Questions(strongCandidate()), 2)

	q := Questions(weakCandidate())
	require.Len(t, q, 4)
	assert.Contains(t, q[2], "In this role we value Communication, Teamwork.")
}

func TestSummary(t *testing.T) {
	assert.Equal(t,
		"Based in Milano. Overall fit 85/100, projected performance 88/100, geo-match 96/100. "+
			"Soft-skill alignment 100/100. Stability profile: Stable (100/100).",
		Summary(strongCandidate()))

	c := weakCandidate()
	c.SoftAlignment.Wanted = 0
	s := Summary(c)
	assert.True(t, strings.HasPrefix(s, "Overall fit 20/100"))
	assert.Contains(t, s, "not applicable")
}

func TestOutlook(t *testing.T) {
	phases := Outlook(strongCandidate(), "")
	require.Len(t, phases, 3)
	assert.Len(t, phases[1].Notes, 1)
	assert.Contains(t, phases[2].Notes[0], "key reference")

	phases = Outlook(weakCandidate(), " customer care ")
	require.Len(t, phases, 4)
	assert.Len(t, phases[1].Notes, 2)
	assert.Contains(t, phases[2].Notes[0], "question marks")
	assert.Equal(t, "Focus note (customer care):", phases[3].Title)

	mid := weakCandidate()
	mid.FuturePerformanceScore = 60
	assert.Contains(t, Outlook(mid, "")[2].Notes[0], "on track")
}

func TestPool(t *testing.T) {
	empty := Pool(nil)
	assert.Equal(t, 0, empty.Total)
	assert.NotNil(t, empty.Insights)

	second := strongCandidate()
	second.Name = "Sara"

	d := Pool([]*engine.CandidateRecord{weakCandidate(), strongCandidate(), second})
	assert.Equal(t, 3, d.Total)
	assert.Equal(t, 63, d.AverageFit)
	assert.Equal(t, 88, d.TopFPS)
	assert.Equal(t, "Giulia", d.TopCandidate)
	assert.Equal(t, 2, d.Strong)
	assert.Equal(t, 1, d.WeakGeo)
	assert.Equal(t, 1, d.RiskyStability)
	assert.Equal(t, "Mixed pool; shortlist and interview will be important.", d.Note)
	assert.Len(t, d.Insights, 3)
}

func TestFor(t *testing.T) {
	r := For(weakCandidate())
	assert.Equal(t, Low, r.FitLevel)
	assert.Equal(t, []string{engine.RiskShortText}, r.LinguisticRisks)
	assert.NotEmpty(t, r.Summary)
}

func TestRender(t *testing.T) {
	job := engine.JobProfile{Title: "Frontend developer", Location: "Milano"}
	c := weakCandidate()
	c.Tags = []string{"To call"}
	c.Notes = "Call back on Monday."

	var text strings.Builder
	require.NoError(t, Render(&text, nil, job, c, RenderOptions{Stale: true, Focus: "react"}))
	out := text.String()
	assert.True(t, strings.HasPrefix(out, "Candidate: Marco\nRole: Frontend developer - Milano\nWARNING:"))
	assert.Contains(t, out, "Tags:               To call")
	assert.Contains(t, out, "Soft alignment:     0/100")
	assert.Contains(t, out, "  - "+engine.RiskShortText)
	assert.Contains(t, out, "Focus note (react):")
	assert.Contains(t, out, "Call back on Monday.")

	var md strings.Builder
	require.NoError(t, Render(&md, nil, job, strongCandidate(), RenderOptions{Format: FormatMarkdown}))
	out = md.String()
	assert.True(t, strings.HasPrefix(out, "# Giulia\n"))
	assert.Contains(t, out, "| Fit | 85 (good) |")
	assert.NotContains(t, out, "previous version")
	assert.NotContains(t, out, "Recruiter notes")

	assert.Error(t, Render(&md, nil, job, c, RenderOptions{Format: "pdf"}))
}
