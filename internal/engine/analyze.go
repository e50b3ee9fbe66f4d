package engine

import (
	"strings"
)

// JobProfile is an analysed job description.
type JobProfile struct {
	Title            string     `json:"title" yaml:"title"`
	Location         string     `json:"location" yaml:"location"`
	Description      string     `json:"description" yaml:"description"`
	Keywords         []string   `json:"keywords" yaml:"keywords"`
	SoftSkillProfile SoftSkills `json:"softSkillProfile" yaml:"softSkillProfile"`
}

// RequestsSoftSkills reports whether the description asks for any soft skill.
func (j *JobProfile) RequestsSoftSkills() bool {
	return j != nil && !j.SoftSkillProfile.Zero()
}

// CandidateRecord is a candidate profile scored against one JobProfile.
// Only Tags and Notes change after creation.
type CandidateRecord struct {
	ID                     string         `json:"id" yaml:"id"`
	Name                   string         `json:"name" yaml:"name"`
	Location               string         `json:"location" yaml:"location"`
	RawText                string         `json:"rawText" yaml:"rawText"`
	SoftSkills             SoftSkills     `json:"softSkills" yaml:"softSkills"`
	FitScore               int            `json:"fitScore" yaml:"fitScore"`
	StabilityScore         int            `json:"stabilityScore" yaml:"stabilityScore"`
	StabilityLabel         StabilityLabel `json:"stabilityLabel" yaml:"stabilityLabel"`
	GeoMatch               int            `json:"geoMatch" yaml:"geoMatch"`
	FuturePerformanceScore int            `json:"futurePerformanceScore" yaml:"futurePerformanceScore"`
	SoftAlignment          SoftAlignment  `json:"softAlignment" yaml:"softAlignment"`
	Seniority              Seniority      `json:"seniority" yaml:"seniority"`
	LinguisticRisks        []string       `json:"linguisticRisks" yaml:"linguisticRisks"`
	Tags                   []string       `json:"tags" yaml:"tags"`
	Notes                  string         `json:"notes" yaml:"notes"`
	// JobRevision identifies the job profile the record was scored against.
	JobRevision int `json:"jobRevision" yaml:"jobRevision"`
}

// AnalyzeJob builds a JobProfile: keywords and soft skills come from the
// description only.
func (e *Engine) AnalyzeJob(title, location, description string) JobProfile {
	return JobProfile{
		Title:            strings.TrimSpace(title),
		Location:         strings.TrimSpace(location),
		Description:      description,
		Keywords:         e.ExtractKeywords(description, e.maxKeywords),
		SoftSkillProfile: e.JobSoftSkills(description),
	}
}

// AnalyzeCandidate scores a candidate text against job. A nil job behaves
// like a job with no keywords, no location and no soft-skill requests.
func (e *Engine) AnalyzeCandidate(job *JobProfile, name, location, text string) CandidateRecord {
	if job == nil {
		job = &JobProfile{}
	}

	soft := e.CandidateSoftSkills(text)
	fit := e.FitScore(text, job.Keywords)
	stability := e.Stability(text)

	return CandidateRecord{
		ID:                     e.newID(),
		Name:                   strings.TrimSpace(name),
		Location:               strings.TrimSpace(location),
		RawText:                text,
		SoftSkills:             soft,
		FitScore:               fit,
		StabilityScore:         stability.Score,
		StabilityLabel:         stability.Label,
		GeoMatch:               e.GeoMatch(job.Location, location, text),
		FuturePerformanceScore: FuturePerformance(fit, soft, stability.Score),
		SoftAlignment:          e.SoftAlignment(job.SoftSkillProfile, soft),
		Seniority:              e.Seniority(text),
		LinguisticRisks:        e.LinguisticRisks(text),
		Tags:                   []string{},
	}
}
