// Package session holds the recruiter's working state: the job profile in
// effect and the candidates scored so far. All access goes through a Session,
// which serializes writes; scoring itself runs outside the lock.
package session

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/logger"
	"github.com/spigell/lynxhire/internal/utils"
)

// UnspecifiedRole replaces an empty job title.
const UnspecifiedRole = "Unspecified role"

const previewLength = 80

var validate = validator.New()

// JobInput is the raw role a recruiter pastes in.
type JobInput struct {
	Title       string `json:"title" yaml:"title" validate:"max=200"`
	Location    string `json:"location" yaml:"location" validate:"max=200"`
	Description string `json:"description" yaml:"description"`
}

// CandidateInput is the raw candidate profile.
type CandidateInput struct {
	Name     string `json:"name" yaml:"name" validate:"required,max=200"`
	Location string `json:"location" yaml:"location" validate:"max=200"`
	Text     string `json:"text" yaml:"text" validate:"required"`
}

// Snapshot is the serializable state of a Session.
type Snapshot struct {
	Job         *engine.JobProfile        `json:"job,omitempty" yaml:"job,omitempty"`
	JobRevision int                       `json:"jobRevision" yaml:"jobRevision"`
	Candidates  []*engine.CandidateRecord `json:"candidates" yaml:"candidates"`
	SavedAt     time.Time                 `json:"savedAt" yaml:"savedAt"`
}

// Session is safe for concurrent use.
type Session struct {
	engine *engine.Engine
	logger *zap.Logger

	mu         sync.RWMutex
	job        *engine.JobProfile
	revision   int
	candidates []*engine.CandidateRecord
}

func New(eng *engine.Engine, log *zap.Logger) *Session {
	if eng == nil {
		eng = engine.New(nil)
	}
	return &Session{
		engine: eng,
		logger: logger.WithFields(log, zap.String(logger.FieldLexicon, eng.Lexicon().Version())),
	}
}

// Engine returns the engine candidates are scored with.
func (s *Session) Engine() *engine.Engine { return s.engine }

// AnalyzeJob replaces the current job profile. Candidates already in the
// session keep their scores and become stale.
func (s *Session) AnalyzeJob(in JobInput) (engine.JobProfile, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Location = strings.TrimSpace(in.Location)
	in.Description = strings.TrimSpace(in.Description)

	if in.Description == "" {
		return engine.JobProfile{}, ErrEmptyDescription
	}
	if err := validateInput(in); err != nil {
		return engine.JobProfile{}, err
	}
	if in.Title == "" {
		in.Title = UnspecifiedRole
	}

	job := s.engine.AnalyzeJob(in.Title, in.Location, in.Description)

	s.mu.Lock()
	s.job = &job
	s.revision++
	revision := s.revision
	stale := len(s.candidates)
	s.mu.Unlock()

	l := logger.WithCommonFields(s.logger, job.Title, "")
	l.Info("job analysed",
		zap.Int("revision", revision),
		zap.Strings("keywords", job.Keywords),
		zap.Bool("soft_skills_requested", job.RequestsSoftSkills()),
	)
	if stale > 0 {
		l.Warn("existing candidates were scored against a previous job", zap.Int("stale_candidates", stale))
	}
	l.Debug("job description", zap.String("preview", utils.TruncateForLog(job.Description, previewLength)))

	return cloneJob(&job), nil
}

// AddCandidate scores a candidate against the current job and appends it.
func (s *Session) AddCandidate(in CandidateInput) (engine.CandidateRecord, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.Text = strings.TrimSpace(in.Text)

	s.mu.RLock()
	job, revision := s.job, s.revision
	s.mu.RUnlock()

	if job == nil {
		return engine.CandidateRecord{}, ErrNoJob
	}
	if err := validateInput(in); err != nil {
		return engine.CandidateRecord{}, err
	}

	record := s.engine.AnalyzeCandidate(job, in.Name, in.Location, in.Text)
	record.JobRevision = revision

	s.mu.Lock()
	s.candidates = append(s.candidates, &record)
	total := len(s.candidates)
	s.mu.Unlock()

	l := logger.WithCommonFields(s.logger, job.Title, record.ID)
	l.Info("candidate analysed",
		zap.Int("fit", record.FitScore),
		zap.Int("fps", record.FuturePerformanceScore),
		zap.Int("geo", record.GeoMatch),
		zap.String("stability", string(record.StabilityLabel)),
		zap.Int("candidates", total),
	)
	l.Debug("candidate profile", zap.String("preview", utils.TruncateForLog(record.RawText, previewLength)))

	return *cloneRecord(&record), nil
}

// Job returns the current job profile.
func (s *Session) Job() (engine.JobProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.job == nil {
		return engine.JobProfile{}, false
	}
	return cloneJob(s.job), true
}

// Revision returns the number of job analyses so far.
func (s *Session) Revision() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Candidates returns a copy of the candidate list in insertion order.
func (s *Session) Candidates() *Candidates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := &Candidates{Items: make([]*engine.CandidateRecord, 0, len(s.candidates))}
	for _, c := range s.candidates {
		out.Items = append(out.Items, cloneRecord(c))
	}
	return out
}

func (s *Session) Find(id string) (engine.CandidateRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.find(id)
	if err != nil {
		return engine.CandidateRecord{}, err
	}
	return *cloneRecord(c), nil
}

// ToggleTag adds the tag to the candidate or removes it when already set.
func (s *Session) ToggleTag(id, tag string) (engine.CandidateRecord, error) {
	resolved, err := ParseTag(tag)
	if err != nil {
		return engine.CandidateRecord{}, err
	}
	return s.update(id, func(c *engine.CandidateRecord) {
		c.Tags = toggle(c.Tags, resolved)
	})
}

// SetTags replaces the candidate tags. Duplicates are dropped.
func (s *Session) SetTags(id string, tags []string) (engine.CandidateRecord, error) {
	resolved := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, raw := range tags {
		tag, err := ParseTag(raw)
		if err != nil {
			return engine.CandidateRecord{}, err
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		resolved = append(resolved, tag)
	}
	return s.update(id, func(c *engine.CandidateRecord) {
		c.Tags = resolved
	})
}

func (s *Session) SetNotes(id, notes string) (engine.CandidateRecord, error) {
	return s.update(id, func(c *engine.CandidateRecord) {
		c.Notes = notes
	})
}

// Stale reports whether c was scored against a job profile that has since
// been replaced. Stale candidates are never rescored.
func (s *Session) Stale(c engine.CandidateRecord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return c.JobRevision != s.revision
}

// Snapshot captures the session state.
func (s *Session) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &Snapshot{
		JobRevision: s.revision,
		Candidates:  make([]*engine.CandidateRecord, 0, len(s.candidates)),
		SavedAt:     time.Now().UTC(),
	}
	if s.job != nil {
		job := cloneJob(s.job)
		snap.Job = &job
	}
	for _, c := range s.candidates {
		snap.Candidates = append(snap.Candidates, cloneRecord(c))
	}
	return snap
}

// Restore replaces the session state with snap. A nil snapshot resets it.
func (s *Session) Restore(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.job, s.revision, s.candidates = nil, 0, nil
	if snap == nil {
		return
	}
	if snap.Job != nil {
		job := cloneJob(snap.Job)
		s.job = &job
	}
	s.revision = snap.JobRevision
	for _, c := range snap.Candidates {
		if c == nil {
			continue
		}
		restored := cloneRecord(c)
		normalizeRecord(restored)
		s.candidates = append(s.candidates, restored)
	}
	s.logger.Info("session restored",
		zap.Int("revision", s.revision),
		zap.Int("candidates", len(s.candidates)),
	)
}

// DumpToTmpFile writes a snapshot of the session to a temporary json or yaml file.
func (s *Session) DumpToTmpFile(format string) (string, error) {
	return dumpToTmpFile("lynxhire_session", format, s.Snapshot())
}

func (s *Session) update(id string, fn func(*engine.CandidateRecord)) (engine.CandidateRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.find(id)
	if err != nil {
		return engine.CandidateRecord{}, err
	}
	fn(c)
	s.logger.Debug("candidate updated",
		zap.String(logger.FieldCandidate, c.ID),
		zap.Strings("tags", c.Tags),
	)
	return *cloneRecord(c), nil
}

func (s *Session) find(id string) (*engine.CandidateRecord, error) {
	for _, c := range s.candidates {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrCandidateNotFound, id)
}

func validateInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), describeTag(fe)))
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(problems, "; "))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "max":
		return "longer than " + fe.Param()
	default:
		return "invalid (" + fe.Tag() + ")"
	}
}

func cloneJob(j *engine.JobProfile) engine.JobProfile {
	out := *j
	out.Keywords = append([]string{}, j.Keywords...)
	out.SoftSkillProfile = make(engine.SoftSkills, len(j.SoftSkillProfile))
	for k, v := range j.SoftSkillProfile {
		out.SoftSkillProfile[k] = v
	}
	return out
}

// normalizeRecord restores the never-nil list guarantees after decoding.
func normalizeRecord(c *engine.CandidateRecord) {
	if c.LinguisticRisks == nil {
		c.LinguisticRisks = []string{}
	}
	if c.SoftAlignment.Matched == nil {
		c.SoftAlignment.Matched = []string{}
	}
	if c.SoftAlignment.Missing == nil {
		c.SoftAlignment.Missing = []string{}
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
}
