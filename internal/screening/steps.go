package screening

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/session"
)

const notConfiguredMsg = "not configured"

// toggle carries the enable/disable state shared by every filter.
type toggle struct {
	disabled bool
	reason   string
}

func (t *toggle) Disable(reason string) {
	t.disabled = true
	t.reason = reason
}

func (t *toggle) IsEnabled() bool { return !t.disabled }

func logDropped(deps Deps, msg string, dropped []string, left int, fields ...zap.Field) {
	if deps.Logger == nil || len(dropped) == 0 {
		return
	}
	fields = append(fields,
		zap.Strings("excluded_candidates", dropped),
		zap.Int("candidates_left", left),
	)
	deps.Logger.Info(msg, fields...)
}

type excludeTagsFilter struct {
	toggle
	tags []string
}

// NewExcludeTags creates a filter that removes candidates carrying any of the configured tags.
func NewExcludeTags() Filter {
	return &excludeTagsFilter{}
}

func (f *excludeTagsFilter) Name() string { return "exclude_tags" }

func (f *excludeTagsFilter) Validate(cfg *Config) error {
	f.tags = nil
	if cfg == nil {
		return nil
	}
	for _, raw := range cfg.ExcludeTags {
		tag, err := session.ParseTag(raw)
		if err != nil {
			return err
		}
		f.tags = append(f.tags, tag)
	}
	return nil
}

func (f *excludeTagsFilter) Apply(_ context.Context, deps Deps, c *session.Candidates) (*session.Candidates, Step, error) {
	initial := c.Len()
	if len(f.tags) == 0 {
		return c, Step{Initial: initial, Left: c.Len()}, nil
	}

	dropped := c.Filter(func(r *engine.CandidateRecord) bool {
		for _, tag := range r.Tags {
			for _, excluded := range f.tags {
				if tag == excluded {
					return false
				}
			}
		}
		return true
	})
	logDropped(deps, "excluding candidates by tag", dropped, c.Len(), zap.Strings("excluded_tags", f.tags))

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *excludeTagsFilter) Status() Status {
	details := map[string]string{}
	if len(f.tags) > 0 {
		details["tags"] = strings.Join(f.tags, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// thresholdFilter drops candidates whose score is below a configured minimum.
type thresholdFilter struct {
	toggle
	name    string
	message string
	pick    func(*Config) int
	score   func(*engine.CandidateRecord) int
	minimum int
}

// NewMinimumFit creates a filter that removes candidates below the minimum fit score.
func NewMinimumFit() Filter {
	return &thresholdFilter{
		name:    "minimum_fit",
		message: "excluding candidates below minimum fit score",
		pick:    func(cfg *Config) int { return cfg.MinimumFitScore },
		score:   func(r *engine.CandidateRecord) int { return r.FitScore },
	}
}

// NewMinimumGeo creates a filter that removes candidates below the minimum geo match.
func NewMinimumGeo() Filter {
	return &thresholdFilter{
		name:    "minimum_geo",
		message: "excluding candidates below minimum geo match",
		pick:    func(cfg *Config) int { return cfg.MinimumGeoMatch },
		score:   func(r *engine.CandidateRecord) int { return r.GeoMatch },
	}
}

func (f *thresholdFilter) Name() string { return f.name }

func (f *thresholdFilter) Validate(cfg *Config) error {
	f.minimum = 0
	if cfg == nil {
		return nil
	}
	minimum := f.pick(cfg)
	if minimum < 0 || minimum > 100 {
		return fmt.Errorf("minimum must be within 0-100, got %d", minimum)
	}
	f.minimum = minimum
	return nil
}

func (f *thresholdFilter) Apply(_ context.Context, deps Deps, c *session.Candidates) (*session.Candidates, Step, error) {
	initial := c.Len()
	if f.minimum == 0 {
		return c, Step{Initial: initial, Left: c.Len()}, nil
	}

	dropped := c.Filter(func(r *engine.CandidateRecord) bool {
		return f.score(r) >= f.minimum
	})
	logDropped(deps, f.message, dropped, c.Len(), zap.Int("minimum", f.minimum))

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *thresholdFilter) Status() Status {
	reason := f.reason
	if f.minimum == 0 && reason == "" {
		reason = notConfiguredMsg
	}
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  reason,
		Details: map[string]string{"minimum": strconv.Itoa(f.minimum)},
	}
}

type stabilityFilter struct {
	toggle
	excludeRisky bool
}

// NewStability creates a filter that removes candidates with a Risky stability profile.
func NewStability() Filter {
	return &stabilityFilter{}
}

func (f *stabilityFilter) Name() string { return "stability" }

func (f *stabilityFilter) Validate(cfg *Config) error {
	f.excludeRisky = cfg != nil && cfg.ExcludeRisky
	return nil
}

func (f *stabilityFilter) Apply(_ context.Context, deps Deps, c *session.Candidates) (*session.Candidates, Step, error) {
	initial := c.Len()
	if !f.excludeRisky {
		return c, Step{Initial: initial, Left: c.Len()}, nil
	}

	dropped := c.Filter(func(r *engine.CandidateRecord) bool {
		return r.StabilityLabel != engine.Risky
	})
	logDropped(deps, "excluding candidates with a risky stability profile", dropped, c.Len())

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *stabilityFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"exclude_risky": strconv.FormatBool(f.excludeRisky)},
	}
}

type staleFilter struct {
	toggle
	exclude bool
}

// NewStale creates a filter that removes candidates scored against a replaced job profile.
func NewStale() Filter {
	return &staleFilter{}
}

func (f *staleFilter) Name() string { return "stale" }

func (f *staleFilter) Validate(cfg *Config) error {
	f.exclude = cfg != nil && cfg.ExcludeStale
	return nil
}

func (f *staleFilter) Apply(_ context.Context, deps Deps, c *session.Candidates) (*session.Candidates, Step, error) {
	initial := c.Len()
	if !f.exclude {
		return c, Step{Initial: initial, Left: c.Len()}, nil
	}
	if deps.Stale == nil {
		return c, Step{}, fmt.Errorf("stale check is required when stale candidates are excluded")
	}

	dropped := c.Filter(func(r *engine.CandidateRecord) bool {
		return !deps.Stale(*r)
	})
	logDropped(deps, "excluding candidates scored against a previous job", dropped, c.Len())

	return c, Step{Initial: initial, Dropped: len(dropped), Left: c.Len()}, nil
}

func (f *staleFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"exclude_stale": strconv.FormatBool(f.exclude)},
	}
}
