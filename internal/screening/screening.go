// Package screening narrows the session candidates down to a shortlist with
// a sequence of filter steps, each of which logs what it dropped.
package screening

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/session"
)

// Filter represents a single screening step applied to candidates.
type Filter interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, c *session.Candidates) (*session.Candidates, Step, error)
}

// Deps aggregates dependencies shared across all screening steps.
type Deps struct {
	Logger *zap.Logger
	// Stale reports whether a candidate was scored against a replaced job.
	Stale func(engine.CandidateRecord) bool
}

// Step describes the result of executing a screening step.
type Step struct {
	Initial int `json:"initial"`
	Dropped int `json:"dropped"`
	Left    int `json:"left"`
}

// Config contains the shortlist settings consumed by the filters.
type Config struct {
	MinimumFitScore int      `mapstructure:"minimum-fit-score" json:"minimumFitScore"`
	MinimumGeoMatch int      `mapstructure:"minimum-geo-match" json:"minimumGeoMatch"`
	ExcludeTags     []string `mapstructure:"exclude-tags" json:"excludeTags"`
	ExcludeRisky    bool     `mapstructure:"exclude-risky" json:"excludeRisky"`
	ExcludeStale    bool     `mapstructure:"exclude-stale" json:"excludeStale"`
}

// Status represents runtime information about a filter.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Reason  string            `json:"reason,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// statusProvider is implemented by filters that can supply detailed status information.
type statusProvider interface {
	Status() Status
}

// Default returns the standard screening pipeline.
func Default() []Filter {
	return []Filter{
		NewExcludeTags(),
		NewMinimumFit(),
		NewMinimumGeo(),
		NewStability(),
		NewStale(),
	}
}

// DisableByName marks a filter with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Filter, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the supplied filters sequentially and returns the remaining candidates.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Filter, c *session.Candidates) (*session.Candidates, error) {
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("filter disabled", zap.String("name", step.Name()))
			}
			continue
		}

		next, info, err := step.Apply(ctx, deps, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		c = next
	}

	return c, nil
}

// Shortlist runs the default pipeline and orders the survivors by future
// performance, fit as the tie-break. c is filtered in place.
func Shortlist(ctx context.Context, cfg *Config, deps Deps, c *session.Candidates) (*session.Candidates, []Status, error) {
	steps := Default()
	out, err := Run(ctx, cfg, deps, steps, c)
	if err != nil {
		return nil, nil, err
	}
	out.SortByPerformance()
	return out, Describe(steps), nil
}

// Describe returns status entries for the provided filters.
func Describe(steps []Filter) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}
