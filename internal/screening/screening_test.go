package screening

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/lynxhire/internal/engine"
	"github.com/spigell/lynxhire/internal/session"
)

func pool() *session.Candidates {
	return &session.Candidates{Items: []*engine.CandidateRecord{
		{ID: "a", FitScore: 80, GeoMatch: 96, FuturePerformanceScore: 70, StabilityLabel: engine.Stable, JobRevision: 2},
		{ID: "b", FitScore: 40, GeoMatch: 90, FuturePerformanceScore: 50, StabilityLabel: engine.Stable, JobRevision: 2},
		{ID: "c", FitScore: 90, GeoMatch: 30, FuturePerformanceScore: 85, StabilityLabel: engine.Mixed, JobRevision: 2},
		{ID: "d", FitScore: 75, GeoMatch: 82, FuturePerformanceScore: 88, StabilityLabel: engine.Risky, JobRevision: 2},
		{ID: "e", FitScore: 95, GeoMatch: 96, FuturePerformanceScore: 90, StabilityLabel: engine.Stable, Tags: []string{session.TagNoGo}, JobRevision: 2},
		{ID: "f", FitScore: 85, GeoMatch: 96, FuturePerformanceScore: 70, StabilityLabel: engine.Stable, JobRevision: 1},
	}}
}

func ids(c *session.Candidates) []string {
	out := make([]string, 0, c.Len())
	for _, r := range c.Items {
		out = append(out, r.ID)
	}
	return out
}

func staleBefore(rev int) func(engine.CandidateRecord) bool {
	return func(r engine.CandidateRecord) bool { return r.JobRevision != rev }
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestShortlistAppliesEveryFilter(t *testing.T) {
	t.Parallel()

	cfg := &Config{
		MinimumFitScore: 55,
		MinimumGeoMatch: 50,
		ExcludeTags:     []string{"no-go"},
		ExcludeRisky:    true,
		ExcludeStale:    true,
	}

	out, statuses, err := Shortlist(context.Background(), cfg, Deps{Stale: staleBefore(2)}, pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(out); !equal(got, []string{"a"}) {
		t.Fatalf("expected only a to survive, got %v", got)
	}
	if len(statuses) != 5 {
		t.Fatalf("expected 5 statuses, got %d", len(statuses))
	}
}

func TestShortlistSortsByPerformanceThenFit(t *testing.T) {
	t.Parallel()

	out, _, err := Shortlist(context.Background(), &Config{}, Deps{}, pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"e", "d", "c", "f", "a", "b"}
	if got := ids(out); !equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRunLogsSteps(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	deps := Deps{Logger: zap.New(core)}

	steps := []Filter{NewMinimumFit(), NewStability()}
	DisableByName(steps, "stability", "manual")

	out, err := Run(context.Background(), &Config{MinimumFitScore: 55, ExcludeRisky: true}, deps, steps, pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 5 {
		t.Fatalf("expected 5 candidates left, got %d", out.Len())
	}

	excluded := logs.FilterMessage("excluding candidates below minimum fit score").All()
	if len(excluded) != 1 {
		t.Fatalf("expected one exclusion log, got %d", len(excluded))
	}
	if left := excluded[0].ContextMap()["candidates_left"]; left != int64(5) {
		t.Fatalf("expected candidates_left 5, got %v", left)
	}

	step := logs.FilterMessage("filter step").All()
	if len(step) != 1 || step[0].ContextMap()["dropped"] != int64(1) {
		t.Fatalf("unexpected step logs: %+v", step)
	}
	if logs.FilterMessage("filter disabled").Len() != 1 {
		t.Fatalf("expected disabled filter to be logged")
	}

	status := Describe(steps)
	if status[1].Enabled || status[1].Reason != "manual" {
		t.Fatalf("unexpected status for disabled filter: %+v", status[1])
	}
}

func TestUnconfiguredFiltersKeepEveryone(t *testing.T) {
	t.Parallel()

	out, err := Run(context.Background(), nil, Deps{}, Default(), pool())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 6 {
		t.Fatalf("expected all candidates kept, got %d", out.Len())
	}

	status := Describe(Default())
	if status[1].Reason != notConfiguredMsg {
		t.Fatalf("expected %q reason, got %q", notConfiguredMsg, status[1].Reason)
	}
}

func TestValidateErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "unknown tag", cfg: &Config{ExcludeTags: []string{"maybe"}}},
		{name: "fit above range", cfg: &Config{MinimumFitScore: 101}},
		{name: "negative geo", cfg: &Config{MinimumGeoMatch: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Run(context.Background(), tt.cfg, Deps{}, Default(), pool()); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

func TestUnknownTagWrapsSentinel(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), &Config{ExcludeTags: []string{"maybe"}}, Deps{}, Default(), pool())
	if !errors.Is(err, session.ErrUnknownTag) {
		t.Fatalf("expected ErrUnknownTag, got %v", err)
	}
}

func TestStaleFilterNeedsCheck(t *testing.T) {
	t.Parallel()

	_, err := Run(context.Background(), &Config{ExcludeStale: true}, Deps{}, Default(), pool())
	if err == nil {
		t.Fatalf("expected error without stale check")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Run(ctx, &Config{}, Deps{}, Default(), pool()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
