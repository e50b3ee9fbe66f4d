package session

import (
	"testing"

	"github.com/spigell/lynxhire/internal/engine"
)

func testCandidates() *Candidates {
	return &Candidates{Items: []*engine.CandidateRecord{
		{ID: "a", Name: "Anna", FuturePerformanceScore: 70, FitScore: 60},
		{ID: "b", Name: "Bruno", FuturePerformanceScore: 80, FitScore: 50, Tags: []string{TagTopPick}},
		{ID: "c", Name: "Carla", FuturePerformanceScore: 70, FitScore: 75, Tags: []string{TagNoGo, TagToCall}},
		{ID: "d", Name: "Dario", FuturePerformanceScore: 70, FitScore: 60},
	}}
}

func TestCandidatesSortByPerformance(t *testing.T) {
	c := testCandidates()
	c.SortByPerformance()

	want := []string{"b", "c", "a", "d"}
	for i, id := range want {
		if c.Items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, c.Items[i].ID)
		}
	}
}

func TestCandidatesFilter(t *testing.T) {
	c := testCandidates()
	dropped := c.Filter(func(r *engine.CandidateRecord) bool { return r.FitScore >= 60 })

	if len(dropped) != 1 || dropped[0] != "b" {
		t.Fatalf("expected b to be dropped, got %v", dropped)
	}
	if c.Len() != 3 || c.Items[0].ID != "a" || c.Items[2].ID != "d" {
		t.Fatalf("unexpected order after filter: %+v", c.Items)
	}
	if c.FindByID("b") != nil {
		t.Fatalf("expected b to be gone")
	}
	if c.FindByID("c") == nil {
		t.Fatalf("expected c to be kept")
	}
}

func TestCandidatesByTag(t *testing.T) {
	report := testCandidates().ByTag()

	if got := report[""]; len(got) != 2 || got[0] != "Anna" || got[1] != "Dario" {
		t.Fatalf("unexpected untagged group: %v", got)
	}
	if got := report[TagNoGo]; len(got) != 1 || got[0] != "Carla" {
		t.Fatalf("unexpected No-go group: %v", got)
	}
	if got := report[TagToCall]; len(got) != 1 {
		t.Fatalf("unexpected To call group: %v", got)
	}
}
