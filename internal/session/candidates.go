package session

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/spigell/lynxhire/internal/engine"
)

// Candidates is an ordered collection of scored candidates.
type Candidates struct {
	Items []*engine.CandidateRecord `json:"items" yaml:"items"`
}

func (c *Candidates) Len() int {
	return len(c.Items)
}

func (c *Candidates) FindByID(id string) *engine.CandidateRecord {
	for _, cand := range c.Items {
		if cand.ID == id {
			return cand
		}
	}
	return nil
}

// Filter keeps only the candidates keep returns true for, preserving order,
// and returns the ids of the dropped ones.
func (c *Candidates) Filter(keep func(*engine.CandidateRecord) bool) []string {
	var dropped []string
	kept := c.Items[:0]
	for _, cand := range c.Items {
		if keep(cand) {
			kept = append(kept, cand)
			continue
		}
		dropped = append(dropped, cand.ID)
	}
	c.Items = kept
	return dropped
}

// SortByPerformance orders candidates by future performance, fit score as the
// tie-break, keeping insertion order for equal pairs.
func (c *Candidates) SortByPerformance() {
	sort.SliceStable(c.Items, func(i, j int) bool {
		a, b := c.Items[i], c.Items[j]
		if a.FuturePerformanceScore != b.FuturePerformanceScore {
			return a.FuturePerformanceScore > b.FuturePerformanceScore
		}
		return a.FitScore > b.FitScore
	})
}

// ByTag groups candidate names by tag. Untagged candidates are listed under "".
func (c *Candidates) ByTag() map[string][]string {
	report := make(map[string][]string)
	for _, cand := range c.Items {
		if len(cand.Tags) == 0 {
			report[""] = append(report[""], cand.Name)
			continue
		}
		for _, tag := range cand.Tags {
			report[tag] = append(report[tag], cand.Name)
		}
	}
	return report
}

// DumpToTmpFile writes the collection to a temporary json or yaml file and
// returns its path.
func (c *Candidates) DumpToTmpFile(format string) (string, error) {
	return dumpToTmpFile("candidates", format, c)
}

func dumpToTmpFile(prefix, format string, v any) (string, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case "", "json":
		format = "json"
		data, err = json.MarshalIndent(v, "", "  ")
	case "yaml", "yml":
		format = "yaml"
		data, err = yaml.Marshal(v)
	default:
		return "", fmt.Errorf("unsupported dump format %q", format)
	}
	if err != nil {
		return "", err
	}

	file, err := os.CreateTemp("", prefix+"_*."+format)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := file.Write(data); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func cloneRecord(c *engine.CandidateRecord) *engine.CandidateRecord {
	out := *c
	out.Tags = append([]string{}, c.Tags...)
	return &out
}
