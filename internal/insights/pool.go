package insights

import (
	"fmt"
	"math"

	"github.com/spigell/lynxhire/internal/engine"
)

// Dashboard summarizes the whole candidate pool.
type Dashboard struct {
	Total          int      `json:"total" yaml:"total"`
	AverageFit     int      `json:"averageFit" yaml:"averageFit"`
	TopFPS         int      `json:"topFps" yaml:"topFps"`
	TopCandidate   string   `json:"topCandidate" yaml:"topCandidate"`
	Strong         int      `json:"strong" yaml:"strong"`
	WeakGeo        int      `json:"weakGeo" yaml:"weakGeo"`
	RiskyStability int      `json:"riskyStability" yaml:"riskyStability"`
	Note           string   `json:"note" yaml:"note"`
	Insights       []string `json:"insights" yaml:"insights"`
}

// Pool computes the dashboard metrics. The top candidate is the first one
// reaching the highest future performance score.
func Pool(cands []*engine.CandidateRecord) Dashboard {
	d := Dashboard{Total: len(cands), Insights: []string{}}
	if d.Total == 0 {
		d.Note = "No candidates yet. Once you add profiles, key insights will appear here."
		return d
	}

	fitSum := 0
	top := cands[0]
	for _, c := range cands {
		fitSum += c.FitScore
		if c.FuturePerformanceScore > top.FuturePerformanceScore {
			top = c
		}
		if c.FitScore >= strongScore && c.FuturePerformanceScore >= strongScore {
			d.Strong++
		}
		if c.GeoMatch < 50 {
			d.WeakGeo++
		}
		if c.StabilityLabel == engine.Risky {
			d.RiskyStability++
		}
	}

	d.AverageFit = int(math.Floor(float64(fitSum)/float64(d.Total) + 0.5))
	d.TopFPS = top.FuturePerformanceScore
	d.TopCandidate = top.Name

	switch ScoreLevel(d.AverageFit) {
	case Good:
		d.Note = "Overall pool is strongly aligned with the role."
	case Mid:
		d.Note = "Mixed pool; shortlist and interview will be important."
	default:
		d.Note = "Low alignment pool; consider re-opening sourcing."
	}

	d.Insights = append(d.Insights, fmt.Sprintf("%d candidate(s) flagged as strong potential hires (high Fit & FPS).", d.Strong))
	if d.WeakGeo > 0 {
		d.Insights = append(d.Insights, fmt.Sprintf("%d candidate(s) show weak geographic alignment or mobility concerns.", d.WeakGeo))
	}
	if d.RiskyStability > 0 {
		d.Insights = append(d.Insights, fmt.Sprintf("%d candidate(s) have a Risky stability profile: validate motivations carefully.", d.RiskyStability))
	}
	return d
}
