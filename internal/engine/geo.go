package engine

import (
	"strings"
)

// Location is a normalized free-text location.
type Location struct {
	City   string `json:"city" yaml:"city"`
	Region string `json:"region" yaml:"region"`
	Remote bool   `json:"remote" yaml:"remote"`
}

const (
	geoBase          = 50
	geoRemoteJob     = 90
	geoRemoteCand    = 80
	geoSameCity      = 96
	geoSameRegion    = 82
	geoOtherCity     = 55
	geoRelocation    = 78
	geoMobility      = 65
	geoNoTravelLimit = 30
)

// NormalizeLocation extracts the city (text before the first "," "|" or "-"),
// its region and the remote flag from a raw location.
func (e *Engine) NormalizeLocation(raw string) Location {
	lower := strings.TrimSpace(strings.ToLower(raw))
	if lower == "" {
		return Location{}
	}

	city := lower
	if i := strings.IndexAny(lower, ",|-"); i >= 0 {
		city = lower[:i]
	}
	city = strings.TrimSpace(city)

	return Location{
		City:   city,
		Region: e.lex.Region(city),
		Remote: e.lex.RemoteWords().Any(lower),
	}
}

// GeoMatch scores geographic compatibility from 0 to 100. The rules form an
// ordered chain of min/max overrides; the no-travel rule runs last and caps
// everything before it.
func (e *Engine) GeoMatch(jobLocation, candidateLocation, candidateText string) int {
	lower := strings.ToLower(candidateText)
	job := e.NormalizeLocation(jobLocation)
	cand := e.NormalizeLocation(candidateLocation)

	base := geoBase
	if job.Remote || e.lex.RemotePattern().MatchString(jobLocation) {
		base = geoRemoteJob
	}
	if cand.Remote {
		base = max(base, geoRemoteCand)
	}

	if job.City != "" && cand.City != "" {
		switch {
		case job.City == cand.City:
			base = geoSameCity
		case job.Region != "" && job.Region == cand.Region:
			base = max(base, geoSameRegion)
		default:
			base = min(base, geoOtherCity)
		}
	}

	if e.lex.Relocation().Any(lower) {
		base = max(base, geoRelocation)
	}
	if e.lex.Mobility().Any(lower) {
		base = max(base, geoMobility)
	}
	if e.lex.NoTravel().Any(lower) {
		base = min(base, geoNoTravelLimit)
	}

	return clampInt(base, 0, 100)
}
