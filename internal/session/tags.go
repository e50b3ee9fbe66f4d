package session

import (
	"fmt"
	"strings"
)

// Recruiter tags a candidate can carry.
const (
	TagTopPick = "Top pick"
	TagReserve = "Reserve"
	TagToCall  = "To call"
	TagNoGo    = "No-go"
)

// Tags lists the allowed tags in display order.
var Tags = []string{TagTopPick, TagReserve, TagToCall, TagNoGo}

// ParseTag resolves a tag case-insensitively, also accepting "top-pick" style
// spellings used on the command line.
func ParseTag(raw string) (string, error) {
	norm := strings.ToLower(strings.TrimSpace(raw))
	norm = strings.ReplaceAll(norm, "_", " ")
	for _, tag := range Tags {
		candidate := strings.ToLower(tag)
		if norm == candidate || norm == strings.ReplaceAll(candidate, " ", "-") {
			return tag, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTag, raw)
}

// toggle adds tag to tags or removes it when already present.
func toggle(tags []string, tag string) []string {
	out := make([]string, 0, len(tags)+1)
	found := false
	for _, t := range tags {
		if t == tag {
			found = true
			continue
		}
		out = append(out, t)
	}
	if !found {
		out = append(out, tag)
	}
	return out
}
