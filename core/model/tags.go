package model

import "strings"

// Tags is a parsed set of skill, certification or capability tags.
// Values are trimmed and empty entries dropped; case and order are kept for
// display while every comparison ignores case.
type Tags []string

// ParseTags converts a comma-separated list such as "Mapping, Survey" into Tags.
func ParseTags(raw string) Tags {
	parts := strings.Split(raw, ",")
	tags := make(Tags, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tags = append(tags, p)
	}
	return tags
}

// Match reports whether any tag and the token contain one another,
// ignoring case.
func (t Tags) Match(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	if token == "" {
		return true
	}
	for _, tag := range t {
		tag = strings.ToLower(tag)
		if strings.Contains(tag, token) || strings.Contains(token, tag) {
			return true
		}
	}
	return false
}

// SatisfiesAll returns true when every required tag is matched by t.
// An empty requirement is always satisfied.
func (t Tags) SatisfiesAll(required Tags) bool {
	for _, req := range required {
		if !t.Match(req) {
			return false
		}
	}
	return true
}

// CountMatches returns how many required tags are matched by t. Each
// required tag counts once regardless of how many tags match it.
func (t Tags) CountMatches(required Tags) int {
	n := 0
	for _, req := range required {
		if t.Match(req) {
			n++
		}
	}
	return n
}

// String renders the tags as a comma-separated list.
func (t Tags) String() string { return strings.Join(t, ", ") }
