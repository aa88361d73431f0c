// Package roster filters and inspects pilot records.
package roster

import (
	"strings"
	"time"

	"github.com/kilianp07/skyops/core/model"
)

// Filter narrows a roster. Empty fields are unconstrained.
type Filter struct {
	Skill         string `json:"skill,omitempty"`
	Certification string `json:"certification,omitempty"`
	Location      string `json:"location,omitempty"`
	Status        string `json:"status,omitempty"`
}

// Matches reports whether p satisfies every set criterion.
func (f Filter) Matches(p model.Pilot) bool {
	if f.Skill != "" && !p.Skills.Match(f.Skill) {
		return false
	}
	if f.Certification != "" && !p.Certifications.Match(f.Certification) {
		return false
	}
	if f.Location != "" && !model.SameLocation(p.Location, f.Location) {
		return false
	}
	if f.Status != "" && !strings.EqualFold(string(p.Status), strings.TrimSpace(f.Status)) {
		return false
	}
	return true
}

// Query returns the pilots matching f, in roster order.
func Query(pilots []model.Pilot, f Filter) []model.Pilot {
	res := make([]model.Pilot, 0, len(pilots))
	for _, p := range pilots {
		if f.Matches(p) {
			res = append(res, p)
		}
	}
	return res
}

// Find returns the first pilot row with the given id.
func Find(pilots []model.Pilot, id string) (model.Pilot, bool) {
	for _, p := range pilots {
		if p.ID == id {
			return p, true
		}
	}
	return model.Pilot{}, false
}

// HasRequiredSkills reports whether every required skill is covered.
func HasRequiredSkills(p model.Pilot, required model.Tags) bool {
	return p.Skills.SatisfiesAll(required)
}

// HasRequiredCertifications reports whether every required certification is held.
func HasRequiredCertifications(p model.Pilot, required model.Tags) bool {
	return p.Certifications.SatisfiesAll(required)
}

// AvailableBy reports whether the pilot can start on the given day.
func AvailableBy(p model.Pilot, start time.Time) bool {
	return model.OnOrBefore(p.AvailableFrom, start)
}

// IsAvailableForDates reports whether the pilot is free and can start on time.
func IsAvailableForDates(p model.Pilot, start time.Time) bool {
	return p.Status == model.PilotAvailable && AvailableBy(p, start)
}
