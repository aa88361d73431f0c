// Package missions filters mission records and provides the date
// arithmetic shared by the engines.
package missions

import (
	"math"
	"strings"
	"time"

	"github.com/kilianp07/skyops/core/model"
)

const day = 24 * time.Hour

// Filter narrows the mission list. StartDate keeps missions starting on or
// after it, EndDate those ending on or before it. Zero values are unconstrained.
type Filter struct {
	Client    string    `json:"client,omitempty"`
	Location  string    `json:"location,omitempty"`
	Priority  string    `json:"priority,omitempty"`
	StartDate time.Time `json:"start_date,omitempty"`
	EndDate   time.Time `json:"end_date,omitempty"`
}

// Matches reports whether m satisfies every set criterion.
func (f Filter) Matches(m model.Mission) bool {
	if f.Client != "" && !strings.Contains(strings.ToLower(m.Client), strings.ToLower(strings.TrimSpace(f.Client))) {
		return false
	}
	if f.Location != "" && !model.SameLocation(m.Location, f.Location) {
		return false
	}
	if f.Priority != "" && !strings.EqualFold(string(m.Priority), strings.TrimSpace(f.Priority)) {
		return false
	}
	if !f.StartDate.IsZero() && !model.OnOrBefore(f.StartDate, m.Start) {
		return false
	}
	if !f.EndDate.IsZero() && !model.OnOrBefore(m.End, f.EndDate) {
		return false
	}
	return true
}

// Query returns the missions matching f, in store order.
func Query(missions []model.Mission, f Filter) []model.Mission {
	res := make([]model.Mission, 0, len(missions))
	for _, m := range missions {
		if f.Matches(m) {
			res = append(res, m)
		}
	}
	return res
}

// Find returns the mission with the given id.
func Find(missions []model.Mission, id string) (model.Mission, bool) {
	for _, m := range missions {
		if m.ID == id {
			return m, true
		}
	}
	return model.Mission{}, false
}

// Duration returns the number of calendar days the mission spans, both
// boundary days included. Missions with an unknown date last 0 days.
func Duration(m model.Mission) int {
	if m.Start.IsZero() || m.End.IsZero() {
		return 0
	}
	return int(math.Ceil(float64(m.End.Sub(m.Start))/float64(day))) + 1
}

// Overlaps reports whether [s1,e1] and [s2,e2] share at least one day.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return model.OnOrBefore(s1, e2) && model.OnOrBefore(s2, e1)
}

// MissionsOverlap reports whether two missions share at least one day.
func MissionsOverlap(a, b model.Mission) bool {
	return Overlaps(a.Start, a.End, b.Start, b.End)
}

// InDateRange returns the missions overlapping [start,end].
func InDateRange(missions []model.Mission, start, end time.Time) []model.Mission {
	res := make([]model.Mission, 0)
	for _, m := range missions {
		if Overlaps(m.Start, m.End, start, end) {
			res = append(res, m)
		}
	}
	return res
}

// ByPriority returns the missions with the given priority.
func ByPriority(missions []model.Mission, p model.Priority) []model.Mission {
	return Query(missions, Filter{Priority: string(p)})
}

// Urgent returns the missions flagged Urgent.
func Urgent(missions []model.Mission) []model.Mission {
	return ByPriority(missions, model.PriorityUrgent)
}
