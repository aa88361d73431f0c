package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/skyops/core/audit"
	"github.com/kilianp07/skyops/core/conflicts"
	"github.com/kilianp07/skyops/core/fleet"
	"github.com/kilianp07/skyops/core/missions"
	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/roster"
)

func queryBool(q url.Values, key string) (*bool, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a boolean", errBadRequest, key)
	}
	return &v, nil
}

func queryDate(q url.Values, key string) (time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	t := model.ParseDate(raw)
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date", errBadRequest, key)
	}
	return t, nil
}

func rosterFilter(q url.Values) roster.Filter {
	return roster.Filter{
		Skill:         q.Get("skill"),
		Certification: q.Get("certification"),
		Location:      q.Get("location"),
		Status:        q.Get("status"),
	}
}

func fleetFilter(q url.Values) (fleet.Filter, error) {
	wr, err := queryBool(q, "weather_resistant")
	if err != nil {
		return fleet.Filter{}, err
	}
	return fleet.Filter{
		Capability:       q.Get("capability"),
		Location:         q.Get("location"),
		Status:           q.Get("status"),
		WeatherResistant: wr,
	}, nil
}

func missionFilter(q url.Values) (missions.Filter, error) {
	f := missions.Filter{
		Client:   q.Get("client"),
		Location: q.Get("location"),
		Priority: q.Get("priority"),
	}
	var err error
	if f.StartDate, err = queryDate(q, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(q, "end_date"); err != nil {
		return f, err
	}
	return f, nil
}

func conflictFilter(q url.Values) (conflicts.Filter, error) {
	f := conflicts.Filter{
		PilotID:   q.Get("pilot_id"),
		DroneID:   q.Get("drone_id"),
		MissionID: q.Get("mission_id"),
	}
	var err error
	if f.StartDate, err = queryDate(q, "start_date"); err != nil {
		return f, err
	}
	if f.EndDate, err = queryDate(q, "end_date"); err != nil {
		return f, err
	}
	return f, nil
}

// queryTime accepts RFC 3339 or a bare date. A bare end date covers the
// whole day.
func queryTime(q url.Values, key string, end bool) (time.Time, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t := model.ParseDate(raw)
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: %s must be RFC 3339 or YYYY-MM-DD", errBadRequest, key)
	}
	if end {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func auditQuery(q url.Values) (audit.Query, error) {
	kind, err := audit.ParseKind(q.Get("kind"))
	if err != nil {
		return audit.Query{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	aq := audit.Query{
		Kind:      kind,
		MissionID: q.Get("mission_id"),
		EntityID:  q.Get("entity_id"),
	}
	if aq.Start, err = queryTime(q, "start", false); err != nil {
		return aq, err
	}
	if aq.End, err = queryTime(q, "end", true); err != nil {
		return aq, err
	}
	return aq, nil
}
