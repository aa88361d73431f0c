// Package urgent builds emergency pilot and drone hand-off bundles for a
// mission from the matching engine's rankings.
package urgent

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kilianp07/skyops/core/events"
	"github.com/kilianp07/skyops/core/logger"
	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/roster"
)

// MaxOptions caps bundles and replacement lists.
const MaxOptions = 3

// Feasibility bonuses on top of the two match scores.
const (
	PilotLocationBonus = 20
	DroneLocationBonus = 20
	ImmediateBonus     = 15
	AvailableBonus     = 10
	AssignedPenalty    = -5
	BudgetBonus        = 5
)

// Matcher supplies mission lookups and candidate rankings.
type Matcher interface {
	Mission(ctx context.Context, id string) (model.Mission, error)
	MatchPilots(ctx context.Context, missionID string, urgent bool) ([]model.PilotMatch, error)
	MatchDrones(ctx context.Context, missionID string) ([]model.DroneMatch, error)
}

// Result is the outcome of an urgent reassignment request.
type Result struct {
	Mission        model.Mission              `json:"mission"`
	Reason         string                     `json:"reason"`
	Options        []model.ReassignmentOption `json:"options"`
	Recommendation string                     `json:"recommendation"`
}

// Ranker combines pilot and drone rankings into hand-off bundles.
type Ranker struct {
	matcher Matcher
	log     logger.Logger
	bus     events.Publisher
	now     func() time.Time
}

// NewRanker returns a Ranker over m. log and bus may be nil.
func NewRanker(m Matcher, log logger.Logger, bus events.Publisher) *Ranker {
	return &Ranker{matcher: m, log: logger.OrNop(log), bus: events.OrNop(bus), now: time.Now}
}

// SetClock overrides the event timestamp source.
func (r *Ranker) SetClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Reassign ranks up to MaxOptions bundles for the mission and renders a
// recommendation. An empty option list is not an error.
func (r *Ranker) Reassign(ctx context.Context, missionID, reason string) (Result, error) {
	m, err := r.matcher.Mission(ctx, missionID)
	if err != nil {
		return Result{}, err
	}
	pilots, err := r.matcher.MatchPilots(ctx, missionID, true)
	if err != nil {
		return Result{}, err
	}
	drones, err := r.matcher.MatchDrones(ctx, missionID)
	if err != nil {
		return Result{}, err
	}

	opts := Bundles(m, pilots, drones)
	res := Result{Mission: m, Reason: reason, Options: opts, Recommendation: Recommend(missionID, reason, opts)}

	ev := events.ReassignmentEvent{MissionID: missionID, Reason: reason, Options: len(opts), Time: r.now()}
	if len(opts) > 0 {
		ev.BestScore = opts[0].FeasibilityScore
	} else {
		r.log.Warnf("no reassignment options for mission %s (%s)", missionID, reason)
	}
	r.bus.Publish(ev)
	return res, nil
}

// Bundles pairs pilots and drones in ranked order, pilot-major, and stops
// once MaxOptions pairs exist. Later pairs are never scored, even if they
// would rank higher. The kept pairs are then sorted by feasibility.
func Bundles(m model.Mission, pilots []model.PilotMatch, drones []model.DroneMatch) []model.ReassignmentOption {
	opts := make([]model.ReassignmentOption, 0, MaxOptions)
pairs:
	for _, pm := range pilots {
		for _, dm := range drones {
			if len(opts) >= MaxOptions {
				break pairs
			}
			opts = append(opts, bundle(m, pm, dm))
		}
	}
	sort.SliceStable(opts, func(i, j int) bool { return opts[i].FeasibilityScore > opts[j].FeasibilityScore })
	return opts
}

func bundle(m model.Mission, pm model.PilotMatch, dm model.DroneMatch) model.ReassignmentOption {
	p, d := pm.Pilot, dm.Drone
	opt := model.ReassignmentOption{
		Pilot:            &p,
		Drone:            &d,
		Cost:             pm.Cost,
		FeasibilityScore: pm.Score + dm.Score,
		Warnings:         append(append([]string{}, pm.Warnings...), dm.Warnings...),
		Reasons:          []string{},
	}
	if model.SameLocation(p.Location, m.Location) {
		opt.FeasibilityScore += PilotLocationBonus
		opt.Reasons = append(opt.Reasons, "Pilot in same location as mission")
	}
	if model.SameLocation(d.Location, m.Location) {
		opt.FeasibilityScore += DroneLocationBonus
		opt.Reasons = append(opt.Reasons, "Drone in same location as mission")
	}
	if roster.AvailableBy(p, m.Start) {
		opt.FeasibilityScore += ImmediateBonus
		opt.Reasons = append(opt.Reasons, "Pilot immediately available")
	} else {
		opt.Warnings = append(opt.Warnings, "Pilot available from "+model.DateOrUnknown(p.AvailableFrom))
	}
	switch p.Status {
	case model.PilotAvailable:
		opt.FeasibilityScore += AvailableBonus
		opt.Reasons = append(opt.Reasons, "Pilot currently available")
	case model.PilotAssigned:
		opt.FeasibilityScore += AssignedPenalty
		opt.Warnings = append(opt.Warnings, "Pilot currently assigned to another mission")
	}
	if pm.Cost <= m.Budget {
		opt.FeasibilityScore += BudgetBonus
		opt.Reasons = append(opt.Reasons, "Within budget")
	} else {
		opt.Warnings = append(opt.Warnings, fmt.Sprintf("Budget Overrun Warning: Cost %s exceeds budget %s", model.FormatINR(pm.Cost), model.FormatINR(m.Budget)))
	}
	if len(dm.Warnings) == 0 {
		opt.Reasons = append(opt.Reasons, "Drone suitable for weather conditions")
	}
	return opt
}

// Recommend renders the narrative for the best option, or the critical
// notice when there is none.
func Recommend(missionID, reason string, opts []model.ReassignmentOption) string {
	if len(opts) == 0 {
		return fmt.Sprintf("CRITICAL: No suitable reassignment options found for mission %s. Reason: %s. Consider extending mission deadline or adjusting requirements.", missionID, reason)
	}
	best := opts[0]
	var b strings.Builder
	b.WriteString("URGENT REASSIGNMENT RECOMMENDED:\n\n")
	fmt.Fprintf(&b, "Assign %s (%s) and %s (%s)\n", best.Pilot.Name, best.Pilot.ID, best.Drone.Model, best.Drone.ID)
	fmt.Fprintf(&b, "Cost: %s\n", model.FormatINR(best.Cost))
	fmt.Fprintf(&b, "Feasibility Score: %d\n\n", best.FeasibilityScore)
	b.WriteString("Reasons:\n")
	writeBullets(&b, best.Reasons)
	if len(best.Warnings) > 0 {
		b.WriteString("\nWARNINGS:\n")
		writeBullets(&b, best.Warnings)
	}
	b.WriteString("\nAlternative options are also available if needed.")
	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for _, it := range items {
		b.WriteString("  • ")
		b.WriteString(it)
		b.WriteString("\n")
	}
}

// ReplacementPilots reruns the urgent pilot ranking without the excluded
// pilot and returns the best MaxOptions candidates.
func (r *Ranker) ReplacementPilots(ctx context.Context, missionID, excludeID string) ([]model.ReassignmentOption, error) {
	matches, err := r.matcher.MatchPilots(ctx, missionID, true)
	if err != nil {
		return nil, err
	}
	out := make([]model.ReassignmentOption, 0, MaxOptions)
	for _, pm := range matches {
		if len(out) >= MaxOptions {
			break
		}
		if pm.Pilot.ID == excludeID {
			continue
		}
		p := pm.Pilot
		out = append(out, model.ReassignmentOption{
			Pilot:            &p,
			Cost:             pm.Cost,
			FeasibilityScore: pm.Score,
			Warnings:         pm.Warnings,
			Reasons:          replacementReasons(pm.Score, p.Location, string(p.Status)),
		})
	}
	return out, nil
}

// ReplacementDrones reruns the drone ranking without the excluded drone
// and returns the best MaxOptions candidates. Drone cost is not tracked.
func (r *Ranker) ReplacementDrones(ctx context.Context, missionID, excludeID string) ([]model.ReassignmentOption, error) {
	matches, err := r.matcher.MatchDrones(ctx, missionID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ReassignmentOption, 0, MaxOptions)
	for _, dm := range matches {
		if len(out) >= MaxOptions {
			break
		}
		if dm.Drone.ID == excludeID {
			continue
		}
		d := dm.Drone
		out = append(out, model.ReassignmentOption{
			Drone:            &d,
			FeasibilityScore: dm.Score,
			Warnings:         dm.Warnings,
			Reasons:          replacementReasons(dm.Score, d.Location, string(d.Status)),
		})
	}
	return out, nil
}

func replacementReasons(score int, location, status string) []string {
	return []string{
		fmt.Sprintf("Score: %d", score),
		"Location: " + location,
		"Status: " + status,
	}
}
