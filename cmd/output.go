package cmd

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kilianp07/skyops/core/model"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func render(w io.Writer, header table.Row, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.Render()
}

// output prints v as JSON with --json, otherwise as the table built by rows.
func output(w io.Writer, v any, header table.Row, rows func() []table.Row) error {
	if jsonOut {
		return printJSON(w, v)
	}
	render(w, header, rows())
	return nil
}

func dateCell(t time.Time) string {
	if s := model.FormatDate(t); s != "" {
		return s
	}
	return "-"
}

func warnings(ws []string) string {
	if len(ws) == 0 {
		return ""
	}
	return strings.Join(ws, "; ")
}

func pilotRows(ps []model.Pilot) []table.Row {
	rows := make([]table.Row, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, table.Row{p.ID, p.Name, p.Skills.String(), p.Certifications.String(), p.Location, p.Status, p.CurrentAssignment, dateCell(p.AvailableFrom), model.FormatINR(p.DailyRate)})
	}
	return rows
}

var pilotHeader = table.Row{"ID", "Name", "Skills", "Certifications", "Location", "Status", "Assignment", "Available From", "Daily Rate"}

func droneRows(ds []model.Drone) []table.Row {
	rows := make([]table.Row, 0, len(ds))
	for _, d := range ds {
		rows = append(rows, table.Row{d.ID, d.Model, d.Capabilities.String(), d.Status, d.Location, d.CurrentAssignment, dateCell(d.MaintenanceDue), d.WeatherResistance})
	}
	return rows
}

var droneHeader = table.Row{"ID", "Model", "Capabilities", "Status", "Location", "Assignment", "Maintenance Due", "Weather"}

func missionRows(ms []model.Mission) []table.Row {
	rows := make([]table.Row, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, table.Row{m.ID, m.Client, m.Location, m.RequiredSkills.String(), m.RequiredCerts.String(), dateCell(m.Start), dateCell(m.End), m.Priority, model.FormatINR(m.Budget), m.Forecast})
	}
	return rows
}

var missionHeader = table.Row{"ID", "Client", "Location", "Skills", "Certs", "Start", "End", "Priority", "Budget", "Forecast"}

func optionRows(opts []model.ReassignmentOption) []table.Row {
	rows := make([]table.Row, 0, len(opts))
	for i, o := range opts {
		pilot, drone := "-", "-"
		if o.Pilot != nil {
			pilot = o.Pilot.ID + " " + o.Pilot.Name
		}
		if o.Drone != nil {
			drone = o.Drone.ID + " " + o.Drone.Model
		}
		rows = append(rows, table.Row{strconv.Itoa(i + 1), pilot, drone, o.FeasibilityScore, model.FormatINR(o.Cost), strings.Join(o.Reasons, "; "), warnings(o.Warnings)})
	}
	return rows
}

var optionHeader = table.Row{"#", "Pilot", "Drone", "Score", "Cost", "Reasons", "Warnings"}
