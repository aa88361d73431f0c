package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/core/model"
)

var assignCmd = &cobra.Command{
	Use:   "assign <pilot-id> <drone-id> <mission-id>",
	Short: "Assign a pilot and a drone to a mission",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			a, err := svc.Engine.CreateAssignment(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), a)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Message)
			return err
		})
	},
}

var assignmentsCmd = &cobra.Command{
	Use:   "assignments",
	Short: "List active assignments",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			as, err := svc.Engine.ActiveAssignments(ctx)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), as, assignmentHeader, func() []table.Row { return assignmentRows(as) })
		})
	},
}

var assignmentHeader = table.Row{"Pilot", "Name", "Mission", "Client", "Start", "End", "Drone"}

func assignmentRows(as []model.ActiveAssignment) []table.Row {
	rows := make([]table.Row, 0, len(as))
	for _, a := range as {
		mission, client, drone := a.Pilot.CurrentAssignment, "-", "-"
		var start, end time.Time
		if a.Mission != nil {
			client, start, end = a.Mission.Client, a.Mission.Start, a.Mission.End
		}
		if a.Drone != nil {
			drone = a.Drone.ID
		}
		rows = append(rows, table.Row{a.Pilot.ID, a.Pilot.Name, mission, client, dateCell(start), dateCell(end), drone})
	}
	return rows
}

func parseDateFlag(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t := model.ParseDate(raw)
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("--%s: %q is not a YYYY-MM-DD date", name, raw)
	}
	return t, nil
}

func init() {
	rootCmd.AddCommand(assignCmd, assignmentsCmd)
}
