package cmd

import (
	"context"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/core/missions"
	"github.com/kilianp07/skyops/core/model"
)

var (
	missionFilter   missions.Filter
	missionStart    string
	missionEnd      string
	matchDronesFlag bool
	matchUrgent     bool
)

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "Mission commands",
}

var missionsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List missions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := missionFilter
		var err error
		if f.StartDate, err = parseDateFlag("start", missionStart); err != nil {
			return err
		}
		if f.EndDate, err = parseDateFlag("end", missionEnd); err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			ms, err := svc.Engine.Missions(ctx, f)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), ms, missionHeader, func() []table.Row { return missionRows(ms) })
		})
	},
}

var missionsMatchCmd = &cobra.Command{
	Use:   "match <mission-id>",
	Short: "Rank pilots, or drones with --drones, for a mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			if matchDronesFlag {
				ms, err := svc.Engine.MatchDrones(ctx, args[0])
				if err != nil {
					return err
				}
				return output(cmd.OutOrStdout(), ms, table.Row{"ID", "Model", "Location", "Score", "Warnings"}, func() []table.Row {
					return droneMatchRows(ms)
				})
			}
			ms, err := svc.Engine.MatchPilots(ctx, args[0], matchUrgent)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), ms, table.Row{"ID", "Name", "Location", "Score", "Cost", "Warnings"}, func() []table.Row {
				return pilotMatchRows(ms)
			})
		})
	},
}

func pilotMatchRows(ms []model.PilotMatch) []table.Row {
	rows := make([]table.Row, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, table.Row{m.Pilot.ID, m.Pilot.Name, m.Pilot.Location, m.Score, model.FormatINR(m.Cost), warnings(m.Warnings)})
	}
	return rows
}

func droneMatchRows(ms []model.DroneMatch) []table.Row {
	rows := make([]table.Row, 0, len(ms))
	for _, m := range ms {
		rows = append(rows, table.Row{m.Drone.ID, m.Drone.Model, m.Drone.Location, m.Score, warnings(m.Warnings)})
	}
	return rows
}

func init() {
	f := missionsLsCmd.Flags()
	f.StringVar(&missionFilter.Client, "client", "", "client name fragment")
	f.StringVar(&missionFilter.Location, "location", "", "location")
	f.StringVar(&missionFilter.Priority, "priority", "", "priority")
	f.StringVar(&missionStart, "start", "", "missions starting on or after YYYY-MM-DD")
	f.StringVar(&missionEnd, "end", "", "missions ending on or before YYYY-MM-DD")

	missionsMatchCmd.Flags().BoolVar(&matchDronesFlag, "drones", false, "rank drones instead of pilots")
	missionsMatchCmd.Flags().BoolVar(&matchUrgent, "urgent", false, "relax the availability date gate")

	missionsCmd.AddCommand(missionsLsCmd, missionsMatchCmd)
	rootCmd.AddCommand(missionsCmd)
}
