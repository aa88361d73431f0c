package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/core/model"
	"github.com/kilianp07/skyops/core/roster"
)

var pilotFilter roster.Filter
var costMission string

var pilotsCmd = &cobra.Command{
	Use:   "pilots",
	Short: "Pilot roster commands",
}

var pilotsLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List pilots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			pilots, err := svc.Engine.Pilots(ctx, pilotFilter)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), pilots, pilotHeader, func() []table.Row { return pilotRows(pilots) })
		})
	},
}

var pilotsCostCmd = &cobra.Command{
	Use:   "cost <pilot-id>",
	Short: "Cost of staffing a mission with a pilot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			c, err := svc.Engine.PilotCost(ctx, args[0], costMission)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), c, table.Row{"Pilot", "Mission", "Days", "Daily Rate", "Total", "Budget"}, func() []table.Row {
				return []table.Row{{c.Pilot.ID, c.Mission.ID, c.Duration, model.FormatINR(c.Pilot.DailyRate), model.FormatINR(c.TotalCost), model.FormatINR(c.Mission.Budget)}}
			})
		})
	},
}

var pilotsStatusCmd = &cobra.Command{
	Use:   "status <pilot-id> <status>",
	Short: "Update a pilot status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			p, err := svc.Engine.UpdatePilotStatus(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), p, pilotHeader, func() []table.Row { return pilotRows([]model.Pilot{p}) })
		})
	},
}

var pilotsAssignmentCmd = &cobra.Command{
	Use:   "assignment <pilot-id>",
	Short: "Show the mission a pilot is assigned to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			a, err := svc.Engine.PilotAssignment(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), a)
			}
			if a.Mission == nil {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) has no active assignment\n", a.Pilot.Name, a.Pilot.ID)
				return err
			}
			render(cmd.OutOrStdout(), assignmentHeader, assignmentRows([]model.ActiveAssignment{a}))
			return nil
		})
	},
}

func init() {
	f := pilotsLsCmd.Flags()
	f.StringVar(&pilotFilter.Skill, "skill", "", "required skill")
	f.StringVar(&pilotFilter.Certification, "certification", "", "required certification")
	f.StringVar(&pilotFilter.Location, "location", "", "location")
	f.StringVar(&pilotFilter.Status, "status", "", "status")

	pilotsCostCmd.Flags().StringVarP(&costMission, "mission", "m", "", "mission id")
	_ = pilotsCostCmd.MarkFlagRequired("mission")

	pilotsCmd.AddCommand(pilotsLsCmd, pilotsCostCmd, pilotsStatusCmd, pilotsAssignmentCmd)
	rootCmd.AddCommand(pilotsCmd)
}
