package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/core/fleet"
	"github.com/kilianp07/skyops/core/model"
)

var (
	droneFilter      fleet.Filter
	weatherResistant string
)

var dronesCmd = &cobra.Command{
	Use:   "drones",
	Short: "Drone fleet commands",
}

var dronesLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List drones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := droneFilter
		if cmd.Flags().Changed("weather-resistant") {
			v, err := strconv.ParseBool(weatherResistant)
			if err != nil {
				return fmt.Errorf("--weather-resistant: %w", err)
			}
			f.WeatherResistant = &v
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			drones, err := svc.Engine.Drones(ctx, f)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), drones, droneHeader, func() []table.Row { return droneRows(drones) })
		})
	},
}

var dronesMaintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "List drones in or due for maintenance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			drones, err := svc.Engine.DronesNeedingMaintenance(ctx)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), drones, droneHeader, func() []table.Row { return droneRows(drones) })
		})
	},
}

var dronesStatusCmd = &cobra.Command{
	Use:   "status <drone-id> <status>",
	Short: "Update a drone status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			d, err := svc.Engine.UpdateDroneStatus(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), d, droneHeader, func() []table.Row { return droneRows([]model.Drone{d}) })
		})
	},
}

var dronesAssignmentCmd = &cobra.Command{
	Use:   "assignment <drone-id>",
	Short: "Show the mission a drone is deployed on",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			a, err := svc.Engine.DroneAssignment(ctx, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), a)
			}
			if a.Mission == nil {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) has no active assignment\n", a.Drone.Model, a.Drone.ID)
				return err
			}
			render(cmd.OutOrStdout(), table.Row{"Drone", "Model", "Mission", "Client", "Start", "End"}, []table.Row{
				{a.Drone.ID, a.Drone.Model, a.Mission.ID, a.Mission.Client, dateCell(a.Mission.Start), dateCell(a.Mission.End)},
			})
			return nil
		})
	},
}

func init() {
	f := dronesLsCmd.Flags()
	f.StringVar(&droneFilter.Capability, "capability", "", "required capability")
	f.StringVar(&droneFilter.Location, "location", "", "location")
	f.StringVar(&droneFilter.Status, "status", "", "status")
	f.StringVar(&weatherResistant, "weather-resistant", "", "true or false")

	dronesCmd.AddCommand(dronesLsCmd, dronesMaintenanceCmd, dronesStatusCmd, dronesAssignmentCmd)
	rootCmd.AddCommand(dronesCmd)
}
