package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/core/model"
)

var (
	urgentReason string
	excludeID    string
)

var urgentCmd = &cobra.Command{
	Use:   "urgent <mission-id>",
	Short: "Rank emergency pilot and drone bundles for a mission",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			res, err := svc.Ranker.Reassign(ctx, args[0], urgentReason)
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if len(res.Options) > 0 {
				render(cmd.OutOrStdout(), optionHeader, optionRows(res.Options))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Recommendation)
			return err
		})
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace",
	Short: "Find replacement pilots or drones for a mission",
}

var replacePilotCmd = &cobra.Command{
	Use:   "pilot <mission-id>",
	Short: "Rank replacement pilots",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			opts, err := svc.Ranker.ReplacementPilots(ctx, args[0], excludeID)
			if err != nil {
				return err
			}
			return printOptions(cmd, opts)
		})
	},
}

var replaceDroneCmd = &cobra.Command{
	Use:   "drone <mission-id>",
	Short: "Rank replacement drones",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			opts, err := svc.Ranker.ReplacementDrones(ctx, args[0], excludeID)
			if err != nil {
				return err
			}
			return printOptions(cmd, opts)
		})
	},
}

func printOptions(cmd *cobra.Command, opts []model.ReassignmentOption) error {
	return output(cmd.OutOrStdout(), opts, optionHeader, func() []table.Row { return optionRows(opts) })
}

func init() {
	urgentCmd.Flags().StringVarP(&urgentReason, "reason", "r", "", "why the mission needs reassignment")
	_ = urgentCmd.MarkFlagRequired("reason")

	replaceCmd.PersistentFlags().StringVarP(&excludeID, "exclude", "x", "", "id to leave out")
	replaceCmd.AddCommand(replacePilotCmd, replaceDroneCmd)
	rootCmd.AddCommand(urgentCmd, replaceCmd)
}
