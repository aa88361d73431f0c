package cmd

import (
	"context"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/core/conflicts"
)

var (
	conflictFilter conflicts.Filter
	conflictStart  string
	conflictEnd    string
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts",
	Short: "Audit assignments for conflicts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		f := conflictFilter
		var err error
		if f.StartDate, err = parseDateFlag("start", conflictStart); err != nil {
			return err
		}
		if f.EndDate, err = parseDateFlag("end", conflictEnd); err != nil {
			return err
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			cs, err := svc.Detector.Detect(ctx, f)
			if err != nil {
				return err
			}
			if !jsonOut && len(cs) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "No conflicts found")
				return err
			}
			return output(cmd.OutOrStdout(), cs, table.Row{"Type", "Severity", "Entity", "Mission", "Message"}, func() []table.Row {
				rows := make([]table.Row, 0, len(cs))
				for _, c := range cs {
					rows = append(rows, table.Row{c.Kind, c.Severity, c.EntityID, c.MissionID, c.Message})
				}
				return rows
			})
		})
	},
}

func init() {
	f := conflictsCmd.Flags()
	f.StringVar(&conflictFilter.PilotID, "pilot", "", "pilot id")
	f.StringVar(&conflictFilter.DroneID, "drone", "", "drone id")
	f.StringVar(&conflictFilter.MissionID, "mission", "", "mission id")
	f.StringVar(&conflictStart, "start", "", "window start YYYY-MM-DD")
	f.StringVar(&conflictEnd, "end", "", "window end YYYY-MM-DD")
	rootCmd.AddCommand(conflictsCmd)
}
