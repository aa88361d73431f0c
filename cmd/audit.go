package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/kilianp07/skyops/app"
	"github.com/kilianp07/skyops/core/audit"
)

var (
	auditKind    string
	auditMission string
	auditEntity  string
	auditStart   string
	auditEnd     string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Show the history of assignments and status changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		kind, err := audit.ParseKind(auditKind)
		if err != nil {
			return fmt.Errorf("--kind: %w", err)
		}
		q := audit.Query{Kind: kind, MissionID: auditMission, EntityID: auditEntity}
		if q.Start, err = parseDateFlag("start", auditStart); err != nil {
			return err
		}
		if q.End, err = parseDateFlag("end", auditEnd); err != nil {
			return err
		}
		if !q.End.IsZero() {
			q.End = q.End.Add(24*time.Hour - time.Nanosecond)
		}
		return withService(cmd, func(ctx context.Context, svc *app.Service) error {
			if svc.Audit == nil {
				return errors.New("audit log disabled: set audit.type to jsonl or sqlite")
			}
			recs, err := svc.Audit.Query(ctx, q)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), recs, table.Row{"Time", "Kind", "Mission", "Pilot", "Drone", "Status", "Detail", "Error"}, func() []table.Row {
				rows := make([]table.Row, 0, len(recs))
				for _, r := range recs {
					rows = append(rows, table.Row{r.Time.Format(time.RFC3339), r.Kind, r.MissionID, r.PilotID, r.DroneID, r.Status, r.Detail, r.Error})
				}
				return rows
			})
		})
	},
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&auditKind, "kind", "", "assignment, status or reassignment")
	f.StringVar(&auditMission, "mission", "", "mission id")
	f.StringVar(&auditEntity, "entity", "", "pilot or drone id")
	f.StringVar(&auditStart, "start", "", "from YYYY-MM-DD")
	f.StringVar(&auditEnd, "end", "", "through YYYY-MM-DD")
	rootCmd.AddCommand(auditCmd)
}
