package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/services"
)

func newPruneCmd(global *globalOptions) *cobra.Command {
	var (
		days   int
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete export files older than the retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, global)
			if err != nil {
				return err
			}
			defer a.Close()

			removed, err := a.RetentionService.PruneArtifacts(cmd.Context(), days, dryRun)
			if err != nil {
				return err
			}

			verb := "removed"
			if dryRun {
				verb = "would remove"
			}

			out := cmd.OutOrStdout()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			var total int64
			for _, f := range removed {
				total += f.Size
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", verb, f.Path, f.Size, f.ModTime.UTC().Format(models.DateLayout))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%d files, %d bytes %s\n", len(removed), total, verb)
			return err
		},
	}
	cmd.Flags().IntVar(&days, "days", services.DefaultRetentionDays, "Retention window in days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List files without deleting them")
	return cmd
}
