package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"spprovision/infrastructure/repositories"
	"spprovision/interfaces/web/presenters"
)

func runsCmd(opts *options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded provisioning runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validateOutput(); err != nil {
				return err
			}
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			db, err := opts.openDatabase()
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := repositories.NewSqliteRunRepository(db).ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			view := presenters.NewRunPresenter().FormatRunList(list)

			if opts.output == "json" {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			if len(view.Runs) == 0 {
				writeLine(cmd.OutOrStdout(), "No runs recorded")
				return nil
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTEMPLATE\tSTATUS\tSTARTED\tDURATION\tLISTS")
			for _, run := range view.Runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\n",
					run.ID, run.Template, run.Status, run.StartedAt, run.Duration, len(run.Lists))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", repositories.DefaultRunListLimit, "maximum number of runs to show")
	return cmd
}
