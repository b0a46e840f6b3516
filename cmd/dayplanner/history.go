package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/dayplanner/internal/persistence"
	"github.com/aristath/dayplanner/internal/scheduler"
)

func newHistoryCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded runs, or the timeline of one",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.Bench.DBPath
			if cmd.Flags().Changed("db") {
				path = dbPath
			}
			if path == "" {
				return fmt.Errorf("no database: pass --db or set bench.db_path")
			}

			store, err := persistence.NewSQLiteStore(cmd.Context(), path)
			if err != nil {
				return err
			}
			defer store.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer tw.Flush()

			if len(args) == 1 {
				entries, err := store.GetPlanTrace(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "TASK\tSTART\tEND\tPRIORITY\tREASON\tDESCRIPTION")
				for _, e := range entries {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%g\t%s\t%s\n", e.TaskID,
						scheduler.FormatClock(e.Start), scheduler.FormatClock(e.End), e.Priority, e.Reason, e.Description)
				}
				return nil
			}

			runs, err := store.ListPlanRuns(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tSCHEDULER\tSTART\tEND\tEXECUTED\tABANDONED\tTASKS\tCREATED")
			for _, r := range runs {
				tasks := r.TasksFile
				if tasks == "" {
					tasks = "(sample)"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%v\t%s\t%s\n", r.ID, r.Scheduler,
					scheduler.FormatClock(r.StartClock), scheduler.FormatClock(r.EndClock),
					r.Executed, r.Abandoned, tasks, r.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file holding the history")
	return cmd
}
