package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aristath/dayplanner/internal/catalog"
	"github.com/aristath/dayplanner/internal/report"
)

func newTasksCmd(a *app) *cobra.Command {
	var (
		tasksFile string
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "List the tasks of the day with their constraints",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.TasksFile
			if cmd.Flags().Changed("tasks") {
				path = tasksFile
			}

			file := catalog.Sample()
			if path != "" {
				f, err := catalog.Load(path)
				if err != nil {
					return err
				}
				file = f
			}

			tasks, err := file.Build()
			if err != nil {
				return err
			}
			return report.NewPrinter(cmd.OutOrStdout(), a.cfg.Color && !noColor).WriteTasks(tasks)
		},
	}
	cmd.Flags().StringVar(&tasksFile, "tasks", "", "task file (.json, .yaml or .yml); empty uses the sample day")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(newTasksInitCmd())
	return cmd
}

func newTasksInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write the sample day to a task file to start editing from",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "day.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := catalog.Write(path, catalog.Sample()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote the sample day to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
