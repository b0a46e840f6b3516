package main

import (
	"fmt"
	"log"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/aristath/dayplanner/internal/bench"
	"github.com/aristath/dayplanner/internal/config"
	"github.com/aristath/dayplanner/internal/persistence"
)

func newBenchCmd(a *app) *cobra.Command {
	var (
		kind     string
		maxTasks int
		parallel int
		seed     int64
		fixed    bool
		dbPath   string
		width    int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time a scheduler over random days of 1..N tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			flags := cmd.Flags()
			if flags.Changed("scheduler") {
				cfg.Scheduler = kind
			}
			if flags.Changed("max") {
				cfg.Bench.MaxTasks = maxTasks
			}
			if flags.Changed("parallel") {
				cfg.Bench.Parallel = parallel
			}
			if flags.Changed("seed") {
				cfg.Bench.Seed = seed
			}
			if flags.Changed("db") {
				cfg.Bench.DBPath = dbPath
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			runner := bench.NewRunner(bench.RunnerConfig{
				Scheduler:        cfg.Scheduler,
				MaxTasks:         cfg.Bench.MaxTasks,
				ConcurrencyLimit: cfg.Bench.Parallel,
				Seed:             cfg.Bench.Seed,
				FixedDuration:    fixed,
				StartHour:        cfg.StartHour,
			})
			rep, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Benchmark %s: %s scheduler, seed %d\n\n", rep.ID, rep.Scheduler, rep.Seed)
			if err := bench.WriteTable(out, rep); err != nil {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, bench.Chart(rep, width))

			if cfg.Bench.DBPath == "" {
				return nil
			}
			if err := saveBench(cmd, cfg.Bench.DBPath, rep); err != nil {
				// The timings are already printed; losing history is not fatal.
				log.Printf("WARNING: benchmark not recorded: %v", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "scheduler", config.SchedulerGreedy, "scheduler to time: greedy or search")
	cmd.Flags().IntVar(&maxTasks, "max", 50, "largest number of tasks")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "input sizes timed at once")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random task generator seed")
	cmd.Flags().BoolVar(&fixed, "fixed", false, "give every task a 30 minute duration")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file to record the samples in")
	cmd.Flags().IntVar(&width, "width", 60, "chart width in cells")

	cmd.AddCommand(newBenchHistoryCmd(a))
	return cmd
}

func saveBench(cmd *cobra.Command, dbPath string, rep *bench.Report) error {
	store, err := persistence.NewSQLiteStore(cmd.Context(), dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	run := persistence.BenchRun{
		ID:        rep.ID,
		Scheduler: rep.Scheduler,
		Seed:      rep.Seed,
		MaxTasks:  len(rep.Samples),
		Fixed:     rep.Fixed,
		CreatedAt: rep.StartedAt,
	}
	samples := make([]persistence.BenchSample, 0, len(rep.Samples))
	for _, s := range rep.Samples {
		samples = append(samples, persistence.BenchSample{
			Size:      s.Size,
			Elapsed:   s.Elapsed,
			Executed:  s.Executed,
			Abandoned: s.Abandoned,
		})
	}
	if err := store.SaveBenchRun(cmd.Context(), run, samples); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Recorded benchmark %s in %s\n", rep.ID, dbPath)
	return nil
}

func newBenchHistoryCmd(a *app) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List recorded benchmarks, or the samples of one",
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
				samples, err := store.GetBenchSamples(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(tw, "TASKS\tELAPSED\tEXECUTED\tABANDONED")
				for _, s := range samples {
					fmt.Fprintf(tw, "%d\t%s\t%d\t%d\n", s.Size, s.Elapsed.Round(time.Microsecond), s.Executed, s.Abandoned)
				}
				return nil
			}

			runs, err := store.ListBenchRuns(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(tw, "ID\tSCHEDULER\tSEED\tMAX\tFIXED\tCREATED")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%t\t%s\n",
					r.ID, r.Scheduler, r.Seed, r.MaxTasks, r.Fixed, r.CreatedAt.Local().Format(time.DateTime))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite file holding the history")
	return cmd
}
