package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aristath/dayplanner/internal/catalog"
	"github.com/aristath/dayplanner/internal/config"
	"github.com/aristath/dayplanner/internal/events"
	"github.com/aristath/dayplanner/internal/persistence"
	"github.com/aristath/dayplanner/internal/report"
	"github.com/aristath/dayplanner/internal/scheduler"
	"github.com/aristath/dayplanner/internal/tui"
)

// debounceInterval is how long the watcher waits for a burst of writes to settle.
const debounceInterval = 150 * time.Millisecond

type runOptions struct {
	scheduler string
	startHour int
	tasksFile string
	useTUI    bool
	pace      time.Duration
	watch     bool
	noColor   bool
	dbPath    string
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Simulate the day and print the timeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if cmd.Flags().Changed("scheduler") {
				cfg.Scheduler = opts.scheduler
			}
			if cmd.Flags().Changed("tasks") {
				cfg.TasksFile = opts.tasksFile
			}
			if opts.noColor {
				cfg.Color = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			startOverride := -1
			if cmd.Flags().Changed("start") {
				startOverride = opts.startHour
			}

			p := &planner{
				cfg:           &cfg,
				startOverride: startOverride,
				dbPath:        opts.dbPath,
				out:           cmd.OutOrStdout(),
			}

			if opts.useTUI {
				if opts.watch {
					return errors.New("--watch cannot be combined with --tui")
				}
				return p.runTUI(cmd.Context(), opts.pace)
			}
			if err := p.runOnce(cmd.Context()); err != nil {
				if !opts.watch {
					return err
				}
				log.Printf("WARNING: %v", err)
			}
			if opts.watch {
				if cfg.TasksFile == "" {
					return errors.New("--watch needs a task file (--tasks or tasks_file)")
				}
				return p.watch(cmd.Context())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.scheduler, "scheduler", config.SchedulerGreedy, "scheduler to run: greedy or search")
	cmd.Flags().IntVar(&opts.startHour, "start", 8, "start hour of the day (0-23), overrides the task file and config")
	cmd.Flags().StringVar(&opts.tasksFile, "tasks", "", "task file (.json, .yaml or .yml); empty uses the sample day")
	cmd.Flags().BoolVar(&opts.useTUI, "tui", false, "watch the run in the interactive viewer")
	cmd.Flags().DurationVar(&opts.pace, "pace", 300*time.Millisecond, "delay between events in the viewer")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "re-run whenever the task file changes")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "SQLite file to record the run in")
	return cmd
}

// planner runs one configured day at a time.
type planner struct {
	cfg           *config.Config
	startOverride int // -1 when the start hour comes from the task file or config
	dbPath        string
	out           io.Writer
}

// load reads the task file, or the sample day, and resolves the start hour.
func (p *planner) load() (*catalog.File, int, error) {
	file := catalog.Sample()
	if p.cfg.TasksFile != "" {
		f, err := catalog.Load(p.cfg.TasksFile)
		if err != nil {
			return nil, 0, err
		}
		file = f
	}

	startHour := p.cfg.StartHour
	if file.StartHour != nil {
		startHour = *file.StartHour
	}
	if p.startOverride >= 0 {
		startHour = p.startOverride
	}
	return file, startHour, nil
}

func (p *planner) options(pub events.Publisher) []scheduler.Option {
	opts := []scheduler.Option{
		scheduler.WithHorizon(p.cfg.HorizonMinutes),
		scheduler.WithDayEnd(p.cfg.DayEndMinute),
	}
	if pub != nil {
		opts = append(opts, scheduler.WithPublisher(pub))
	}
	return opts
}

// simulate builds fresh tasks from file and runs the configured scheduler.
func (p *planner) simulate(file *catalog.File, startHour int, pub events.Publisher) ([]*scheduler.Task, *scheduler.Result, error) {
	tasks, err := file.Build()
	if err != nil {
		return nil, nil, err
	}
	s, err := scheduler.New(p.cfg.Scheduler, tasks, p.options(pub)...)
	if err != nil {
		return nil, nil, err
	}
	res, err := s.Run(startHour)
	if err != nil {
		return nil, nil, err
	}
	return tasks, res, nil
}

// runOnce simulates the day and prints the task list and the timeline.
func (p *planner) runOnce(ctx context.Context) error {
	file, startHour, err := p.load()
	if err != nil {
		return err
	}

	// Printing the list needs tasks that have not been consumed by a run.
	listed, err := file.Build()
	if err != nil {
		return err
	}
	printer := report.NewPrinter(p.out, p.cfg.Color)
	if err := printer.WriteTasks(listed); err != nil {
		return err
	}

	_, res, err := p.simulate(file, startHour, nil)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(p.out); err != nil {
		return err
	}
	if err := printer.WriteRun(res); err != nil {
		return err
	}
	return p.record(ctx, res)
}

// record stores res when a database was given.
func (p *planner) record(ctx context.Context, res *scheduler.Result) error {
	if p.dbPath == "" {
		return nil
	}
	store, err := persistence.NewSQLiteStore(ctx, p.dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id := uuid.NewString()
	if err := store.SavePlanRun(ctx, id, p.cfg.TasksFile, res); err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	fmt.Fprintf(p.out, "\nRecorded run %s in %s\n", id, p.dbPath)
	return nil
}

// runTUI plays the run in the viewer. The scheduler publishes onto the bus
// while the viewer replays the events at the requested pace.
func (p *planner) runTUI(ctx context.Context, pace time.Duration) error {
	file, startHour, err := p.load()
	if err != nil {
		return err
	}

	bus := events.NewEventBus()
	defer bus.Close()

	model := tui.New(bus, file.Tasks, p.cfg.Scheduler, pace)
	prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	resCh := make(chan *scheduler.Result, 1)
	errCh := make(chan error, 1)
	go func() {
		_, res, err := p.simulate(file, startHour, bus)
		if err != nil {
			errCh <- err
			prog.Quit()
			return
		}
		resCh <- res
	}()

	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running viewer: %w", err)
	}

	select {
	case err := <-errCh:
		return err
	case res := <-resCh:
		if err := report.NewPrinter(p.out, p.cfg.Color).WriteSummary(res); err != nil {
			return err
		}
		return p.record(ctx, res)
	case <-ctx.Done():
		return nil
	}
}

// watch re-runs the day every time the task file is written, until ctx is done.
func (p *planner) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory: editors often replace the file by rename.
	path, err := filepath.Abs(p.cfg.TasksFile)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	fmt.Fprintf(p.out, "\nWatching %s for changes (Ctrl+C to stop)\n", p.cfg.TasksFile)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			debounce = time.After(debounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("WARNING: watcher error: %v", err)

		case <-debounce:
			debounce = nil
			fmt.Fprintf(p.out, "\n%s changed, re-running\n\n", p.cfg.TasksFile)
			if err := p.runOnce(ctx); err != nil {
				log.Printf("WARNING: %v", err)
			}
		}
	}
}
