package config

import "fmt"

// BenchConfig tunes the benchmark harness.
type BenchConfig struct {
	MaxTasks int    `json:"max_tasks" envconfig:"MAX_TASKS"` // Largest input size timed
	Parallel int    `json:"parallel" envconfig:"PARALLEL"`   // Input sizes timed concurrently
	Seed     int64  `json:"seed" envconfig:"SEED"`           // Random task generator seed
	DBPath   string `json:"db_path,omitempty" envconfig:"DB_PATH"`
}

// Config is the top-level configuration.
type Config struct {
	StartHour      int         `json:"start_hour" envconfig:"START_HOUR"`
	Scheduler      string      `json:"scheduler" envconfig:"SCHEDULER"`             // "greedy" or "search"
	HorizonMinutes int         `json:"horizon_minutes" envconfig:"HORIZON_MINUTES"` // Greedy cutoff after the start hour
	DayEndMinute   int         `json:"day_end_minute" envconfig:"DAY_END_MINUTE"`   // Minutes from midnight bounding the last search window
	TasksFile      string      `json:"tasks_file,omitempty" envconfig:"TASKS_FILE"` // Empty selects the built-in sample day
	Color          bool        `json:"color" envconfig:"COLOR"`
	Bench          BenchConfig `json:"bench"`
}

// Validate rejects settings no run could use.
func (c *Config) Validate() error {
	if c.StartHour < 0 || c.StartHour > 23 {
		return fmt.Errorf("start_hour must be within 0..23, got %d", c.StartHour)
	}
	switch c.Scheduler {
	case SchedulerGreedy, SchedulerSearch:
	default:
		return fmt.Errorf("unknown scheduler %q (want %q or %q)", c.Scheduler, SchedulerGreedy, SchedulerSearch)
	}
	if c.HorizonMinutes <= 0 {
		return fmt.Errorf("horizon_minutes must be positive, got %d", c.HorizonMinutes)
	}
	if c.DayEndMinute <= 0 || c.DayEndMinute > 24*60 {
		return fmt.Errorf("day_end_minute must be within 1..1440, got %d", c.DayEndMinute)
	}
	if c.Bench.MaxTasks < 1 {
		return fmt.Errorf("bench.max_tasks must be at least 1, got %d", c.Bench.MaxTasks)
	}
	if c.Bench.Parallel < 1 {
		return fmt.Errorf("bench.parallel must be at least 1, got %d", c.Bench.Parallel)
	}
	return nil
}
