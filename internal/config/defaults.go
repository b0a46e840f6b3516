package config

const (
	SchedulerGreedy = "greedy"
	SchedulerSearch = "search"
)

// DefaultConfig returns the configuration used when no file or environment
// variable says otherwise: an 8 o'clock start, the greedy scheduler, a 13 hour
// horizon and a day ending at 20:00.
func DefaultConfig() *Config {
	return &Config{
		StartHour:      8,
		Scheduler:      SchedulerGreedy,
		HorizonMinutes: 13 * 60,
		DayEndMinute:   20 * 60,
		Color:          true,
		Bench: BenchConfig{
			MaxTasks: 50,
			Parallel: 1,
			Seed:     1,
		},
	}
}
