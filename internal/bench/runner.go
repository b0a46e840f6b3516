package bench

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/dayplanner/internal/scheduler"
)

// Sample is the timing of one scheduler run on a day of Size tasks.
type Sample struct {
	Size      int
	Elapsed   time.Duration
	Executed  int
	Abandoned int
	LogN      float64 // Natural log of Size, the reference curve
}

// Report is the outcome of a benchmark: one sample per size, ascending.
type Report struct {
	ID        string
	Scheduler string
	Seed      int64
	Fixed     bool
	StartedAt time.Time
	Samples   []Sample
}

// RunnerConfig configures the benchmark runner.
type RunnerConfig struct {
	Scheduler        string // scheduler.KindGreedy or scheduler.KindSearch
	MaxTasks         int    // Sizes 1..MaxTasks are timed
	ConcurrencyLimit int    // Sizes timed at once (default 1)
	Seed             int64
	FixedDuration    bool // Every task lasts 30 minutes
	StartHour        int
	Options          []scheduler.Option
}

// Runner times a scheduler over days of 1..MaxTasks random tasks.
type Runner struct {
	config  RunnerConfig
	mu      sync.Mutex
	samples []Sample
}

// NewRunner creates a runner, filling in defaults.
func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.ConcurrencyLimit <= 0 {
		cfg.ConcurrencyLimit = 1
	}
	if cfg.Scheduler == "" {
		cfg.Scheduler = scheduler.KindGreedy
	}
	return &Runner{config: cfg}
}

// Run times every size with bounded concurrency. Each size draws its tasks
// from its own generator seeded from Seed, so results do not depend on the
// concurrency limit. Cancelling ctx stops sizes that have not started. A
// runner may be run again; every run times all sizes afresh.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.config.MaxTasks < 1 {
		return nil, fmt.Errorf("max tasks must be at least 1, got %d", r.config.MaxTasks)
	}

	report := &Report{
		ID:        uuid.NewString(),
		Scheduler: r.config.Scheduler,
		Seed:      r.config.Seed,
		Fixed:     r.config.FixedDuration,
		StartedAt: time.Now(),
	}

	r.mu.Lock()
	r.samples = make([]Sample, r.config.MaxTasks)
	r.mu.Unlock()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.ConcurrencyLimit)

	for size := 1; size <= r.config.MaxTasks; size++ {
		n := size
		g.Go(func() error {
			return r.timeSize(gctx, n)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	report.Samples = append([]Sample(nil), r.samples...)
	r.mu.Unlock()
	return report, nil
}

func (r *Runner) timeSize(ctx context.Context, n int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(r.config.Seed + int64(n)))
	tasks := RandomTasks(rng, n, r.config.FixedDuration)
	s, err := scheduler.New(r.config.Scheduler, tasks, r.config.Options...)
	if err != nil {
		return fmt.Errorf("size %d: %w", n, err)
	}

	began := time.Now()
	res, err := s.Run(r.config.StartHour)
	elapsed := time.Since(began)
	if err != nil {
		return fmt.Errorf("size %d: %w", n, err)
	}

	r.mu.Lock()
	r.samples[n-1] = Sample{
		Size:      n,
		Elapsed:   elapsed,
		Executed:  res.Log.Len(),
		Abandoned: len(res.Abandoned),
		LogN:      math.Log(float64(n)),
	}
	r.mu.Unlock()
	return nil
}
