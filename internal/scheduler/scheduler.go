package scheduler

import (
	"errors"
	"fmt"

	"github.com/aristath/dayplanner/internal/events"
)

const (
	// DefaultHorizon is how long after the start hour the greedy scheduler keeps going.
	DefaultHorizon = 13 * 60
	// DefaultDayEnd is the end-of-day instant bounding the last search window.
	DefaultDayEnd = 20 * 60
)

// ErrAlreadyRan is returned when Run is called a second time on the same scheduler.
var ErrAlreadyRan = errors.New("scheduler already ran")

// Scheduler runs one simulated day over its task collection.
type Scheduler interface {
	Run(startHour int) (*Result, error)
}

// Options tunes a scheduler run.
type Options struct {
	Horizon   int // Minutes after the start instant; greedy stops once the clock reaches it
	DayEnd    int // Minutes from midnight; search never plans unconstrained work past it
	Publisher events.Publisher
}

// Option configures a scheduler.
type Option func(*Options)

// WithHorizon sets how many minutes after the start the greedy scheduler runs.
func WithHorizon(minutes int) Option {
	return func(o *Options) { o.Horizon = minutes }
}

// WithDayEnd sets the minute after which no unconstrained work is planned.
func WithDayEnd(minute int) Option {
	return func(o *Options) { o.DayEnd = minute }
}

// WithPublisher makes the run publish task and plan events.
func WithPublisher(p events.Publisher) Option {
	return func(o *Options) { o.Publisher = p }
}

func newOptions(opts []Option) Options {
	o := Options{Horizon: DefaultHorizon, DayEnd: DefaultDayEnd}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Window records one budget window of the search scheduler.
type Window struct {
	Clock    int   // Clock when the window opened
	Budget   int   // Minutes available
	Utility  int   // Best utility found
	Selected []int // Best subset found, ascending
	Executed []int // Every task committed in the window, in execution order
}

// Result is what a run produces.
type Result struct {
	Scheduler  string
	StartClock int
	EndClock   int
	Log        ExecutionLog
	Abandoned  []int    // Tasks never completed, ascending
	Windows    []Window // Search scheduler only
}

// Elapsed is the simulated time between the start instant and the last completion.
func (r *Result) Elapsed() int {
	return r.EndClock - r.StartClock
}

// New builds the scheduler registered under kind ("greedy" or "search").
func New(kind string, tasks []*Task, opts ...Option) (Scheduler, error) {
	switch kind {
	case KindGreedy:
		return NewGreedy(tasks, opts...)
	case KindSearch:
		return NewSearch(tasks, opts...)
	}
	return nil, fmt.Errorf("unknown scheduler %q", kind)
}

const (
	KindGreedy = "greedy"
	KindSearch = "search"
)

func startClock(startHour int) (int, error) {
	if startHour < 0 || startHour > 23 {
		return 0, fmt.Errorf("start hour must be within 0..23, got %d", startHour)
	}
	return startHour * 60, nil
}
