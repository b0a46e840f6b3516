package scheduler

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TaskStatus represents the current state of a task.
type TaskStatus int

const (
	StatusNotStarted TaskStatus = iota // Waiting for dependencies or promotion
	StatusInQueue                      // Promoted to a ready queue or the search pool
	StatusCompleted                    // Executed; the clock has moved past it
)

func (s TaskStatus) String() string {
	switch s {
	case StatusNotStarted:
		return "not-started"
	case StatusInQueue:
		return "in-queue"
	case StatusCompleted:
		return "completed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Task represents one activity of the simulated day.
type Task struct {
	ID                int              // Unique identifier
	Description       string           // Display text only
	Duration          int              // Minutes
	Dependencies      map[int]struct{} // Outstanding prerequisite ids, only ever shrinks
	Preference        int              // Intrinsic desirability weight
	StartTime         int              // Minutes from midnight, meaningful only with HasTimeConstraint
	HasTimeConstraint bool
	Status            TaskStatus

	requires []int // prerequisites as declared, used to order a committed batch
}

// TaskSpec is the construction record for a task. Start is "HH:MM" or empty
// for an unconstrained task.
type TaskSpec struct {
	ID          int    `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Duration    int    `json:"duration" yaml:"duration"`
	DependsOn   []int  `json:"depends_on,omitempty" yaml:"depends_on,omitempty"`
	Preference  int    `json:"preference" yaml:"preference"`
	Start       string `json:"start,omitempty" yaml:"start,omitempty"`
}

// NewTask creates an unconstrained task.
func NewTask(id int, description string, duration int, dependsOn []int, preference int) *Task {
	deps := make(map[int]struct{}, len(dependsOn))
	for _, d := range dependsOn {
		deps[d] = struct{}{}
	}
	return &Task{
		ID:           id,
		Description:  description,
		Duration:     duration,
		Dependencies: deps,
		Preference:   preference,
		Status:       StatusNotStarted,
		requires:     append([]int(nil), dependsOn...),
	}
}

// NewTimedTask creates a task that must begin at startMinute (minutes from midnight).
func NewTimedTask(id int, description string, duration int, dependsOn []int, preference int, startMinute int) *Task {
	t := NewTask(id, description, duration, dependsOn, preference)
	t.StartTime = startMinute
	t.HasTimeConstraint = true
	return t
}

// Ready reports whether the task has no outstanding dependencies and has not
// been promoted yet.
func (t *Task) Ready() bool {
	return t.Status == StatusNotStarted && len(t.Dependencies) == 0
}

// DependencyIDs returns the outstanding dependencies in ascending order.
func (t *Task) DependencyIDs() []int {
	ids := make([]int, 0, len(t.Dependencies))
	for id := range t.Dependencies {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// advance moves the task forward to next. Regressions are refused.
func (t *Task) advance(next TaskStatus) error {
	if next <= t.Status {
		return fmt.Errorf("task %d: status cannot move from %s to %s", t.ID, t.Status, next)
	}
	t.Status = next
	return nil
}

// Spec converts the task back to its construction record, using the
// declared prerequisites rather than the outstanding ones.
func (t *Task) Spec() TaskSpec {
	spec := TaskSpec{
		ID:          t.ID,
		Description: t.Description,
		Duration:    t.Duration,
		DependsOn:   append([]int(nil), t.requires...),
		Preference:  t.Preference,
	}
	if t.HasTimeConstraint {
		spec.Start = fmt.Sprintf("%02d:%02d", t.StartTime/60, t.StartTime%60)
	}
	return spec
}

// ParseClock parses "HH:MM" (or a bare hour "HH") into minutes from midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	hourPart, minutePart, hasMinutes := strings.Cut(s, ":")
	hour, err := strconv.Atoi(hourPart)
	if err != nil {
		return 0, fmt.Errorf("parsing hour in %q: %w", s, err)
	}
	minute := 0
	if hasMinutes {
		minute, err = strconv.Atoi(minutePart)
		if err != nil {
			return 0, fmt.Errorf("parsing minute in %q: %w", s, err)
		}
		if minute < 0 || minute > 59 {
			return 0, fmt.Errorf("minute out of range in %q", s)
		}
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes from midnight as "8h05".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}
