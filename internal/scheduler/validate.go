package scheduler

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gammazero/toposort"
)

// ErrInvalidTask is matched by every validation failure.
var ErrInvalidTask = errors.New("invalid task configuration")

const (
	MinPreference = 1
	MaxPreference = 10
	minutesPerDay = 24 * 60
)

type ValidationError struct {
	TaskID  int
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("task %d: %s: %s", e.TaskID, e.Field, e.Message)
}

// ValidationErrors collects every problem found in a task list so callers see
// them all at once.
type ValidationErrors struct {
	Errors []ValidationError
}

func (ve *ValidationErrors) Add(taskID int, field, message string) {
	ve.Errors = append(ve.Errors, ValidationError{TaskID: taskID, Field: field, Message: message})
}

func (ve *ValidationErrors) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationErrors) Error() string {
	msgs := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		msgs = append(msgs, e.Error())
	}
	return fmt.Sprintf("%s: %s", ErrInvalidTask, strings.Join(msgs, "; "))
}

func (ve *ValidationErrors) Unwrap() error {
	return ErrInvalidTask
}

// NewTasks validates specs and builds the task collection in spec order.
func NewTasks(specs []TaskSpec) ([]*Task, error) {
	tasks := make([]*Task, 0, len(specs))
	var ve ValidationErrors
	for _, s := range specs {
		if strings.TrimSpace(s.Start) == "" {
			tasks = append(tasks, NewTask(s.ID, s.Description, s.Duration, s.DependsOn, s.Preference))
			continue
		}
		start, err := ParseClock(s.Start)
		if err != nil {
			ve.Add(s.ID, "start", err.Error())
			continue
		}
		tasks = append(tasks, NewTimedTask(s.ID, s.Description, s.Duration, s.DependsOn, s.Preference, start))
	}
	if ve.HasErrors() {
		return nil, &ve
	}
	if _, err := Validate(tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Validate checks every task field, verifies that all dependencies exist, and
// runs a topological sort to reject cycles. Returns the task ids in an order
// that satisfies all dependencies.
func Validate(tasks []*Task) ([]int, error) {
	var ve ValidationErrors

	byID := make(map[int]*Task, len(tasks))
	for _, t := range tasks {
		if _, dup := byID[t.ID]; dup {
			ve.Add(t.ID, "id", "duplicate task id")
			continue
		}
		byID[t.ID] = t
	}

	for _, t := range tasks {
		if t.Duration <= 0 {
			ve.Add(t.ID, "duration", fmt.Sprintf("must be positive, got %d", t.Duration))
		}
		if t.Preference < MinPreference || t.Preference > MaxPreference {
			ve.Add(t.ID, "preference", fmt.Sprintf("must be within %d..%d, got %d", MinPreference, MaxPreference, t.Preference))
		}
		if t.HasTimeConstraint && (t.StartTime < 0 || t.StartTime >= minutesPerDay) {
			ve.Add(t.ID, "start", fmt.Sprintf("must fall within the day, got %d minutes", t.StartTime))
		}
		if !t.HasTimeConstraint && t.StartTime != 0 {
			ve.Add(t.ID, "start", "unconstrained task carries a start time")
		}
		for _, depID := range t.DependencyIDs() {
			if depID == t.ID {
				ve.Add(t.ID, "depends_on", "task depends on itself")
				continue
			}
			if _, exists := byID[depID]; !exists {
				ve.Add(t.ID, "depends_on", fmt.Sprintf("depends on non-existent task %d", depID))
			}
		}
	}

	if ve.HasErrors() {
		return nil, &ve
	}

	// Edge (depID, taskID) means depID must come before taskID
	var edges []toposort.Edge
	for _, t := range tasks {
		if len(t.Dependencies) == 0 {
			edges = append(edges, toposort.Edge{nil, t.ID})
			continue
		}
		for _, depID := range t.DependencyIDs() {
			edges = append(edges, toposort.Edge{depID, t.ID})
		}
	}

	sorted, err := toposort.Toposort(edges)
	if err != nil {
		ve.Add(cycleMember(tasks), "depends_on", fmt.Sprintf("dependency cycle: %v", err))
		return nil, &ve
	}

	order := make([]int, 0, len(sorted))
	for _, id := range sorted {
		if id != nil {
			order = append(order, id.(int))
		}
	}
	return order, nil
}

// cycleMember reports the lowest id that still has unresolved dependencies
// after peeling off every task reachable from the roots.
func cycleMember(tasks []*Task) int {
	done := make(map[int]bool, len(tasks))
	for progress := true; progress; {
		progress = false
		for _, t := range tasks {
			if done[t.ID] {
				continue
			}
			resolved := true
			for dep := range t.Dependencies {
				if !done[dep] {
					resolved = false
					break
				}
			}
			if resolved {
				done[t.ID] = true
				progress = true
			}
		}
	}
	var stuck []int
	for _, t := range tasks {
		if !done[t.ID] {
			stuck = append(stuck, t.ID)
		}
	}
	if len(stuck) == 0 {
		return 0
	}
	sort.Ints(stuck)
	return stuck[0]
}
