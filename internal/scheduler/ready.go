package scheduler

import "fmt"

// ReadyReason says why a task entered a ready structure, and with it how its
// ordering key is derived.
type ReadyReason int

const (
	ReadyDependency ReadyReason = iota // Unconstrained, keyed by Priority
	ReadyDeadline                      // Fixed start, keyed so the earliest start is largest
)

func reasonFor(t *Task) ReadyReason {
	if t.HasTimeConstraint {
		return ReadyDeadline
	}
	return ReadyDependency
}

// Key computes the heap key for t under this reason.
func (r ReadyReason) Key(d *DAG, t *Task) float64 {
	if r == ReadyDeadline {
		return -float64(t.StartTime) / 60
	}
	return float64(d.Priority(t.ID))
}

func (r ReadyReason) String() string {
	if r == ReadyDeadline {
		return "deadline"
	}
	return "dependency"
}

// ParseReadyReason is the inverse of String.
func ParseReadyReason(s string) (ReadyReason, error) {
	switch s {
	case "dependency":
		return ReadyDependency, nil
	case "deadline":
		return ReadyDeadline, nil
	}
	return 0, fmt.Errorf("unknown ready reason %q", s)
}
