package events

// Event is the base interface for all events.
type Event interface {
	EventType() string
	TaskID() int
}

// Topic constants
const (
	TopicTask = "task"
	TopicPlan = "plan"
)

// Event type constants
const (
	EventTypeTaskStarted   = "task.started"
	EventTypeTaskCompleted = "task.completed"
	EventTypeTaskAbandoned = "task.abandoned"
	EventTypeWindowSearch  = "plan.window"
	EventTypePlanProgress  = "plan.progress"
	EventTypeRunFinished   = "plan.finished"
)

// TaskStartedEvent is published when the simulated clock starts a task.
type TaskStartedEvent struct {
	ID          int
	Description string
	Clock       int     // Minutes from midnight
	Priority    float64 // Key the task was selected with
	Reason      string  // "dependency" or "deadline"
}

func (e TaskStartedEvent) EventType() string { return EventTypeTaskStarted }
func (e TaskStartedEvent) TaskID() int       { return e.ID }

// TaskCompletedEvent is published after the clock has advanced past a task.
type TaskCompletedEvent struct {
	ID       int
	Clock    int
	Duration int
}

func (e TaskCompletedEvent) EventType() string { return EventTypeTaskCompleted }
func (e TaskCompletedEvent) TaskID() int       { return e.ID }

// TaskAbandonedEvent is published for every task left unfinished when a run stops.
type TaskAbandonedEvent struct {
	ID    int
	Clock int
}

func (e TaskAbandonedEvent) EventType() string { return EventTypeTaskAbandoned }
func (e TaskAbandonedEvent) TaskID() int       { return e.ID }

// WindowSearchedEvent is published by the search scheduler after each budget window.
type WindowSearchedEvent struct {
	Clock    int
	Budget   int
	Utility  int
	Selected []int
}

func (e WindowSearchedEvent) EventType() string { return EventTypeWindowSearch }
func (e WindowSearchedEvent) TaskID() int       { return 0 }

// PlanProgressEvent is published when task counts change.
type PlanProgressEvent struct {
	Total     int
	Completed int
	Queued    int
	Pending   int
	Clock     int
}

func (e PlanProgressEvent) EventType() string { return EventTypePlanProgress }
func (e PlanProgressEvent) TaskID() int       { return 0 }

// RunFinishedEvent is the last event of a run.
type RunFinishedEvent struct {
	Scheduler  string
	StartClock int
	EndClock   int
	Executed   int
	Abandoned  int
}

func (e RunFinishedEvent) EventType() string { return EventTypeRunFinished }
func (e RunFinishedEvent) TaskID() int       { return 0 }
