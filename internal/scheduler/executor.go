package scheduler

import (
	"fmt"

	"github.com/aristath/dayplanner/internal/events"
)

// Executor owns the simulated clock and applies the completion primitive,
// recording every executed task in the log.
type Executor struct {
	dag   *DAG
	clock int
	log   ExecutionLog
	pub   events.Publisher
}

// NewExecutor creates an executor whose clock starts at startClock.
func NewExecutor(dag *DAG, startClock int, pub events.Publisher) *Executor {
	return &Executor{
		dag:   dag,
		clock: startClock,
		pub:   pub,
	}
}

// Clock returns the current simulated time in minutes from midnight.
func (e *Executor) Clock() int {
	return e.clock
}

// Log returns the trace so far.
func (e *Executor) Log() ExecutionLog {
	return e.log
}

// JumpTo leaps the clock forward to minute. The clock never moves backwards.
func (e *Executor) JumpTo(minute int) {
	if minute > e.clock {
		e.clock = minute
	}
}

// Execute runs task to completion: the clock advances by its duration, its
// dependents are released and it is marked completed.
func (e *Executor) Execute(task *Task, priority float64, reason ReadyReason) error {
	if task.Status == StatusCompleted {
		return fmt.Errorf("task %d already completed", task.ID)
	}

	start := e.clock
	e.publish(events.TopicTask, events.TaskStartedEvent{
		ID:          task.ID,
		Description: task.Description,
		Clock:       start,
		Priority:    priority,
		Reason:      reason.String(),
	})

	e.clock += task.Duration
	if err := e.dag.complete(task); err != nil {
		return fmt.Errorf("completing task %d: %w", task.ID, err)
	}

	e.log.Append(LogEntry{
		TaskID:      task.ID,
		Description: task.Description,
		Start:       start,
		Duration:    task.Duration,
		End:         e.clock,
		Priority:    priority,
		Reason:      reason,
	})

	e.publish(events.TopicTask, events.TaskCompletedEvent{
		ID:       task.ID,
		Clock:    e.clock,
		Duration: task.Duration,
	})
	e.publishProgress()
	return nil
}

// finish builds the run result. Every task not completed is reported as abandoned.
func (e *Executor) finish(kind string, startClock int, windows []Window) *Result {
	abandoned := e.dag.Unfinished()
	for _, id := range abandoned {
		e.publish(events.TopicTask, events.TaskAbandonedEvent{ID: id, Clock: e.clock})
	}

	e.publish(events.TopicPlan, events.RunFinishedEvent{
		Scheduler:  kind,
		StartClock: startClock,
		EndClock:   e.clock,
		Executed:   e.log.Len(),
		Abandoned:  len(abandoned),
	})

	return &Result{
		Scheduler:  kind,
		StartClock: startClock,
		EndClock:   e.clock,
		Log:        e.log,
		Abandoned:  abandoned,
		Windows:    windows,
	}
}

func (e *Executor) publishProgress() {
	counts := e.dag.Counts()
	e.publish(events.TopicPlan, events.PlanProgressEvent{
		Total:     len(e.dag.tasks),
		Completed: counts[StatusCompleted],
		Queued:    counts[StatusInQueue],
		Pending:   counts[StatusNotStarted],
		Clock:     e.clock,
	})
}

func (e *Executor) publish(topic string, ev events.Event) {
	if e.pub != nil {
		e.pub.Publish(topic, ev)
	}
}
