package scheduler

import (
	"fmt"
	"sort"
)

// DAG is the task collection of one scheduling run. Dependency edges live on
// the tasks themselves; completing a task mutates its dependents in place.
// A DAG is owned by a single scheduler and is not safe for concurrent use.
type DAG struct {
	tasks      []*Task       // In construction order
	byID       map[int]*Task // All tasks indexed by ID
	dependents map[int][]int // Maps taskID -> declared dependents, ascending
	order      []int         // Topological order from validation
}

// NewDAG validates tasks and indexes them.
func NewDAG(tasks []*Task) (*DAG, error) {
	order, err := Validate(tasks)
	if err != nil {
		return nil, err
	}

	d := &DAG{
		tasks:      tasks,
		byID:       make(map[int]*Task, len(tasks)),
		dependents: make(map[int][]int),
		order:      order,
	}
	for _, t := range tasks {
		d.byID[t.ID] = t
		for _, depID := range t.requires {
			d.dependents[depID] = append(d.dependents[depID], t.ID)
		}
	}
	for id := range d.dependents {
		sort.Ints(d.dependents[id])
	}
	return d, nil
}

// Get returns task by ID.
func (d *DAG) Get(taskID int) (*Task, bool) {
	t, ok := d.byID[taskID]
	return t, ok
}

// Tasks returns all tasks in construction order. The tasks are shared, not copied.
func (d *DAG) Tasks() []*Task {
	return append([]*Task(nil), d.tasks...)
}

// Order returns task IDs in a dependency-respecting order.
func (d *DAG) Order() []int {
	return append([]int(nil), d.order...)
}

// Dependents returns the tasks that declared taskID as a prerequisite.
func (d *DAG) Dependents(taskID int) []int {
	return append([]int(nil), d.dependents[taskID]...)
}

// Priority is 10 per task currently blocked on taskID plus the task's own
// preference. It is recomputed on every call, so it falls as dependents are
// released.
func (d *DAG) Priority(taskID int) int {
	blocked := 0
	for _, t := range d.tasks {
		if _, ok := t.Dependencies[taskID]; ok {
			blocked++
		}
	}
	preference := 0
	if t, ok := d.byID[taskID]; ok {
		preference = t.Preference
	}
	return 10*blocked + preference
}

// RemoveDependency releases taskID from every other task's dependency set.
// Removing an id that is not present is a no-op.
func (d *DAG) RemoveDependency(taskID int) {
	for _, t := range d.tasks {
		if t.ID != taskID {
			delete(t.Dependencies, taskID)
		}
	}
}

// HasNotStarted reports whether any task is still StatusNotStarted.
func (d *DAG) HasNotStarted() bool {
	for _, t := range d.tasks {
		if t.Status == StatusNotStarted {
			return true
		}
	}
	return false
}

// Unfinished returns the IDs of tasks that were never completed, ascending.
func (d *DAG) Unfinished() []int {
	var ids []int
	for _, t := range d.tasks {
		if t.Status != StatusCompleted {
			ids = append(ids, t.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Counts returns the number of tasks in each status.
func (d *DAG) Counts() map[TaskStatus]int {
	counts := make(map[TaskStatus]int, 3)
	for _, t := range d.tasks {
		counts[t.Status]++
	}
	return counts
}

// complete is the single state-mutating primitive shared by both schedulers:
// it releases the task's dependents and marks it completed. The caller
// advances the clock.
func (d *DAG) complete(t *Task) error {
	if _, ok := d.byID[t.ID]; !ok {
		return fmt.Errorf("task %d not found", t.ID)
	}
	d.RemoveDependency(t.ID)
	return t.advance(StatusCompleted)
}
