package scheduler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/aristath/dayplanner/internal/events"
)

// Search fills each gap before the next deadline with a subset of the
// available unconstrained tasks, chosen by a memoized recursive search that
// maximizes summed priority within the gap. Deadline tasks run from a heap as
// they become due.
//
// A candidate that improves the best utility of the window is committed on
// the spot: its dependents are released and it leaves the pool before sibling
// branches are explored. Each recursion frame carries its own budget. Only the
// best subset executes; committed tasks outside it go back to the pool. The
// memo of evaluated subsets lasts the whole run.
type Search struct {
	dag           *DAG
	opts          Options
	deadlineQueue *MaxHeap[*Task]
	available     []*Task
	committed     []*Task        // Committed in the current window, in commit order
	memo          map[string]int // Subset key -> utility, never cleared
	priorities    map[int]int    // Priority each task had when last evaluated
	stats         searchStats
	ran           bool
}

// searchStats counts what the search did over a run.
type searchStats struct {
	evaluated    int // Subsets scored and memoized
	memoHits     int // Subsets skipped because they were already scored
	nonImproving int // Subsets scored but not better than the window's best
}

// NewSearch validates tasks and creates a search scheduler owning them.
func NewSearch(tasks []*Task, opts ...Option) (*Search, error) {
	dag, err := NewDAG(tasks)
	if err != nil {
		return nil, err
	}
	return &Search{
		dag:           dag,
		opts:          newOptions(opts),
		deadlineQueue: NewMaxHeap[*Task](),
		memo:          make(map[string]int),
		priorities:    make(map[int]int),
	}, nil
}

// DAG exposes the task collection the scheduler mutates.
func (s *Search) DAG() *DAG {
	return s.dag
}

// selection is a subset of task ids and its utility.
type selection struct {
	utility int
	tasks   []int // ascending
}

// Run simulates the day from startHour. Each iteration either executes a due
// deadline task or searches the gap before the next one (or before the end of
// the day when no deadline is pending).
func (s *Search) Run(startHour int) (*Result, error) {
	if s.ran {
		return nil, ErrAlreadyRan
	}
	s.ran = true

	start, err := startClock(startHour)
	if err != nil {
		return nil, err
	}
	ex := NewExecutor(s.dag, start, s.opts.Publisher)
	var windows []Window

	s.scanReady()
	for {
		if top, err := s.deadlineQueue.Peek(); err == nil {
			task := top.Item
			if ex.Clock() < task.StartTime {
				w, err := s.runWindow(ex, task.StartTime-ex.Clock())
				if err != nil {
					return nil, err
				}
				windows = append(windows, w)
				if len(w.Executed) > 0 {
					continue
				}
				// Nothing fits before the deadline: idle until it.
				ex.JumpTo(task.StartTime)
			}
			if _, err := s.deadlineQueue.Pop(); err != nil {
				return nil, err
			}
			if err := ex.Execute(task, top.Key, ReadyDeadline); err != nil {
				return nil, err
			}
			s.scanReady()
			continue
		}

		if len(s.available) == 0 {
			break
		}
		budget := s.opts.DayEnd - ex.Clock()
		if budget <= 0 {
			break
		}
		w, err := s.runWindow(ex, budget)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
		if len(w.Executed) == 0 {
			break
		}
	}

	return ex.finish(KindSearch, start, windows), nil
}

// runWindow searches one budget window, executes the best subset and returns
// the other committed tasks to the pool.
func (s *Search) runWindow(ex *Executor, budget int) (Window, error) {
	opened := ex.Clock()
	s.committed = nil
	best := s.explore(nil, 0, budget, selection{})

	chosen := make(map[int]bool, len(best.tasks))
	for _, id := range best.tasks {
		chosen[id] = true
	}
	var batch []*Task
	for _, t := range s.committed {
		if chosen[t.ID] {
			batch = append(batch, t)
		} else {
			s.available = append(s.available, t)
		}
	}
	s.committed = nil

	executed := make([]int, 0, len(batch))
	for _, t := range orderBatch(batch) {
		if err := ex.Execute(t, float64(s.priorities[t.ID]), ReadyDependency); err != nil {
			return Window{}, err
		}
		executed = append(executed, t.ID)
	}
	s.scanReady()

	result := Window{
		Clock:    opened,
		Budget:   budget,
		Utility:  best.utility,
		Selected: best.tasks,
		Executed: executed,
	}
	if s.opts.Publisher != nil {
		s.opts.Publisher.Publish(events.TopicPlan, events.WindowSearchedEvent{
			Clock:    opened,
			Budget:   budget,
			Utility:  best.utility,
			Selected: append([]int(nil), best.tasks...),
		})
	}
	return result, nil
}

// explore extends the subset in by each eligible candidate that fits the
// frame's budget. Subsets already in the memo are skipped. A candidate whose
// subset beats best is committed, the frame's budget shrinks by its duration
// and the search recurses from the enlarged subset with what is left. The
// best selection is threaded through the calls and returned.
func (s *Search) explore(in []int, utility, budget int, best selection) selection {
	candidates := append([]*Task(nil), s.available...)
	for _, x := range candidates {
		if budget <= 0 {
			break
		}
		if !s.isAvailable(x) || x.Duration > budget || !s.eligible(x, in) {
			continue
		}

		subset := withID(in, x.ID)
		key := subsetKey(subset)
		if _, seen := s.memo[key]; seen {
			s.stats.memoHits++
			continue
		}

		priority := s.dag.Priority(x.ID)
		s.priorities[x.ID] = priority
		current := utility + priority
		s.memo[key] = current
		s.stats.evaluated++

		if current <= best.utility {
			s.stats.nonImproving++
			continue
		}
		best = selection{utility: current, tasks: subset}
		s.commit(x)
		budget -= x.Duration

		if budget <= 0 {
			break
		}
		s.scanReady()
		best = s.explore(subset, current, budget, best)
	}
	return best
}

// commit releases x's dependents and moves it from the pool to the window's
// committed list.
func (s *Search) commit(x *Task) {
	s.dag.RemoveDependency(x.ID)
	for i, t := range s.available {
		if t == x {
			s.available = append(s.available[:i], s.available[i+1:]...)
			break
		}
	}
	s.committed = append(s.committed, x)
}

func (s *Search) isAvailable(x *Task) bool {
	for _, t := range s.available {
		if t == x {
			return true
		}
	}
	return false
}

// eligible reports whether every declared prerequisite of x has completed or
// is part of subset. A commit outside the branch releases dependents without
// placing their prerequisite in the branch.
func (s *Search) eligible(x *Task, subset []int) bool {
	for _, dep := range x.requires {
		if t, ok := s.dag.Get(dep); ok && t.Status == StatusCompleted {
			continue
		}
		i := sort.SearchInts(subset, dep)
		if i == len(subset) || subset[i] != dep {
			return false
		}
	}
	return true
}

// prerequisitesDone reports whether every declared prerequisite of t has completed.
func (s *Search) prerequisitesDone(t *Task) bool {
	for _, dep := range t.requires {
		if p, ok := s.dag.Get(dep); !ok || p.Status != StatusCompleted {
			return false
		}
	}
	return true
}

// scanReady promotes ready tasks: unconstrained ones join the pool, deadline
// ones the heap. A deadline task waits until its prerequisites have actually
// run, since a committed prerequisite may still go back to the pool.
func (s *Search) scanReady() {
	for _, t := range s.dag.tasks {
		if !t.Ready() {
			continue
		}
		reason := reasonFor(t)
		if reason == ReadyDeadline {
			if !s.prerequisitesDone(t) {
				continue
			}
			t.Status = StatusInQueue
			s.deadlineQueue.Push(t, reason.Key(s.dag, t))
			continue
		}
		t.Status = StatusInQueue
		s.available = append(s.available, t)
	}
}

// orderBatch orders committed tasks by ascending id, holding a task back
// until every declared prerequisite inside the batch has been placed.
func orderBatch(batch []*Task) []*Task {
	remaining := append([]*Task(nil), batch...)
	sort.Slice(remaining, func(i, j int) bool { return remaining[i].ID < remaining[j].ID })

	inBatch := make(map[int]bool, len(batch))
	for _, t := range batch {
		inBatch[t.ID] = true
	}

	placed := make(map[int]bool, len(batch))
	ordered := make([]*Task, 0, len(batch))
	for len(remaining) > 0 {
		next := 0
		for i, t := range remaining {
			if prerequisitesPlaced(t, inBatch, placed) {
				next = i
				break
			}
		}
		t := remaining[next]
		remaining = append(remaining[:next], remaining[next+1:]...)
		placed[t.ID] = true
		ordered = append(ordered, t)
	}
	return ordered
}

func prerequisitesPlaced(t *Task, inBatch, placed map[int]bool) bool {
	for _, dep := range t.requires {
		if inBatch[dep] && !placed[dep] {
			return false
		}
	}
	return true
}

func withID(ids []int, id int) []int {
	out := make([]int, 0, len(ids)+1)
	out = append(out, ids...)
	out = append(out, id)
	sort.Ints(out)
	return out
}

// subsetKey is the order-independent memo key of a subset.
func subsetKey(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
