package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/dayplanner/internal/events"
)

func newReadySearch(t *testing.T, tasks []*Task, opts ...Option) *Search {
	t.Helper()
	s, err := NewSearch(tasks, opts...)
	require.NoError(t, err)
	s.scanReady()
	return s
}

func TestSearch_BudgetSmallerThanEveryTask(t *testing.T) {
	a := NewTask(1, "a", 30, nil, 5)
	s := newReadySearch(t, []*Task{a})

	best := s.explore(nil, 0, 20, selection{})

	assert.Equal(t, selection{}, best)
	assert.Empty(t, s.committed)
	assert.Empty(t, s.memo)
	assert.True(t, s.isAvailable(a))
}

func TestSearch_MemoizedSubsetIsSkipped(t *testing.T) {
	a := NewTask(1, "a", 10, nil, 5)
	b := NewTask(2, "b", 10, nil, 3)
	s := newReadySearch(t, []*Task{a, b})
	s.memo[subsetKey([]int{1})] = 99

	best := s.explore(nil, 0, 10, selection{})

	assert.Equal(t, selection{utility: 3, tasks: []int{2}}, best)
	assert.Equal(t, 99, s.memo["1"], "memo entry left untouched")
	assert.Equal(t, 1, s.stats.memoHits)
	assert.True(t, s.isAvailable(a))
	assert.False(t, s.isAvailable(b))
	assert.Equal(t, []*Task{b}, s.committed)
}

func TestSearch_NonImprovingCandidateNotCommitted(t *testing.T) {
	a := NewTask(1, "a", 10, nil, 5)
	s := newReadySearch(t, []*Task{a})

	incumbent := selection{utility: 50, tasks: []int{7}}
	best := s.explore(nil, 0, 60, incumbent)

	assert.Equal(t, incumbent, best)
	assert.Equal(t, 5, s.memo["1"])
	assert.Equal(t, 1, s.stats.nonImproving)
	assert.Empty(t, s.committed)
	assert.True(t, s.isAvailable(a))
}

func TestSearch_CommitReleasesDependentsMidSearch(t *testing.T) {
	a := NewTask(1, "a", 30, nil, 5)
	b := NewTask(2, "b", 20, []int{1}, 9)
	s := newReadySearch(t, []*Task{a, b})

	best := s.explore(nil, 0, 60, selection{})

	assert.Equal(t, selection{utility: 24, tasks: []int{1, 2}}, best)
	assert.Equal(t, []*Task{a, b}, s.committed)
}

func TestSearch_BudgetIsPerFrame(t *testing.T) {
	a := NewTask(1, "a", 10, nil, 1)
	x := NewTask(2, "x", 40, nil, 1)
	y := NewTask(3, "y", 45, nil, 20)
	s := newReadySearch(t, []*Task{a, x, y})

	best := s.explore(nil, 0, 60, selection{})

	// Under {1,2} only 10 minutes remain, so y is first tried back at the
	// root frame, which still has 50.
	assert.Equal(t, selection{utility: 20, tasks: []int{3}}, best)
	assert.Equal(t, []*Task{a, x, y}, s.committed)
	assert.Equal(t, map[string]int{"1": 1, "1,2": 2, "3": 20}, s.memo)
}

func TestSearch_CommittedOutsideBestReturnToPool(t *testing.T) {
	a := NewTask(1, "a", 10, nil, 1)
	x := NewTask(2, "x", 40, nil, 1)
	y := NewTask(3, "y", 45, nil, 20)
	s := newReadySearch(t, []*Task{a, x, y})
	ex := NewExecutor(s.dag, 480, nil)

	w, err := s.runWindow(ex, 60)
	require.NoError(t, err)

	assert.Equal(t, Window{Clock: 480, Budget: 60, Utility: 20, Selected: []int{3}, Executed: []int{3}}, w)
	assert.Equal(t, 525, ex.Clock())
	assert.Equal(t, []*Task{a, x}, s.available)
	assert.Empty(t, s.committed)
	assert.Equal(t, StatusInQueue, a.Status)
	assert.Equal(t, StatusCompleted, y.Status)
}

func TestSearch_DependentNeedsPrerequisiteInBranch(t *testing.T) {
	a := NewTask(1, "a", 10, nil, 1)
	d := NewTask(2, "d", 5, []int{1}, 9)
	s := newReadySearch(t, []*Task{a, d})
	// a was committed on a branch that did not win.
	s.dag.RemoveDependency(a.ID)
	s.scanReady()
	require.True(t, s.isAvailable(d))

	best := s.explore(nil, 0, 5, selection{})

	assert.Equal(t, selection{}, best)
	assert.Empty(t, s.memo)
	assert.True(t, s.isAvailable(d))
}

func TestSearch_Run(t *testing.T) {
	s, err := NewSearch([]*Task{
		NewTask(1, "A", 30, nil, 5),
		NewTask(2, "B", 20, []int{1}, 9),
		NewTimedTask(3, "C", 10, nil, 5, 9*60),
	})
	require.NoError(t, err)

	res, err := s.Run(8)
	require.NoError(t, err)

	want := []LogEntry{
		{TaskID: 1, Description: "A", Start: 480, Duration: 30, End: 510, Priority: 15, Reason: ReadyDependency},
		{TaskID: 2, Description: "B", Start: 510, Duration: 20, End: 530, Priority: 9, Reason: ReadyDependency},
		{TaskID: 3, Description: "C", Start: 540, Duration: 10, End: 550, Priority: -9, Reason: ReadyDeadline},
	}
	assert.Equal(t, want, res.Log.Entries)
	assert.Empty(t, res.Abandoned)

	require.Len(t, res.Windows, 2)
	assert.Equal(t, Window{Clock: 480, Budget: 60, Utility: 24, Selected: []int{1, 2}, Executed: []int{1, 2}}, res.Windows[0])
	assert.Empty(t, res.Windows[1].Executed)
}

func TestSearch_MemoSpansWindows(t *testing.T) {
	s, err := NewSearch([]*Task{
		NewTask(1, "a", 20, nil, 5),
		NewTask(2, "b", 30, nil, 3),
		NewTask(3, "c", 30, nil, 4),
		NewTimedTask(4, "call", 10, nil, 1, 9*60),
		NewTask(5, "after call", 10, []int{4}, 1),
	})
	require.NoError(t, err)

	res, err := s.Run(8)
	require.NoError(t, err)

	want := []LogEntry{
		{TaskID: 1, Description: "a", Start: 480, Duration: 20, End: 500, Priority: 5, Reason: ReadyDependency},
		{TaskID: 2, Description: "b", Start: 500, Duration: 30, End: 530, Priority: 3, Reason: ReadyDependency},
		{TaskID: 4, Description: "call", Start: 540, Duration: 10, End: 550, Priority: -9, Reason: ReadyDeadline},
		{TaskID: 3, Description: "c", Start: 550, Duration: 30, End: 580, Priority: 4, Reason: ReadyDependency},
		{TaskID: 5, Description: "after call", Start: 580, Duration: 10, End: 590, Priority: 1, Reason: ReadyDependency},
	}
	assert.Equal(t, want, res.Log.Entries)
	assert.Empty(t, res.Abandoned)

	// {3} scores below {1} in the first window. The last window meets {3}
	// again in the memo and reaches c only through {3,5}.
	require.Len(t, res.Windows, 3)
	assert.Equal(t, Window{Clock: 480, Budget: 60, Utility: 8, Selected: []int{1, 2}, Executed: []int{1, 2}}, res.Windows[0])
	assert.Equal(t, 10, res.Windows[1].Budget)
	assert.Empty(t, res.Windows[1].Executed)
	assert.Equal(t, Window{Clock: 550, Budget: 650, Utility: 5, Selected: []int{3, 5}, Executed: []int{3, 5}}, res.Windows[2])

	assert.Equal(t, searchStats{evaluated: 5, memoHits: 1, nonImproving: 1}, s.stats)
}

func TestSearch_MemoizedSubsetCanStarve(t *testing.T) {
	s, err := NewSearch([]*Task{
		NewTask(1, "a", 20, nil, 5),
		NewTask(2, "b", 30, nil, 3),
		NewTask(3, "c", 30, nil, 4),
		NewTimedTask(4, "call", 10, nil, 1, 9*60),
	})
	require.NoError(t, err)

	res, err := s.Run(8)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 4}, res.Log.Order())
	assert.Equal(t, []int{3}, res.Abandoned)
	require.Len(t, res.Windows, 3)
	assert.Empty(t, res.Windows[2].Selected)
}

func TestSearch_LeapsToDeadlineWhenNothingFits(t *testing.T) {
	s, err := NewSearch([]*Task{
		NewTask(1, "long", 60, nil, 5),
		NewTimedTask(2, "call", 10, nil, 5, 8*60+30),
	})
	require.NoError(t, err)

	res, err := s.Run(8)
	require.NoError(t, err)

	assert.Equal(t, []int{2, 1}, res.Log.Order())
	call, _ := res.Log.Find(2)
	assert.Equal(t, 510, call.Start)
	long, _ := res.Log.Find(1)
	assert.Equal(t, 520, long.Start)

	require.Len(t, res.Windows, 2)
	assert.Equal(t, 30, res.Windows[0].Budget)
	assert.Empty(t, res.Windows[0].Executed)
	assert.Equal(t, 680, res.Windows[1].Budget)
}

func TestSearch_StopsAtDayEnd(t *testing.T) {
	s, err := NewSearch([]*Task{
		NewTask(1, "a", 40, nil, 9),
		NewTask(2, "b", 40, nil, 8),
		NewTask(3, "c", 40, nil, 7),
	}, WithDayEnd(9*60))
	require.NoError(t, err)

	res, err := s.Run(8)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, res.Log.Order())
	assert.Equal(t, []int{2, 3}, res.Abandoned)
	assert.Equal(t, 520, res.EndClock)
}

func TestSearch_UnreachableDeadlineIsAbandoned(t *testing.T) {
	s, err := NewSearch([]*Task{
		NewTask(1, "a", 600, nil, 5),
		NewTimedTask(2, "after", 10, []int{1}, 5, 9*60),
	}, WithDayEnd(10*60))
	require.NoError(t, err)

	res, err := s.Run(8)
	require.NoError(t, err)

	assert.Empty(t, res.Log.Entries)
	assert.Equal(t, []int{1, 2}, res.Abandoned)
}

func TestSearch_RunTwice(t *testing.T) {
	s, err := NewSearch([]*Task{NewTask(1, "a", 10, nil, 5)})
	require.NoError(t, err)
	_, err = s.Run(8)
	require.NoError(t, err)
	_, err = s.Run(8)
	assert.ErrorIs(t, err, ErrAlreadyRan)
}

func TestSearch_PublishesWindows(t *testing.T) {
	bus := events.NewEventBus()
	defer bus.Close()
	ch := bus.Subscribe(events.TopicPlan, 64)

	s, err := NewSearch([]*Task{NewTask(1, "a", 10, nil, 5)}, WithPublisher(bus))
	require.NoError(t, err)
	_, err = s.Run(8)
	require.NoError(t, err)

	var windows []events.WindowSearchedEvent
	for len(ch) > 0 {
		if ev, ok := (<-ch).(events.WindowSearchedEvent); ok {
			windows = append(windows, ev)
		}
	}
	require.Len(t, windows, 1)
	assert.Equal(t, []int{1}, windows[0].Selected)
	assert.Equal(t, 5, windows[0].Utility)
}

func TestOrderBatch(t *testing.T) {
	one := NewTask(1, "one", 10, []int{2}, 5)
	two := NewTask(2, "two", 10, nil, 5)
	three := NewTask(3, "three", 10, nil, 5)
	four := NewTask(4, "four", 10, []int{9}, 5)

	got := orderBatch([]*Task{three, one, four, two})

	var ids []int
	for _, task := range got {
		ids = append(ids, task.ID)
	}
	// 1 waits for 2; 4's prerequisite lies outside the batch.
	assert.Equal(t, []int{2, 1, 3, 4}, ids)
}

func TestSubsetKey(t *testing.T) {
	assert.Equal(t, "1,4,7", subsetKey(withID([]int{4, 7}, 1)))
	assert.Equal(t, "", subsetKey(nil))
}

func TestNew(t *testing.T) {
	for _, kind := range []string{KindGreedy, KindSearch} {
		s, err := New(kind, []*Task{NewTask(1, "a", 10, nil, 5)})
		require.NoError(t, err)
		res, err := s.Run(8)
		require.NoError(t, err)
		assert.Equal(t, kind, res.Scheduler)
	}

	_, err := New("random", nil)
	assert.Error(t, err)
}
