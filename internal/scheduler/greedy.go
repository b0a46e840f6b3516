package scheduler

// Greedy interleaves two ready queues: deadline-bound tasks keyed by start
// time and unconstrained tasks keyed by their priority at insertion. Keys are
// frozen once queued.
type Greedy struct {
	dag           *DAG
	opts          Options
	depQueue      *MaxHeap[*Task]
	deadlineQueue *MaxHeap[*Task]
	ran           bool
}

// NewGreedy validates tasks and creates a greedy scheduler owning them.
func NewGreedy(tasks []*Task, opts ...Option) (*Greedy, error) {
	dag, err := NewDAG(tasks)
	if err != nil {
		return nil, err
	}
	return &Greedy{
		dag:           dag,
		opts:          newOptions(opts),
		depQueue:      NewMaxHeap[*Task](),
		deadlineQueue: NewMaxHeap[*Task](),
	}, nil
}

// DAG exposes the task collection the scheduler mutates.
func (g *Greedy) DAG() *DAG {
	return g.dag
}

// Run simulates the day from startHour until every reachable task is done or
// the clock reaches the horizon. Tasks that can no longer run are abandoned.
func (g *Greedy) Run(startHour int) (*Result, error) {
	if g.ran {
		return nil, ErrAlreadyRan
	}
	g.ran = true

	start, err := startClock(startHour)
	if err != nil {
		return nil, err
	}
	horizon := start + g.opts.Horizon
	ex := NewExecutor(g.dag, start, g.opts.Publisher)

	for g.dag.HasNotStarted() || g.depQueue.Len() > 0 || g.deadlineQueue.Len() > 0 {
		g.enqueueReady(horizon)

		if ex.Clock() >= horizon {
			break
		}

		hasDep := g.depQueue.Len() > 0
		hasDeadline := g.deadlineQueue.Len() > 0

		switch {
		case hasDep && hasDeadline:
			if err := g.selectBetween(ex); err != nil {
				return nil, err
			}

		case hasDep:
			dep, err := g.depQueue.Pop()
			if err != nil {
				return nil, err
			}
			if err := ex.Execute(dep.Item, dep.Key, ReadyDependency); err != nil {
				return nil, err
			}

		case hasDeadline:
			strt, err := g.deadlineQueue.Pop()
			if err != nil {
				return nil, err
			}
			ex.JumpTo(strt.Item.StartTime)
			if err := ex.Execute(strt.Item, strt.Key, ReadyDeadline); err != nil {
				return nil, err
			}

		default:
			// Nothing queued and nothing became ready: the remaining tasks
			// wait on work beyond the horizon.
			return ex.finish(KindGreedy, start, nil), nil
		}
	}

	return ex.finish(KindGreedy, start, nil), nil
}

// selectBetween runs the earliest deadline task if its start has arrived or if
// running the best unconstrained task first would overshoot it. Otherwise the
// unconstrained task runs. The loser goes back to its own queue unchanged.
func (g *Greedy) selectBetween(ex *Executor) error {
	strt, err := g.deadlineQueue.Pop()
	if err != nil {
		return err
	}
	dep, err := g.depQueue.Pop()
	if err != nil {
		return err
	}

	deadline := strt.Item.StartTime
	if ex.Clock() == deadline || ex.Clock()+dep.Item.Duration > deadline {
		ex.JumpTo(deadline)
		if err := ex.Execute(strt.Item, strt.Key, ReadyDeadline); err != nil {
			return err
		}
		g.depQueue.Push(dep.Item, dep.Key)
		return nil
	}

	if err := ex.Execute(dep.Item, dep.Key, ReadyDependency); err != nil {
		return err
	}
	g.deadlineQueue.Push(strt.Item, strt.Key)
	return nil
}

// enqueueReady promotes every ready task into exactly one queue. Deadline
// tasks starting at or past the horizon stay NotStarted.
func (g *Greedy) enqueueReady(horizon int) {
	for _, t := range g.dag.tasks {
		if !t.Ready() {
			continue
		}
		reason := reasonFor(t)
		if reason == ReadyDeadline && t.StartTime >= horizon {
			continue
		}
		t.Status = StatusInQueue
		key := reason.Key(g.dag, t)
		if reason == ReadyDeadline {
			g.deadlineQueue.Push(t, key)
		} else {
			g.depQueue.Push(t, key)
		}
	}
}
