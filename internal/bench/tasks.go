// Package bench times the schedulers on generated days of growing size.
package bench

import (
	"fmt"
	"math/rand"

	"github.com/aristath/dayplanner/internal/scheduler"
)

const (
	minDuration   = 10
	maxDuration   = 60
	fixedDuration = 30
)

// RandomTasks generates n independent, unconstrained tasks with ids 1..n and
// preferences drawn from 1..10. Durations are drawn from 10..60 minutes, or
// are all 30 when fixed is set.
func RandomTasks(rng *rand.Rand, n int, fixed bool) []*scheduler.Task {
	tasks := make([]*scheduler.Task, 0, n)
	for i := 1; i <= n; i++ {
		duration := fixedDuration
		if !fixed {
			duration = minDuration + rng.Intn(maxDuration-minDuration+1)
		}
		preference := scheduler.MinPreference + rng.Intn(scheduler.MaxPreference-scheduler.MinPreference+1)
		tasks = append(tasks, scheduler.NewTask(i, fmt.Sprintf("Task %d", i), duration, nil, preference))
	}
	return tasks
}
