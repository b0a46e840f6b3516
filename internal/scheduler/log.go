package scheduler

// LogEntry is one executed task.
type LogEntry struct {
	TaskID      int
	Description string
	Start       int     // Clock when the task began
	Duration    int
	End         int     // Clock when the task completed
	Priority    float64 // Key the task was selected with
	Reason      ReadyReason
}

// ExecutionLog is the ordered trace of a run.
type ExecutionLog struct {
	Entries []LogEntry
}

// Append records an executed task at the end of the log.
func (l *ExecutionLog) Append(e LogEntry) {
	l.Entries = append(l.Entries, e)
}

// Len returns the number of executed tasks.
func (l ExecutionLog) Len() int {
	return len(l.Entries)
}

// Order returns the executed task ids in execution order.
func (l ExecutionLog) Order() []int {
	ids := make([]int, 0, len(l.Entries))
	for _, e := range l.Entries {
		ids = append(ids, e.TaskID)
	}
	return ids
}

// Find returns the entry for taskID.
func (l ExecutionLog) Find(taskID int) (LogEntry, bool) {
	for _, e := range l.Entries {
		if e.TaskID == taskID {
			return e, true
		}
	}
	return LogEntry{}, false
}
