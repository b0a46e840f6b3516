package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/aristath/dayplanner/internal/scheduler"
)

// SavePlanRun stores a scheduling result and its trace under id.
func (s *SQLiteStore) SavePlanRun(ctx context.Context, id, tasksFile string, res *scheduler.Result) error {
	return s.write(ctx, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx, `
			INSERT INTO plan_runs (id, scheduler, tasks_file, start_clock, end_clock, executed, abandoned)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, id, res.Scheduler, tasksFile, res.StartClock, res.EndClock, res.Log.Len(), joinIDs(res.Abandoned))
		if err != nil {
			return fmt.Errorf("failed to insert plan run: %w", err)
		}

		for seq, e := range res.Log.Entries {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO plan_entries (run_id, seq, task_id, description, start_clock, duration, end_clock, priority, reason)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, id, seq, e.TaskID, e.Description, e.Start, e.Duration, e.End, e.Priority, e.Reason.String())
			if err != nil {
				return fmt.Errorf("failed to insert entry for task %d: %w", e.TaskID, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// ListPlanRuns returns every stored scheduling run, newest first.
func (s *SQLiteStore) ListPlanRuns(ctx context.Context) ([]PlanRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scheduler, tasks_file, start_clock, end_clock, executed, abandoned, created_at
		FROM plan_runs
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query plan runs: %w", err)
	}
	defer rows.Close()

	runs := []PlanRun{}
	for rows.Next() {
		var run PlanRun
		var abandoned string
		if err := rows.Scan(&run.ID, &run.Scheduler, &run.TasksFile, &run.StartClock, &run.EndClock,
			&run.Executed, &abandoned, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan run: %w", err)
		}
		if run.Abandoned, err = splitIDs(abandoned); err != nil {
			return nil, fmt.Errorf("plan run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plan runs: %w", err)
	}
	return runs, nil
}

// GetPlanTrace returns the execution log of a stored run in execution order.
// Returns an empty slice (not nil) for a run that executed nothing.
func (s *SQLiteStore) GetPlanTrace(ctx context.Context, runID string) ([]scheduler.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT task_id, description, start_clock, duration, end_clock, priority, reason
		FROM plan_entries
		WHERE run_id = ?
		ORDER BY seq
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trace: %w", err)
	}
	defer rows.Close()

	trace := []scheduler.LogEntry{}
	for rows.Next() {
		var e scheduler.LogEntry
		var reason string
		if err := rows.Scan(&e.TaskID, &e.Description, &e.Start, &e.Duration, &e.End, &e.Priority, &reason); err != nil {
			return nil, fmt.Errorf("failed to scan trace entry: %w", err)
		}
		if e.Reason, err = scheduler.ParseReadyReason(reason); err != nil {
			return nil, err
		}
		trace = append(trace, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trace: %w", err)
	}
	return trace, nil
}

// joinIDs stores a list of ids as a comma-separated string.
func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func splitIDs(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("malformed id list %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
