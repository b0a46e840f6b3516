package persistence

import (
	"context"
)

// initSchema creates all required tables if they don't exist.
func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS bench_runs (
		id TEXT PRIMARY KEY,
		scheduler TEXT NOT NULL,
		seed INTEGER NOT NULL,
		max_tasks INTEGER NOT NULL,
		fixed INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS bench_samples (
		run_id TEXT NOT NULL,
		size INTEGER NOT NULL,
		elapsed_ns INTEGER NOT NULL,
		executed INTEGER NOT NULL,
		abandoned INTEGER NOT NULL,
		PRIMARY KEY (run_id, size),
		FOREIGN KEY (run_id) REFERENCES bench_runs(id) ON DELETE CASCADE
	);

	CREATE TABLE IF NOT EXISTS plan_runs (
		id TEXT PRIMARY KEY,
		scheduler TEXT NOT NULL,
		tasks_file TEXT NOT NULL,
		start_clock INTEGER NOT NULL,
		end_clock INTEGER NOT NULL,
		executed INTEGER NOT NULL,
		abandoned TEXT NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS plan_entries (
		run_id TEXT NOT NULL,
		seq INTEGER NOT NULL,
		task_id INTEGER NOT NULL,
		description TEXT NOT NULL,
		start_clock INTEGER NOT NULL,
		duration INTEGER NOT NULL,
		end_clock INTEGER NOT NULL,
		priority REAL NOT NULL,
		reason TEXT NOT NULL,
		PRIMARY KEY (run_id, seq),
		FOREIGN KEY (run_id) REFERENCES plan_runs(id) ON DELETE CASCADE
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}
