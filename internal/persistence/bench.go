package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SaveBenchRun stores a benchmark and its samples in one transaction.
func (s *SQLiteStore) SaveBenchRun(ctx context.Context, run BenchRun, samples []BenchSample) error {
	return s.write(ctx, func(ctx context.Context) error {
		tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer tx.Rollback()

		createdAt := run.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now()
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO bench_runs (id, scheduler, seed, max_tasks, fixed, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, run.Scheduler, run.Seed, run.MaxTasks, run.Fixed, createdAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert bench run: %w", err)
		}

		for _, sample := range samples {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO bench_samples (run_id, size, elapsed_ns, executed, abandoned)
				VALUES (?, ?, ?, ?, ?)
			`, run.ID, sample.Size, sample.Elapsed.Nanoseconds(), sample.Executed, sample.Abandoned)
			if err != nil {
				return fmt.Errorf("failed to insert sample of size %d: %w", sample.Size, err)
			}
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	})
}

// ListBenchRuns returns every stored benchmark, newest first.
func (s *SQLiteStore) ListBenchRuns(ctx context.Context) ([]BenchRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, scheduler, seed, max_tasks, fixed, created_at
		FROM bench_runs
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bench runs: %w", err)
	}
	defer rows.Close()

	runs := []BenchRun{}
	for rows.Next() {
		var run BenchRun
		if err := rows.Scan(&run.ID, &run.Scheduler, &run.Seed, &run.MaxTasks, &run.Fixed, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bench run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bench runs: %w", err)
	}
	return runs, nil
}

// GetBenchSamples returns the samples of a benchmark by ascending size.
func (s *SQLiteStore) GetBenchSamples(ctx context.Context, runID string) ([]BenchSample, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM bench_runs WHERE id = ?`, runID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bench run not found: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bench run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT size, elapsed_ns, executed, abandoned
		FROM bench_samples
		WHERE run_id = ?
		ORDER BY size
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query samples: %w", err)
	}
	defer rows.Close()

	samples := []BenchSample{}
	for rows.Next() {
		var sample BenchSample
		var elapsed int64
		if err := rows.Scan(&sample.Size, &elapsed, &sample.Executed, &sample.Abandoned); err != nil {
			return nil, fmt.Errorf("failed to scan sample: %w", err)
		}
		sample.Elapsed = time.Duration(elapsed)
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating samples: %w", err)
	}
	return samples, nil
}
