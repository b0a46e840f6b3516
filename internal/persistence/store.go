package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	_ "modernc.org/sqlite"

	"github.com/aristath/dayplanner/internal/scheduler"
)

// BenchRun is one stored benchmark.
type BenchRun struct {
	ID        string
	Scheduler string
	Seed      int64
	MaxTasks  int
	Fixed     bool // Every task lasted 30 minutes
	CreatedAt time.Time
}

// BenchSample is the timing of one input size within a benchmark.
type BenchSample struct {
	Size      int
	Elapsed   time.Duration
	Executed  int
	Abandoned int
}

// PlanRun is one stored scheduling run. Its trace is kept separately.
type PlanRun struct {
	ID         string
	Scheduler  string
	TasksFile  string // Empty for the built-in sample day
	StartClock int
	EndClock   int
	Executed   int
	Abandoned  []int
	CreatedAt  time.Time
}

// Store defines the persistence interface for benchmark and run history.
type Store interface {
	// Benchmarks
	SaveBenchRun(ctx context.Context, run BenchRun, samples []BenchSample) error
	ListBenchRuns(ctx context.Context) ([]BenchRun, error)
	GetBenchSamples(ctx context.Context, runID string) ([]BenchSample, error)

	// Scheduling runs
	SavePlanRun(ctx context.Context, id, tasksFile string, res *scheduler.Result) error
	ListPlanRuns(ctx context.Context) ([]PlanRun, error)
	GetPlanTrace(ctx context.Context, runID string) ([]scheduler.LogEntry, error)

	// Lifecycle
	Close() error
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	breaker *gobreaker.CircuitBreaker
	retry   RetryConfig
}

// NewSQLiteStore creates a new SQLite-backed store at the given path.
// Creates parent directories if needed. Enables WAL mode, foreign keys, and busy timeout.
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	// modernc.org/sqlite applies _pragma parameters to every new connection
	connStr := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)", dbPath)
	return open(ctx, connStr)
}

// NewMemoryStore creates an in-memory SQLite store for testing. Each store
// gets its own named database shared by its connections.
func NewMemoryStore(ctx context.Context) (*SQLiteStore, error) {
	connStr := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	return open(ctx, connStr)
}

func open(ctx context.Context, connStr string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection for the outer query, one for lookups made while iterating it
	db.SetMaxOpenConns(2)

	store := &SQLiteStore{
		db:      db,
		breaker: newWriteBreaker("history"),
		retry:   DefaultRetryConfig(),
	}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

var _ Store = (*SQLiteStore)(nil)
