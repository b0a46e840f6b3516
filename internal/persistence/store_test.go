package persistence

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/aristath/dayplanner/internal/scheduler"
)

// testStore creates an in-memory store for testing and registers cleanup.
func testStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewMemoryStore(context.Background())
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func TestSaveAndGetBenchRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := BenchRun{ID: "run-1", Scheduler: "greedy", Seed: 7, MaxTasks: 3, Fixed: true}
	samples := []BenchSample{
		{Size: 1, Elapsed: 1200 * time.Nanosecond, Executed: 1},
		{Size: 2, Elapsed: 3 * time.Microsecond, Executed: 2},
		{Size: 3, Elapsed: 5 * time.Microsecond, Executed: 2, Abandoned: 1},
	}
	if err := store.SaveBenchRun(ctx, run, samples); err != nil {
		t.Fatalf("SaveBenchRun failed: %v", err)
	}

	runs, err := store.ListBenchRuns(ctx)
	if err != nil {
		t.Fatalf("ListBenchRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Scheduler != run.Scheduler || got.Seed != run.Seed || got.MaxTasks != run.MaxTasks || !got.Fixed {
		t.Errorf("run mismatch: got %+v, want %+v", got, run)
	}
	if got.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	loaded, err := store.GetBenchSamples(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetBenchSamples failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, samples) {
		t.Errorf("samples mismatch:\n got %+v\nwant %+v", loaded, samples)
	}
}

func TestSaveBenchRunDuplicateID(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	run := BenchRun{ID: "dup", Scheduler: "search", Seed: 1, MaxTasks: 1}
	if err := store.SaveBenchRun(ctx, run, nil); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := store.SaveBenchRun(ctx, run, nil); err == nil {
		t.Fatal("expected error for duplicate run id")
	}
}

func TestGetBenchSamplesNotFound(t *testing.T) {
	store := testStore(t)

	_, err := store.GetBenchSamples(context.Background(), "missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListBenchRunsEmpty(t *testing.T) {
	store := testStore(t)

	runs, err := store.ListBenchRuns(context.Background())
	if err != nil {
		t.Fatalf("ListBenchRuns failed: %v", err)
	}
	if runs == nil || len(runs) != 0 {
		t.Errorf("expected empty, non-nil slice, got %#v", runs)
	}
}

func TestListBenchRunsNewestFirst(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "new", "mid"} {
		offsets := []time.Duration{0, 2 * time.Hour, time.Hour}
		run := BenchRun{ID: id, Scheduler: "greedy", MaxTasks: 1, CreatedAt: base.Add(offsets[i])}
		if err := store.SaveBenchRun(ctx, run, nil); err != nil {
			t.Fatalf("SaveBenchRun(%s) failed: %v", id, err)
		}
	}

	runs, err := store.ListBenchRuns(ctx)
	if err != nil {
		t.Fatalf("ListBenchRuns failed: %v", err)
	}
	var ids []string
	for _, r := range runs {
		ids = append(ids, r.ID)
	}
	if want := []string{"new", "mid", "old"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("order = %v, want %v", ids, want)
	}
}

func TestSaveAndGetPlanRun(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	tasks := []*scheduler.Task{
		scheduler.NewTask(1, "A", 30, nil, 5),
		scheduler.NewTask(2, "B", 20, []int{1}, 9),
		scheduler.NewTimedTask(3, "C", 10, nil, 5, 9*60),
		scheduler.NewTimedTask(4, "late", 10, nil, 5, 23*60),
	}
	g, err := scheduler.NewGreedy(tasks, scheduler.WithHorizon(120))
	if err != nil {
		t.Fatalf("NewGreedy failed: %v", err)
	}
	res, err := g.Run(8)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if err := store.SavePlanRun(ctx, "plan-1", "day.yaml", res); err != nil {
		t.Fatalf("SavePlanRun failed: %v", err)
	}

	runs, err := store.ListPlanRuns(ctx)
	if err != nil {
		t.Fatalf("ListPlanRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 plan run, got %d", len(runs))
	}
	run := runs[0]
	if run.Scheduler != "greedy" || run.TasksFile != "day.yaml" || run.StartClock != 480 || run.EndClock != 550 || run.Executed != 3 {
		t.Errorf("unexpected plan run: %+v", run)
	}
	if !reflect.DeepEqual(run.Abandoned, []int{4}) {
		t.Errorf("abandoned = %v, want [4]", run.Abandoned)
	}

	trace, err := store.GetPlanTrace(ctx, "plan-1")
	if err != nil {
		t.Fatalf("GetPlanTrace failed: %v", err)
	}
	if !reflect.DeepEqual(trace, res.Log.Entries) {
		t.Errorf("trace mismatch:\n got %+v\nwant %+v", trace, res.Log.Entries)
	}
}

func TestGetPlanTraceUnknownRun(t *testing.T) {
	store := testStore(t)

	trace, err := store.GetPlanTrace(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetPlanTrace failed: %v", err)
	}
	if trace == nil || len(trace) != 0 {
		t.Errorf("expected empty, non-nil trace, got %#v", trace)
	}
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	a := testStore(t)
	b := testStore(t)
	ctx := context.Background()

	if err := a.SaveBenchRun(ctx, BenchRun{ID: "only-a", Scheduler: "greedy", MaxTasks: 1}, nil); err != nil {
		t.Fatalf("SaveBenchRun failed: %v", err)
	}
	runs, err := b.ListBenchRuns(ctx)
	if err != nil {
		t.Fatalf("ListBenchRuns failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("store b sees %d runs from store a", len(runs))
	}
}

func TestSQLiteStoreOnDisk(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "history.db")

	store, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("NewSQLiteStore failed: %v", err)
	}
	if err := store.SaveBenchRun(ctx, BenchRun{ID: "disk", Scheduler: "search", MaxTasks: 2}, []BenchSample{{Size: 1}}); err != nil {
		t.Fatalf("SaveBenchRun failed: %v", err)
	}
	store.Close()

	reopened, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatalf("reopening store failed: %v", err)
	}
	defer reopened.Close()

	samples, err := reopened.GetBenchSamples(ctx, "disk")
	if err != nil {
		t.Fatalf("GetBenchSamples failed: %v", err)
	}
	if len(samples) != 1 {
		t.Errorf("expected 1 sample after reopen, got %d", len(samples))
	}
}

func TestForeignKeyEnforced(t *testing.T) {
	store := testStore(t)

	_, err := store.db.ExecContext(context.Background(), `
		INSERT INTO bench_samples (run_id, size, elapsed_ns, executed, abandoned)
		VALUES ('ghost', 1, 1, 1, 0)
	`)
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestSplitIDs(t *testing.T) {
	ids, err := splitIDs(joinIDs([]int{3, 10, 42}))
	if err != nil || !reflect.DeepEqual(ids, []int{3, 10, 42}) {
		t.Errorf("round trip = %v, %v", ids, err)
	}
	if ids, err := splitIDs(""); err != nil || ids != nil {
		t.Errorf("empty = %v, %v", ids, err)
	}
	if _, err := splitIDs("1,x"); err == nil {
		t.Error("expected error for malformed list")
	}
}
