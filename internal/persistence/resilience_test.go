package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func fastRetry(s *SQLiteStore) {
	s.retry = RetryConfig{
		InitialInterval:     time.Millisecond,
		MaxInterval:         5 * time.Millisecond,
		MaxElapsedTime:      time.Second,
		Multiplier:          2.0,
		RandomizationFactor: 0,
	}
}

func TestWrite_BusyThenSuccess(t *testing.T) {
	store := testStore(t)
	fastRetry(store)

	calls := 0
	err := store.write(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("database is locked (5) (SQLITE_BUSY)")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestWrite_PermanentErrorNotRetried(t *testing.T) {
	store := testStore(t)
	fastRetry(store)

	want := errors.New("UNIQUE constraint failed: bench_runs.id")
	calls := 0
	err := store.write(context.Background(), func(ctx context.Context) error {
		calls++
		return want
	})
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestWrite_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	store := testStore(t)
	fastRetry(store)

	calls := 0
	failing := func(ctx context.Context) error {
		calls++
		return errors.New("disk I/O error")
	}
	for i := 0; i < 5; i++ {
		_ = store.write(context.Background(), failing)
	}
	if calls != 5 {
		t.Fatalf("expected 5 calls before tripping, got %d", calls)
	}

	err := store.write(context.Background(), failing)
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
	if calls != 5 {
		t.Errorf("open breaker still called the operation (%d calls)", calls)
	}
}

func TestWrite_ContextCancelled(t *testing.T) {
	store := testStore(t)
	fastRetry(store)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.write(ctx, func(ctx context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("operation ran with a cancelled context")
	}
}

func TestIsBusy(t *testing.T) {
	if !isBusy(errors.New("database is locked")) {
		t.Error("locked database should be busy")
	}
	if isBusy(errors.New("no such table: bench_runs")) {
		t.Error("missing table is not busy")
	}
}
