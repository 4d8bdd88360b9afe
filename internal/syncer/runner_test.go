package syncer

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/halvard/dagaz/internal/apperr"
	"github.com/halvard/dagaz/internal/oracle"
	"github.com/halvard/dagaz/internal/testutil"
)

func waitForIdle(t *testing.T, r *Runner) Status {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		st := r.Status()
		if !st.Running {
			return st
		}
		select {
		case <-deadline:
			t.Fatal("runner did not finish in time")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestRunner_BackgroundRun(t *testing.T) {
	orc := &fakeOracle{metrics: map[string]*oracle.MetricsPayload{
		"2024-01-01": payload(1),
		"2024-01-02": payload(2),
	}}
	svc, dir := testService(t, orc, "")
	testutil.WriteNote(t, dir, "2024-01-01", "one")
	testutil.WriteNote(t, dir, "2024-01-02", "two")
	testutil.WriteNote(t, dir, "2024-01-03", "three") // oracle will fail here

	var mu sync.Mutex
	var events []string
	r := NewRunner(svc, testLogger(), func(event string, _ any) {
		mu.Lock()
		events = append(events, event)
		mu.Unlock()
	})

	queued, err := r.Start(ModeIncremental)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if queued != 3 {
		t.Errorf("queued = %d, want 3", queued)
	}

	st := waitForIdle(t, r)
	if st.Processed != 3 {
		t.Errorf("processed = %d, want 3", st.Processed)
	}
	if st.Failed != 1 {
		t.Errorf("failed = %d, want 1", st.Failed)
	}
	if st.FinishedAt == nil {
		t.Error("finished_at should be set")
	}

	mu.Lock()
	defer mu.Unlock()
	if events[0] != "sync.started" || events[len(events)-1] != "sync.completed" {
		t.Errorf("events = %v", events)
	}
}

func TestRunner_RejectsConcurrentStart(t *testing.T) {
	orc := &fakeOracle{metrics: map[string]*oracle.MetricsPayload{}, slow: 50 * time.Millisecond}
	svc, dir := testService(t, orc, "")
	testutil.WriteNote(t, dir, "2024-01-01", "one")

	r := NewRunner(svc, testLogger(), nil)
	if _, err := r.Start(ModeFull); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := r.Start(ModeFull); !errors.Is(err, apperr.ErrSyncInProgress) {
		t.Errorf("second start err = %v, want ErrSyncInProgress", err)
	}
	waitForIdle(t, r)

	// After completion a new run is allowed again.
	if _, err := r.Start(ModeFull); err != nil {
		t.Errorf("start after finish: %v", err)
	}
	waitForIdle(t, r)
}

func TestRunner_Cancel(t *testing.T) {
	orc := &fakeOracle{metrics: map[string]*oracle.MetricsPayload{}, slow: 20 * time.Millisecond}
	svc, dir := testService(t, orc, "")
	for _, d := range []string{"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05"} {
		testutil.WriteNote(t, dir, d, "note")
	}

	r := NewRunner(svc, testLogger(), nil)
	if _, err := r.Start(ModeFull); err != nil {
		t.Fatalf("Start: %v", err)
	}
	r.Cancel()

	st := waitForIdle(t, r)
	if st.Processed == 5 {
		t.Error("cancel should stop the run before all dates are processed")
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}
